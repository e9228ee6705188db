// Package netx wraps the plain HTTP calls the backup sinks make.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Client is the HTTP client Put uses. Tests may replace it.
var Client = &http.Client{}

// Put uploads body to url, typically a presigned S3 PUT URL. Any status
// other than 200 is an error that includes the response body.
func Put(ctx context.Context, url string, body []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
