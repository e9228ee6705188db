package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope wraps every persisted value. Readers only look at Data; unknown
// fields are ignored so newer writers stay readable.
type Envelope struct {
	Data          json.RawMessage `json:"data"`
	Timestamp     int64           `json:"timestamp"`
	SchemaVersion string          `json:"version"`
}

// Encode wraps v in an Envelope stamped with ts (unix milliseconds) and version.
func Encode(v any, ts time.Time, version string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return json.Marshal(Envelope{Data: data, Timestamp: ts.UnixMilli(), SchemaVersion: version})
}

// Decode unwraps raw and decodes its Data into dst. A missing or null Data
// field is an error so callers can treat it as absent.
func Decode(raw []byte, dst any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return env, fmt.Errorf("decode envelope: no data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return env, fmt.Errorf("decode payload: %w", err)
	}
	return env, nil
}
