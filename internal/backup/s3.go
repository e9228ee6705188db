package backup

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/rfpmonitor/internal/config"
	"github.com/dmitrijs2005/rfpmonitor/internal/netx"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	uploadPresigned = netx.Put
)

const presignExpiry = 15 * time.Minute

// S3Sink uploads blobs to an S3-compatible bucket through presigned PUT
// URLs. Keys are laid out as <prefix>/<yyyy>/<mm>/<dd>/<name>.
type S3Sink struct {
	cfg    config.S3Config
	prefix string
	now    func() time.Time
}

func NewS3Sink(cfg config.S3Config) *S3Sink {
	return &S3Sink{cfg: cfg, prefix: "rfpmonitor", now: time.Now}
}

func (s *S3Sink) Name() string { return "s3:" + s.cfg.Bucket }

func (s *S3Sink) key(name string) string {
	d := s.now().UTC()
	return path.Join(s.prefix, fmt.Sprintf("%04d/%02d/%02d", d.Year(), d.Month(), d.Day()), path.Base(name))
}

func (s *S3Sink) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns the object key and a presigned PUT URL for name.
func (s *S3Sink) PresignPut(ctx context.Context, name string) (string, string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.cfg.Bucket
	key := s.key(name)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign put %s: %w", key, err)
	}

	return key, req.URL, nil
}

func (s *S3Sink) Put(ctx context.Context, name string, body []byte) error {
	_, url, err := s.PresignPut(ctx, name)
	if err != nil {
		return err
	}
	return uploadPresigned(ctx, url, body, "application/json")
}
