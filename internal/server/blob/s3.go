package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dberzins/accountd/internal/server/config"
)

// S3Storage stores blobs in an S3-compatible bucket (MinIO in development).
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Storage builds a client from static credentials and the configured
// base endpoint.
func NewS3Storage(ctx context.Context, cfg *config.Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimSuffix(cfg.S3BaseEndpoint, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put error: %w", err)
	}

	return s.baseURL + "/" + s.bucket + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return fmt.Errorf("url %q does not belong to bucket %q", url, s.bucket)
	}

	// DeleteObject is a no-op for a missing key, which is what we want.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete error: %w", err)
	}
	return nil
}

func (s *S3Storage) keyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
