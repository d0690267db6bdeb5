// utils/r2.go
package utils

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the slice of the S3 API the export path needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Storage uploads objects to a Cloudflare R2 bucket.
type R2Storage struct {
	client     ObjectPutter
	bucket     string
	cdnBaseURL string
}

// NewR2Storage builds an S3 client pointed at the account's R2 endpoint.
func NewR2Storage(ctx context.Context, sc StorageConfig) (*R2Storage, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", sc.AccountID)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			sc.AccessKeyID, sc.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return NewR2StorageWithClient(client, sc), nil
}

// NewR2StorageWithClient wraps an existing client.
func NewR2StorageWithClient(client ObjectPutter, sc StorageConfig) *R2Storage {
	cdn := sc.CDNBaseURL
	if cdn == "" {
		cdn = fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", sc.AccountID, sc.Bucket)
	}
	return &R2Storage{client: client, bucket: sc.Bucket, cdnBaseURL: cdn}
}

// Upload writes body under key and returns the public URL.
func (r *R2Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s", r.cdnBaseURL, key), nil
}
