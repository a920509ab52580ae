package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const S3_PART_SIZE = 10 * 1024 * 1024

type S3Client struct {
	Client *s3.Client
}

// NewS3Client loads the default AWS credential chain. A non-empty endpoint
// points the client at an S3-compatible store such as MinIO or LocalStack.
func NewS3Client(ctx context.Context, region, endpoint string) (*S3Client, error) {
	slog.Info("[AWSClient] Initializing AWS Config...",
		slog.String("region", region))

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("[AWSClient] failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	slog.Info("[AWSClient] AWS Config Initialized")
	return &S3Client{Client: client}, nil
}

func (c *S3Client) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	start := time.Now()
	downloader := manager.NewDownloader(c.Client, func(d *manager.Downloader) {
		d.PartSize = S3_PART_SIZE
	})

	buffer := manager.NewWriteAtBuffer([]byte{})
	_, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	slog.Info("[AWSClient] Artifact downloaded",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int("bytes", len(buffer.Bytes())),
		slog.Duration("elapsed", time.Since(start)))
	return buffer.Bytes(), nil
}
