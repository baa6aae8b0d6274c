package storage

import (
	"context"
	"fmt"
	"io"

	"poster-commerce/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// bucket stores objects through the S3 API. R2 is S3-compatible and needs
// only an endpoint and path-style addressing.
type bucket struct {
	client   s3iface.S3API
	uploader s3manageriface.UploaderAPI
	name     string
	kind     string
	region   string
	endpoint string
}

func newBucket(cfg config.StorageConfig) (*bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage.bucket is required for %s", cfg.Type)
	}
	awsCfg := &aws.Config{}
	region := cfg.Region
	if cfg.Type == "r2" {
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("storage.endpoint is required for r2")
		}
		region = "auto"
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if region == "" {
		region = "us-east-1"
	}
	awsCfg.Region = aws.String(region)
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s session: %w", cfg.Type, err)
	}
	return &bucket{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		name:     cfg.Bucket,
		kind:     cfg.Type,
		region:   region,
		endpoint: cfg.Endpoint,
	}, nil
}

func (b *bucket) defaultURL() string {
	if b.kind == "r2" {
		return fmt.Sprintf("https://%s.r2.dev", b.name)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", b.name, b.region)
}

func (b *bucket) save(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload to %s: %w", b.kind, err)
	}
	return nil
}

func (b *bucket) remove(ctx context.Context, key string) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", b.kind, err)
	}
	return nil
}
