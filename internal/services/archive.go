package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	appconfig "fineops/internal/config"
	"fineops/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ManifestArchive copies every generated manifest PDF into S3-compatible
// object storage. It is optional: when no bucket is configured the
// service is simply not constructed.
type ManifestArchive struct {
	client *s3.Client
	bucket string
	log    *logger.Logger
}

func NewManifestArchive(ctx context.Context, cfg appconfig.S3Config) (*ManifestArchive, error) {
	log := logger.New("archive")

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials are empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	log.Success("manifest archive enabled (bucket %s)", cfg.BucketName)

	return &ManifestArchive{
		client: client,
		bucket: cfg.BucketName,
		log:    log,
	}, nil
}

// Upload stores the manifest under manifests/<year>/<month>/<filename>.
func (a *ManifestArchive) Upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", path, err)
	}

	now := time.Now()
	key := fmt.Sprintf("manifests/%04d/%02d/%s", now.Year(), now.Month(), filepath.Base(path))

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("upload manifest %s: %w", key, err)
	}

	a.log.Info("archived manifest %s", key)
	return nil
}
