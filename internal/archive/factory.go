package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/querybank/querybank/internal/archive/drivers"
	"github.com/querybank/querybank/internal/config"
)

// NewStorageFromConfig creates a storage instance based on the provided configuration
func NewStorageFromConfig(ctx context.Context, cfg config.StorageConfig) (StorageDriver, error) {
	switch cfg.Type {
	case "local":
		slog.Info("Initializing local bundle storage", "dir", cfg.LocalBaseDir)
		return drivers.NewLocalFSDriver(cfg.LocalBaseDir, cfg.LocalPublicURL)
	case "s3":
		endpoint := resolveS3Endpoint(cfg.S3Endpoint, cfg.S3UseSSL)
		slog.Info("Initializing S3 bundle storage", "endpoint", endpoint, "bucket", cfg.S3Bucket)

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.S3Region),
		}

		if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
			creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
			opts = append(opts, awsconfig.WithCredentialsProvider(creds))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
			o.UsePathStyle = true
		})

		return drivers.NewS3Driver(client, cfg.S3Bucket, cfg.S3PublicURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// resolveS3Endpoint prefixes a scheme-less custom endpoint (the usual
// form for MinIO-style deployments) according to the SSL setting.
// Endpoints that already carry a scheme pass through untouched.
func resolveS3Endpoint(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
