// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objstore provides a managed client for S3-compatible object storage.

Product images are served from object storage rather than the database, so
the primary store only holds the object key. The client works against AWS S3
and any S3-compatible endpoint (MinIO in development) via BaseEndpoint.
*/
package objstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options carries the connection settings for the object storage client.
type Options struct {
	// Region is the AWS region (use "auto" for S3-compatible stores).
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	// Leave empty for real AWS S3.
	Endpoint string
	// AccessKey and SecretKey are static credentials.
	AccessKey string
	SecretKey string
}

// NewClient builds an S3 client from static credentials.
//
// # Parameters
//   - ctx: Context for configuration loading.
//   - opts: Connection settings (region, optional custom endpoint, credentials).
//   - logger: Structured logger for connection events.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// Path-style addressing is required by most S3-compatible stores.
			o.UsePathStyle = true
		}
	})

	logger.Info("object storage client ready",
		slog.String("region", opts.Region),
		slog.Bool("custom_endpoint", opts.Endpoint != ""),
	)

	return client, nil
}
