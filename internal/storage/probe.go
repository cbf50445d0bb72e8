// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package storage verifies object-storage reachability before the engine
// starts issuing bulk reads. The engine's own S3 errors surface deep
// inside a failed read_json or COPY; a HeadBucket up front turns a typo'd
// bucket name or bad credential into a clear fatal startup error instead.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/logging"
)

// Probe checks that every s3:// location in cfg resolves to a reachable
// bucket with the configured credentials. Locations on the local
// filesystem are skipped. Any failure is fatal for the run.
func Probe(ctx context.Context, cfg *config.StorageConfig) error {
	buckets := bucketNames(cfg)
	if len(buckets) == 0 {
		return nil
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	for _, bucket := range buckets {
		if err := headBucket(ctx, client, bucket); err != nil {
			return fmt.Errorf("bucket %s is not reachable: %w", bucket, err)
		}
		logging.Debug().Str("bucket", bucket).Msg("Bucket reachable")
	}

	return nil
}

// newClient builds an S3 client from the storage configuration.
func newClient(cfg *config.StorageConfig) (*s3.S3, error) {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))

	if cfg.Endpoint != "" {
		scheme := "https://"
		if !cfg.UseSSL {
			scheme = "http://"
		}
		awsCfg = awsCfg.WithEndpoint(scheme + cfg.Endpoint)
	}
	if cfg.URLStyle == "path" {
		awsCfg = awsCfg.WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return s3.New(sess), nil
}

// headBucket issues the reachability check for one bucket.
func headBucket(ctx context.Context, client *s3.S3, bucket string) error {
	_, err := client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	return err
}

// bucketNames extracts the distinct bucket names from the s3:// locations
// in the configuration. Local locations contribute nothing.
func bucketNames(cfg *config.StorageConfig) []string {
	var names []string
	seen := make(map[string]bool)

	for _, loc := range []string{cfg.InputLocation(), cfg.OutputLocation()} {
		bucket := bucketFromURL(loc)
		if bucket != "" && !seen[bucket] {
			seen[bucket] = true
			names = append(names, bucket)
		}
	}

	return names
}

// bucketFromURL returns the bucket component of an s3:// URL, or empty
// for any other location.
func bucketFromURL(loc string) string {
	const prefix = "s3://"
	if !strings.HasPrefix(loc, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(loc, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
