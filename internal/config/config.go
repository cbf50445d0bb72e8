// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package config holds all job configuration loaded from config files and
// environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Storage: object-storage credentials and the input/output locations
//     the engine reads from and writes to. Locations may be S3 buckets or
//     local directory trees (useful for development and tests).
//
//  2. Pipeline: transformation parameters, currently the reporting
//     timezone used when deriving calendar fields from event timestamps.
//
//  3. Database: DuckDB tuning (path, memory limit, thread count).
//
//  4. Logging: log level and output format.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
package config

// Config holds all application configuration.
type Config struct {
	Storage  StorageConfig  `koanf:"storage"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// StorageConfig describes the object-storage locations and credentials.
//
// The input and output locations are resolved from either an explicit URL
// (input_url/output_url, which may be a local directory for development)
// or a bucket name (input_bucket/output_bucket, resolved to s3://<bucket>/).
// Credentials are required whenever a resolved location is an s3:// URL.
type StorageConfig struct {
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`  // Optional, for MinIO/LocalStack
	UseSSL          bool   `koanf:"use_ssl"`   // Disable for plain-HTTP endpoints
	URLStyle        string `koanf:"url_style"` // "path" for MinIO, empty for vhost
	InputBucket     string `koanf:"input_bucket"`
	OutputBucket    string `koanf:"output_bucket"`
	InputURL        string `koanf:"input_url"`  // Overrides input_bucket
	OutputURL       string `koanf:"output_url"` // Overrides output_bucket
}

// PipelineConfig holds transformation parameters.
type PipelineConfig struct {
	// Timezone is the IANA timezone name used to derive calendar fields
	// (hour, day, week, month, year, weekday) from event timestamps.
	// Epoch timestamps are unambiguous; this only affects the reporting
	// wall-clock fields. Default: UTC.
	Timezone string `koanf:"timezone"`
}

// DatabaseConfig holds DuckDB engine tuning.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // ":memory:" for a scratch engine
	MaxMemory string `koanf:"max_memory"` // e.g. "2GB"
	Threads   int    `koanf:"threads"`    // 0 = runtime.NumCPU()
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// InputLocation resolves the root URL all input globs are built under.
// Always returns a path with a trailing slash.
func (s *StorageConfig) InputLocation() string {
	return resolveLocation(s.InputURL, s.InputBucket)
}

// OutputLocation resolves the root URL all output tables are written under.
// Always returns a path with a trailing slash.
func (s *StorageConfig) OutputLocation() string {
	return resolveLocation(s.OutputURL, s.OutputBucket)
}

// UsesRemoteStorage reports whether either resolved location is an s3:// URL,
// in which case the engine needs the httpfs extension and credentials.
func (s *StorageConfig) UsesRemoteStorage() bool {
	return isS3URL(s.InputLocation()) || isS3URL(s.OutputLocation())
}

func resolveLocation(url, bucket string) string {
	loc := url
	if loc == "" && bucket != "" {
		loc = "s3://" + bucket
	}
	if loc != "" && loc[len(loc)-1] != '/' {
		loc += "/"
	}
	return loc
}

func isS3URL(loc string) bool {
	return len(loc) >= 5 && loc[:5] == "s3://"
}
