// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid.
// Called by Load(); a validation failure is a fatal startup error.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validatePipeline(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateStorage checks locations and, for s3:// locations, credentials.
func (c *Config) validateStorage() error {
	in := c.Storage.InputLocation()
	out := c.Storage.OutputLocation()

	if in == "" {
		return fmt.Errorf("an input location is required: set INPUT_BUCKET or INPUT_URL")
	}
	if out == "" {
		return fmt.Errorf("an output location is required: set OUTPUT_BUCKET or OUTPUT_URL")
	}

	if c.Storage.UsesRemoteStorage() {
		if c.Storage.AccessKeyID == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID is required when an s3:// location is configured")
		}
		if c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("AWS_SECRET_ACCESS_KEY is required when an s3:// location is configured")
		}
		if c.Storage.Region == "" {
			return fmt.Errorf("AWS_REGION must not be empty when an s3:// location is configured")
		}
	}

	if s := c.Storage.URLStyle; s != "" && s != "path" && s != "vhost" {
		return fmt.Errorf("S3_URL_STYLE must be \"path\" or \"vhost\", got %q", s)
	}

	return nil
}

// validatePipeline checks that the reporting timezone is a loadable IANA name.
func (c *Config) validatePipeline() error {
	if c.Pipeline.Timezone == "" {
		return fmt.Errorf("PIPELINE_TIMEZONE must not be empty")
	}
	if _, err := time.LoadLocation(c.Pipeline.Timezone); err != nil {
		return fmt.Errorf("PIPELINE_TIMEZONE %q is not a valid IANA timezone: %w", c.Pipeline.Timezone, err)
	}
	return nil
}

// validateDatabase checks DuckDB tuning values.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty (use \":memory:\" for a scratch engine)")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	if c.Database.MaxMemory == "" {
		return fmt.Errorf("DUCKDB_MAX_MEMORY must not be empty")
	}
	return nil
}

// validateLogging checks log level and format values.
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, disabled; got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.Logging.Format)
	}

	return nil
}
