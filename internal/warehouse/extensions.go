// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

/*
extensions.go - DuckDB Extension Loading

Required extensions:
  - json: read_json over path globs with declared columns
  - icu:  timezone-aware timestamp conversion for calendar fields

On-demand extension:
  - httpfs: S3 reads/writes; loaded by EnableRemoteStorage only when an
    s3:// location is configured, so local-filesystem runs and tests
    never touch the network.

Each extension follows a fallback pattern: try LOAD first (json and icu
ship statically linked in the bundled engine, and httpfs may be
pre-installed), then INSTALL + LOAD.
*/

//nolint:staticcheck // File documentation, not package doc
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/logging"
)

// extensionTimeout bounds a single INSTALL/LOAD. INSTALL httpfs may hit
// the network; the core extensions load from the bundled library.
const extensionTimeout = 30 * time.Second

// loadCoreExtensions loads the extensions every run needs.
func (db *DB) loadCoreExtensions() error {
	for _, ext := range []string{"json", "icu"} {
		if err := db.loadExtension(ext); err != nil {
			return fmt.Errorf("required extension %s unavailable: %w", ext, err)
		}
	}
	return nil
}

// loadExtension loads one extension, installing it first if needed.
func (db *DB) loadExtension(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), extensionTimeout)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "LOAD "+name); err == nil {
		return nil
	}

	if _, err := db.conn.ExecContext(ctx, "INSTALL "+name); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, "LOAD "+name); err != nil {
		return fmt.Errorf("load after install failed: %w", err)
	}

	logging.Debug().Str("extension", name).Msg("Extension installed and loaded")
	return nil
}

// EnableRemoteStorage loads httpfs and wires the storage credentials into
// the engine so s3:// globs and COPY targets resolve. Called once at
// startup when either configured location is remote. The settings are
// global: connections the pool opens later must see them too.
func (db *DB) EnableRemoteStorage(ctx context.Context, cfg *config.StorageConfig) error {
	if err := db.loadExtension("httpfs"); err != nil {
		return fmt.Errorf("httpfs extension required for s3:// locations: %w", err)
	}

	settings := []struct {
		key   string
		value string
		set   bool
	}{
		{"s3_region", cfg.Region, cfg.Region != ""},
		{"s3_access_key_id", cfg.AccessKeyID, cfg.AccessKeyID != ""},
		{"s3_secret_access_key", cfg.SecretAccessKey, cfg.SecretAccessKey != ""},
		{"s3_endpoint", cfg.Endpoint, cfg.Endpoint != ""},
		{"s3_url_style", cfg.URLStyle, cfg.URLStyle != ""},
	}

	for _, s := range settings {
		if !s.set {
			continue
		}
		if err := db.Exec(ctx, fmt.Sprintf("SET GLOBAL %s = %s", s.key, quoteLiteral(s.value))); err != nil {
			return fmt.Errorf("failed to configure %s: %w", s.key, err)
		}
	}

	if !cfg.UseSSL {
		if err := db.Exec(ctx, "SET GLOBAL s3_use_ssl = false"); err != nil {
			return fmt.Errorf("failed to configure s3_use_ssl: %w", err)
		}
	}

	logging.Info().
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("Remote storage enabled")
	return nil
}
