// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package warehouse wraps the embedded DuckDB engine behind the handful of
// bulk primitives the ETL needs: declare a JSON source as a view, run SQL,
// and persist query results as (optionally hive-partitioned) parquet.
//
// The transformation logic in internal/etl never touches database/sql
// directly; everything the engine does for us (glob reads, window
// functions, joins, parquet encoding, S3 I/O via httpfs) goes through
// this package. That keeps the transform code declarative and testable
// against an in-memory engine with local fixture directories.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/logging"
)

// defaultOpTimeout bounds a single engine request when the caller's
// context carries no deadline. Bulk reads and partitioned writes over
// object storage routinely run for minutes.
const defaultOpTimeout = 15 * time.Minute

// Column declares one field of an input record: its name in the raw JSON
// and its DuckDB type. Declaring columns up front replaces schema
// inference, so a field that drifts or goes missing yields NULLs instead
// of a silently different schema between runs.
type Column struct {
	Name string
	Type string
}

// DB wraps the DuckDB connection and exposes the engine primitives.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the engine and loads the core extensions (json, icu).
// The httpfs extension is loaded later by EnableRemoteStorage, only when
// an s3:// location is actually configured.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	db.configureConnectionPool()

	if err := db.loadCoreExtensions(); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	return db, nil
}

// configureConnectionPool sets connection pool parameters.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Close closes the engine connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying SQL connection, for tests that need to
// inspect engine state directly.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the engine is reachable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Exec runs a single SQL statement against the engine.
func (db *DB) Exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("engine exec failed: %w", err)
	}
	return nil
}

// QueryRow runs a query expected to return a single row.
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// Query runs a query returning multiple rows.
func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// CreateJSONView declares the records matching glob as the named view,
// parsed with the declared columns. format='auto' accepts both
// one-object-per-line files and array files. Fields absent from a record
// come through as NULL; malformed JSON syntax fails the whole read.
func (db *DB) CreateJSONView(ctx context.Context, name, glob string, columns []Column) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(
		"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_json(%s, format='auto', columns=%s)",
		quoteIdent(name), quoteLiteral(glob), columnsSpec(columns))

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to declare JSON source %s over %s: %w", name, glob, err)
	}
	return nil
}

// MaterializeTable replaces the named table with the result of the query.
// Every output table is materialized before its write so the row count can
// be logged and later steps can join against it.
func (db *DB) MaterializeTable(ctx context.Context, name, selectSQL string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS %s", quoteIdent(name), selectSQL)
	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to materialize table %s: %w", name, err)
	}
	return nil
}

// WriteParquet persists the query result as a single ZSTD parquet object
// at dest, replacing whatever was there.
func (db *DB) WriteParquet(ctx context.Context, selectSQL, dest string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(
		"COPY (%s) TO %s (FORMAT PARQUET, COMPRESSION ZSTD, OVERWRITE_OR_IGNORE true)",
		selectSQL, quoteLiteral(dest))

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to write parquet to %s: %w", dest, err)
	}
	return nil
}

// WritePartitionedParquet persists the query result under dest in hive
// layout (col=value/ subdirectories), one or more ZSTD parquet files per
// partition. Rows with a NULL partition value land in the engine's
// sentinel partition rather than failing the write. Existing files at
// dest are overwritten.
func (db *DB) WritePartitionedParquet(ctx context.Context, selectSQL, dest string, partitionCols []string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	quoted := make([]string, len(partitionCols))
	for i, col := range partitionCols {
		quoted[i] = quoteIdent(col)
	}

	query := fmt.Sprintf(
		"COPY (%s) TO %s (FORMAT PARQUET, COMPRESSION ZSTD, PARTITION_BY (%s), OVERWRITE_OR_IGNORE true)",
		selectSQL, quoteLiteral(dest), strings.Join(quoted, ", "))

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to write partitioned parquet to %s: %w", dest, err)
	}
	return nil
}

// CountRows returns the row count of a table or view.
func (db *DB) CountRows(ctx context.Context, relation string) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(relation))
	if err := db.conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", relation, err)
	}
	return count, nil
}

// SetTimezone sets the engine timezone used by timezone-aware timestamp
// conversions (requires the icu extension). The setting is global, not
// session-scoped: a plain SET would land on whichever pooled connection
// runs it and be invisible to the rest of the pool.
func (db *DB) SetTimezone(ctx context.Context, tz string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf("SET GLOBAL TimeZone = %s", quoteLiteral(tz))
	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to set engine timezone to %s: %w", tz, err)
	}

	logging.Debug().Str("timezone", tz).Msg("Engine timezone configured")
	return nil
}

// ensureContext adds the default operation timeout when the caller's
// context has no deadline of its own.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultOpTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultOpTimeout)
	}
	return ctx, func() {}
}

// columnsSpec renders a []Column as a read_json columns struct literal.
func columnsSpec(columns []Column) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteLiteral(col.Name))
		b.WriteString(": ")
		b.WriteString(quoteLiteral(col.Type))
	}
	b.WriteByte('}')
	return b.String()
}
