// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package main is the entry point for the Playmart batch ETL job.
//
// Playmart reads raw song-catalog and listening-event JSON from object
// storage (or a local directory tree), reshapes it into a five-table star
// schema (songs, artists, users, times, songplays) and writes each table
// back as partitioned ZSTD parquet. The heavy lifting is delegated to an
// embedded DuckDB engine; this binary only sequences the declarative
// transformation steps.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Logging: zerolog, JSON by default
//  3. Storage probe: HeadBucket on every configured s3:// bucket
//  4. Engine: DuckDB with json/icu extensions; httpfs for s3:// locations
//  5. Pipeline: catalog transform, then event-log transform
//
// # Configuration
//
// There are no CLI arguments. Typical S3 setup:
//
//	export AWS_ACCESS_KEY_ID=...
//	export AWS_SECRET_ACCESS_KEY=...
//	export INPUT_BUCKET=raw-events
//	export OUTPUT_BUCKET=analytics-lake
//	./playmart
//
// Local development against directory trees:
//
//	export INPUT_URL=./testdata/input
//	export OUTPUT_URL=/tmp/lake
//	./playmart
//
// The reporting timezone for derived calendar fields defaults to UTC and
// is set explicitly via PIPELINE_TIMEZONE (IANA name), never inherited
// from the host.
//
// # Failure Semantics
//
// The first uncaught error terminates the process with exit code 1. There
// is no retry layer and no partial-success mode; every output location is
// overwritten in full, so a failed run is repaired by rerunning. SIGINT
// and SIGTERM cancel the run context and surface as the run error.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/etl"
	"github.com/tomtom215/playmart/internal/logging"
	"github.com/tomtom215/playmart/internal/storage"
	"github.com/tomtom215/playmart/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Job failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fail fast on unreachable buckets before the engine starts reading.
	if err := storage.Probe(ctx, &cfg.Storage); err != nil {
		return err
	}

	db, err := warehouse.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close engine")
		}
	}()

	if cfg.Storage.UsesRemoteStorage() {
		if err := db.EnableRemoteStorage(ctx, &cfg.Storage); err != nil {
			return err
		}
	}

	return etl.NewJob(db, cfg).Run(ctx)
}
