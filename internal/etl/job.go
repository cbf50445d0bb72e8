// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package etl holds the transformation logic: a linear sequence of
// declarative select/filter/dedupe/window/join steps the engine evaluates
// in bulk. There is no retry layer and no partial-success mode; the first
// error aborts the run, and a rerun rebuilds every table from scratch
// (each write overwrites its destination).
package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/logging"
	"github.com/tomtom215/playmart/internal/warehouse"
)

// Job runs the full pipeline: catalog transform, then event-log transform.
type Job struct {
	db  *warehouse.DB
	cfg *config.Config
	log zerolog.Logger
}

// NewJob creates a pipeline run over the given engine and configuration.
func NewJob(db *warehouse.DB, cfg *config.Config) *Job {
	return &Job{
		db:  db,
		cfg: cfg,
		log: logging.WithRun(logging.NewRunID()),
	}
}

// Run executes the pipeline. The catalog transform goes first: it leaves
// the deduplicated songs table materialized in the engine, which the
// event-log transform joins against.
func (j *Job) Run(ctx context.Context) error {
	started := time.Now()
	j.log.Info().
		Str("input", j.cfg.Storage.InputLocation()).
		Str("output", j.cfg.Storage.OutputLocation()).
		Str("timezone", j.cfg.Pipeline.Timezone).
		Msg("Pipeline started")

	if err := j.db.SetTimezone(ctx, j.cfg.Pipeline.Timezone); err != nil {
		return err
	}

	if err := j.ProcessSongData(ctx); err != nil {
		return fmt.Errorf("catalog transform: %w", err)
	}
	if err := j.ProcessLogData(ctx); err != nil {
		return fmt.Errorf("event-log transform: %w", err)
	}

	j.log.Info().Dur("elapsed", time.Since(started)).Msg("Pipeline finished")
	return nil
}

// writePartitioned persists a materialized table under the output location
// in hive layout and logs the row count.
func (j *Job) writePartitioned(ctx context.Context, table string, partitionCols []string) error {
	return j.writeTable(ctx, table, partitionCols)
}

// writeUnpartitioned persists a materialized table as a single parquet
// object under the output location and logs the row count.
func (j *Job) writeUnpartitioned(ctx context.Context, table string) error {
	return j.writeTable(ctx, table, nil)
}

func (j *Job) writeTable(ctx context.Context, table string, partitionCols []string) error {
	started := time.Now()
	dest := j.cfg.Storage.OutputLocation() + table
	selectSQL := "SELECT * FROM " + table

	var err error
	if len(partitionCols) > 0 {
		err = j.db.WritePartitionedParquet(ctx, selectSQL, dest, partitionCols)
	} else {
		err = j.db.WriteParquet(ctx, selectSQL, dest)
	}
	if err != nil {
		return fmt.Errorf("write of %s failed: %w", table, err)
	}

	rows, err := j.db.CountRows(ctx, table)
	if err != nil {
		return fmt.Errorf("row count of %s failed: %w", table, err)
	}

	j.log.Info().
		Str("table", table).
		Str("dest", dest).
		Int64("rows", rows).
		Strs("partition_by", partitionCols).
		Dur("elapsed", time.Since(started)).
		Msg("Table written")
	return nil
}
