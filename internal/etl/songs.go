// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package etl

import (
	"context"
	"fmt"
)

// selectSongs projects and deduplicates the songs dimension from the raw
// catalog records. Rows differing only in a NULL vs non-NULL field stay
// distinct.
const selectSongs = `
	SELECT DISTINCT
		song_id,
		title,
		artist_id,
		year,
		duration
	FROM song_records`

// selectArtists projects and deduplicates the artists dimension, stripping
// the artist_ prefix the raw records carry on every field but the id.
const selectArtists = `
	SELECT DISTINCT
		artist_id,
		artist_name AS name,
		artist_location AS location,
		artist_latitude AS latitude,
		artist_longitude AS longitude
	FROM song_records`

// ProcessSongData reads the raw catalog records and produces the songs and
// artists dimension tables.
//
// The deduplicated songs table stays materialized in the engine after the
// write: the songplays derivation in ProcessLogData joins against it, and
// it must see exactly the rows that were persisted.
func (j *Job) ProcessSongData(ctx context.Context) error {
	glob := j.cfg.Storage.InputLocation() + songDataGlob
	if err := j.db.CreateJSONView(ctx, songRecordsView, glob, songColumns); err != nil {
		return fmt.Errorf("catalog read failed: %w", err)
	}
	j.log.Info().Str("glob", glob).Msg("Catalog records declared")

	if err := j.db.MaterializeTable(ctx, tableSongs, selectSongs); err != nil {
		return fmt.Errorf("songs dedup failed: %w", err)
	}
	if err := j.writePartitioned(ctx, tableSongs, []string{"year", "artist_id"}); err != nil {
		return err
	}

	if err := j.db.MaterializeTable(ctx, tableArtists, selectArtists); err != nil {
		return fmt.Errorf("artists dedup failed: %w", err)
	}
	return j.writeUnpartitioned(ctx, tableArtists)
}
