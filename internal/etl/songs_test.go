// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package etl

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/playmart/internal/models"
)

func TestProcessSongDataDeduplicatesSongs(t *testing.T) {
	env := setupEnv(t, "UTC")

	dup := testSong()
	other := testSong()
	other.SongID = "SOX2"
	other.Title = "Second Light"
	env.writeSongFixtures(t, dup, dup, dup, other)

	ctx := context.Background()
	if err := env.job.ProcessSongData(ctx); err != nil {
		t.Fatalf("ProcessSongData failed: %v", err)
	}

	count, err := env.job.db.CountRows(ctx, tableSongs)
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 distinct songs, got %d", count)
	}

	// No two rows share the full (song_id, title, artist_id, year, duration).
	var dups int64
	row := env.job.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT song_id, title, artist_id, year, duration, COUNT(*) AS n
			FROM songs
			GROUP BY ALL
			HAVING n > 1
		)`)
	if err := row.Scan(&dups); err != nil {
		t.Fatalf("Dup check failed: %v", err)
	}
	if dups != 0 {
		t.Errorf("Expected no duplicate song rows, found %d", dups)
	}

	var s models.Song
	row = env.job.db.QueryRow(ctx,
		"SELECT song_id, title, artist_id, year, duration FROM songs WHERE song_id = 'SOX1'")
	if err := row.Scan(&s.SongID, &s.Title, &s.ArtistID, &s.Year, &s.Duration); err != nil {
		t.Fatalf("Failed to scan song row: %v", err)
	}
	if s.Title != "First Light" || s.ArtistID != "ARX1" || s.Year != 2006 || s.Duration != 215.3 {
		t.Errorf("Unexpected song row: %+v", s)
	}
}

func TestProcessSongDataNullFieldsStayDistinct(t *testing.T) {
	env := setupEnv(t, "UTC")

	withCoords := testSong()
	withoutCoords := testSong()
	withoutCoords.ArtistLatitude = nil
	withoutCoords.ArtistLongitude = nil
	env.writeSongFixtures(t, withCoords, withoutCoords)

	ctx := context.Background()
	if err := env.job.ProcessSongData(ctx); err != nil {
		t.Fatalf("ProcessSongData failed: %v", err)
	}

	// Same artist id, but NULL vs non-NULL coordinates are not duplicates.
	count, err := env.job.db.CountRows(ctx, tableArtists)
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 artist rows (NULL coords are distinct), got %d", count)
	}
}

func TestProcessSongDataArtistRenames(t *testing.T) {
	env := setupEnv(t, "UTC")
	env.writeSongFixtures(t, testSong())

	ctx := context.Background()
	if err := env.job.ProcessSongData(ctx); err != nil {
		t.Fatalf("ProcessSongData failed: %v", err)
	}

	var a models.Artist
	var lat, lon sql.NullFloat64
	row := env.job.db.QueryRow(ctx,
		"SELECT artist_id, name, location, latitude, longitude FROM artists")
	if err := row.Scan(&a.ArtistID, &a.Name, &a.Location, &lat, &lon); err != nil {
		t.Fatalf("Failed to scan artist row: %v", err)
	}

	if a.ArtistID != "ARX1" || a.Name != "The Fixtures" || a.Location != "New York, NY" {
		t.Errorf("Unexpected artist row: %+v", a)
	}
	if !lat.Valid || lat.Float64 != 40.7 || !lon.Valid || lon.Float64 != -74.0 {
		t.Errorf("Unexpected coordinates: %v, %v", lat, lon)
	}
}

func TestProcessSongDataPartitionLayout(t *testing.T) {
	env := setupEnv(t, "UTC")
	env.writeSongFixtures(t, testSong())

	if err := env.job.ProcessSongData(context.Background()); err != nil {
		t.Fatalf("ProcessSongData failed: %v", err)
	}

	// songs is hive-partitioned by (year, artist_id); artists is a single object.
	if _, err := os.Stat(filepath.Join(env.outDir, "songs", "year=2006", "artist_id=ARX1")); err != nil {
		t.Errorf("Expected songs hive partition, got: %v", err)
	}
	info, err := os.Stat(filepath.Join(env.outDir, "artists"))
	if err != nil {
		t.Fatalf("Expected artists output object: %v", err)
	}
	if info.IsDir() {
		t.Error("Expected artists to be a single parquet object, not a directory")
	}
}

func TestProcessSongDataMissingYearGoesToSentinelPartition(t *testing.T) {
	env := setupEnv(t, "UTC")

	rec := map[string]any{
		// year and duration absent -> NULL
		"song_id":   "SONULL",
		"title":     "No Year",
		"artist_id": "ARX9",
	}
	path := filepath.Join(env.inDir, "song_data", "A", "B", "C", "partial.json")
	writeRecords(t, path, []any{rec})

	if err := env.job.ProcessSongData(context.Background()); err != nil {
		t.Fatalf("ProcessSongData with NULL partition key failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(env.outDir, "songs"))
	if err != nil {
		t.Fatalf("Failed to list songs output: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("Expected a sentinel partition directory for the NULL year")
	}
}
