// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package etl

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/playmart/internal/config"
	"github.com/tomtom215/playmart/internal/models"
	"github.com/tomtom215/playmart/internal/warehouse"
)

func ptr[T any](v T) *T { return &v }

// testEnv is one in-memory pipeline run over temp fixture directories.
type testEnv struct {
	job    *Job
	inDir  string
	outDir string
}

// setupEnv creates an in-memory engine and a Job reading from and writing
// to fresh temp directories, with calendar fields derived in tz.
func setupEnv(t *testing.T, tz string) *testEnv {
	t.Helper()

	inDir := t.TempDir()
	outDir := t.TempDir()

	cfg := &config.Config{
		Storage: config.StorageConfig{
			InputURL:  inDir,
			OutputURL: outDir,
		},
		Pipeline: config.PipelineConfig{Timezone: tz},
		Database: config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"},
		Logging:  config.LoggingConfig{Level: "info", Format: "json"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Test config invalid: %v", err)
	}

	db, err := warehouse.New(&cfg.Database)
	if err != nil {
		t.Fatalf("Failed to create test engine: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test engine: %v", err)
		}
	})

	return &testEnv{
		job:    NewJob(db, cfg),
		inDir:  inDir,
		outDir: outDir,
	}
}

// writeSongFixtures writes catalog records at the fixed song_data depth.
func (e *testEnv) writeSongFixtures(t *testing.T, records ...models.SongRecord) {
	t.Helper()
	path := filepath.Join(e.inDir, "song_data", "A", "B", "C", "catalog.json")
	writeRecords(t, path, toAny(records))
}

// writeLogFixtures writes event records at the fixed log_data depth.
func (e *testEnv) writeLogFixtures(t *testing.T, records ...models.LogRecord) {
	t.Helper()
	path := filepath.Join(e.inDir, "log_data", "2018", "11", "events.json")
	writeRecords(t, path, toAny(records))
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

// writeRecords writes records as one JSON object per line.
func writeRecords(t *testing.T, path string, records []any) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture file: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("Failed to encode fixture record: %v", err)
		}
	}
}

// testSong returns a catalog record with every field populated; tests
// override what they care about.
func testSong() models.SongRecord {
	return models.SongRecord{
		NumSongs:        1,
		ArtistID:        "ARX1",
		ArtistLatitude:  ptr(40.7),
		ArtistLongitude: ptr(-74.0),
		ArtistLocation:  "New York, NY",
		ArtistName:      "The Fixtures",
		SongID:          "SOX1",
		Title:           "First Light",
		Duration:        215.3,
		Year:            2006,
	}
}

// testPlay returns a NextSong event with every field populated; tests
// override what they care about.
func testPlay() models.LogRecord {
	return models.LogRecord{
		Artist:        ptr("The Fixtures"),
		Auth:          "Logged In",
		FirstName:     ptr("Ada"),
		Gender:        ptr("F"),
		ItemInSession: 0,
		LastName:      ptr("Byron"),
		Length:        ptr(215.3),
		Level:         "free",
		Location:      "New York-Newark-Jersey City, NY-NJ-PA",
		Method:        "PUT",
		Page:          models.PageNextSong,
		Registration:  ptr(1.540344794796e12),
		SessionID:     100,
		Song:          ptr("First Light"),
		Status:        200,
		TS:            1542241826796, // 2018-11-15 00:30:26 UTC
		UserAgent:     "Mozilla/5.0",
		UserID:        "26",
	}
}
