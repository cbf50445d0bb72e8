// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package storage

import (
	"context"
	"testing"

	"github.com/tomtom215/playmart/internal/config"
)

func TestBucketFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"s3://raw-events/", "raw-events"},
		{"s3://raw-events/sub/dir/", "raw-events"},
		{"s3://lake", "lake"},
		{"/local/path/", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := bucketFromURL(tc.in); got != tc.want {
			t.Errorf("bucketFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBucketNamesDeduplicates(t *testing.T) {
	cfg := &config.StorageConfig{
		InputBucket:  "lake",
		OutputBucket: "lake",
	}

	names := bucketNames(cfg)
	if len(names) != 1 || names[0] != "lake" {
		t.Errorf("Expected single deduplicated bucket, got %v", names)
	}
}

func TestBucketNamesSkipsLocalLocations(t *testing.T) {
	cfg := &config.StorageConfig{
		InputURL:     "/data/in",
		OutputBucket: "lake-out",
	}

	names := bucketNames(cfg)
	if len(names) != 1 || names[0] != "lake-out" {
		t.Errorf("Expected only the s3 bucket, got %v", names)
	}
}

func TestProbeNoopForLocalOnly(t *testing.T) {
	cfg := &config.StorageConfig{
		InputURL:  "/data/in",
		OutputURL: "/data/out",
	}

	// No buckets to probe, so no network and no error.
	if err := Probe(context.Background(), cfg); err != nil {
		t.Errorf("Expected local-only probe to be a no-op, got: %v", err)
	}
}
