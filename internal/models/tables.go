// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package models

import "time"

// Song is one row of the songs dimension table.
// Unique on (SongID, Title, ArtistID, Year, Duration) after dedup.
type Song struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int64
	Duration float64
}

// Artist is one row of the artists dimension table, keyed by ArtistID.
// Latitude/Longitude are nil when the catalog record carried no
// coordinates; such rows are still distinct from rows that do.
type Artist struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// User is one row of the users dimension table: the most recent known
// profile per user id, exactly one row per user.
type User struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// TimeSlot is one row of the times dimension table: a distinct event
// start time decorated with derived calendar fields in the configured
// reporting timezone.
type TimeSlot struct {
	StartTime time.Time
	Hour      int64 // 0-23
	Day       int64 // 1-31
	Week      int64 // ISO week number
	Month     int64 // 1-12
	Year      int64
	Weekday   int64 // 0=Sunday .. 6=Saturday
}

// Songplay is one row of the fact table: a single play event resolved
// against the songs dimension. SongID and ArtistID are nil when no
// catalog row matched on (title, duration).
type Songplay struct {
	SongplayID int64
	StartTime  time.Time
	UserID     string
	Level      string
	SongID     *string
	ArtistID   *string
	SessionID  int64
	Location   string
	UserAgent  string
	Year       int64
	Month      int64
}
