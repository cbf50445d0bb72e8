// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

// Package models defines the input record shapes and output table rows of
// the Playmart star schema.
//
// Input records are semi-structured JSON with optional fields; pointer
// fields distinguish "absent" from zero values. The JSON field names match
// the raw files byte-for-byte, so these structs double as fixture
// generators in tests.
package models

// SongRecord is one raw catalog record: descriptive metadata for a single
// song and its artist. Source of truth for the songs and artists tables.
type SongRecord struct {
	NumSongs        int64    `json:"num_songs"`
	ArtistID        string   `json:"artist_id"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int64    `json:"year"`
}

// LogRecord is one raw listening-event record: a single user action with
// timestamp and session context. Only page="NextSong" rows describe song
// plays; other pages (Home, Login, ...) are read but dropped.
type LogRecord struct {
	Artist        *string  `json:"artist"`
	Auth          string   `json:"auth"`
	FirstName     *string  `json:"firstName"`
	Gender        *string  `json:"gender"`
	ItemInSession int64    `json:"itemInSession"`
	LastName      *string  `json:"lastName"`
	Length        *float64 `json:"length"`
	Level         string   `json:"level"`
	Location      string   `json:"location"`
	Method        string   `json:"method"`
	Page          string   `json:"page"`
	Registration  *float64 `json:"registration"`
	SessionID     int64    `json:"sessionId"`
	Song          *string  `json:"song"`
	Status        int64    `json:"status"`
	TS            int64    `json:"ts"`
	UserAgent     string   `json:"userAgent"`
	UserID        string   `json:"userId"`
}

// PageNextSong is the page value marking a song-play event.
// The filter is exact and case-sensitive.
const PageNextSong = "NextSong"
