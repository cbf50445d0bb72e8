// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

/*
schema.go - Input Globs and Declared Record Schemas

The raw files live under two fixed directory trees below the input
location:

	song_data/<A>/<B>/<C>/<file>.json   catalog records
	log_data/<year>/<month>/<file>.json listening events

Schemas are declared, not inferred (a field that goes missing yields
NULLs instead of silently changing the schema between runs). The column
lists mirror the structs in internal/models; both must match the raw
field names byte-for-byte.
*/

//nolint:staticcheck // File documentation, not package doc
package etl

import "github.com/tomtom215/playmart/internal/warehouse"

// Input path globs, relative to the configured input location.
const (
	songDataGlob = "song_data/*/*/*/*.json"
	logDataGlob  = "log_data/*/*/*.json"
)

// Names of the raw-record views declared over the input globs.
const (
	songRecordsView = "song_records"
	logRecordsView  = "log_records"
)

// Output table names; each is materialized in the engine under this name
// and written to "<output location><name>".
const (
	tableSongs     = "songs"
	tableArtists   = "artists"
	tableUsers     = "users"
	tableTimes     = "times"
	tableSongplays = "songplays"
)

// playsTable is the filtered, time-enriched play-event staging table the
// users, times and songplays derivations all read from.
const playsTable = "plays"

// songColumns declares the catalog record schema.
var songColumns = []warehouse.Column{
	{Name: "num_songs", Type: "BIGINT"},
	{Name: "artist_id", Type: "VARCHAR"},
	{Name: "artist_latitude", Type: "DOUBLE"},
	{Name: "artist_longitude", Type: "DOUBLE"},
	{Name: "artist_location", Type: "VARCHAR"},
	{Name: "artist_name", Type: "VARCHAR"},
	{Name: "song_id", Type: "VARCHAR"},
	{Name: "title", Type: "VARCHAR"},
	{Name: "duration", Type: "DOUBLE"},
	{Name: "year", Type: "BIGINT"},
}

// logColumns declares the listening-event record schema.
var logColumns = []warehouse.Column{
	{Name: "artist", Type: "VARCHAR"},
	{Name: "auth", Type: "VARCHAR"},
	{Name: "firstName", Type: "VARCHAR"},
	{Name: "gender", Type: "VARCHAR"},
	{Name: "itemInSession", Type: "BIGINT"},
	{Name: "lastName", Type: "VARCHAR"},
	{Name: "length", Type: "DOUBLE"},
	{Name: "level", Type: "VARCHAR"},
	{Name: "location", Type: "VARCHAR"},
	{Name: "method", Type: "VARCHAR"},
	{Name: "page", Type: "VARCHAR"},
	{Name: "registration", Type: "DOUBLE"},
	{Name: "sessionId", Type: "BIGINT"},
	{Name: "song", Type: "VARCHAR"},
	{Name: "status", Type: "BIGINT"},
	{Name: "ts", Type: "BIGINT"},
	{Name: "userAgent", Type: "VARCHAR"},
	{Name: "userId", Type: "VARCHAR"},
}
