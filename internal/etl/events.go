// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package etl

import (
	"context"
	"fmt"
)

// selectPlays filters the raw events to song plays and derives start_time:
// the epoch-millisecond timestamp truncated to seconds and rendered as a
// wall-clock timestamp in the configured timezone (icu does the conversion
// on the TIMESTAMPTZ -> TIMESTAMP cast). The page match is exact and
// case-sensitive; everything else is read and dropped.
const selectPlays = `
	SELECT
		ts,
		userId AS user_id,
		firstName AS first_name,
		lastName AS last_name,
		gender,
		level,
		sessionId AS session_id,
		itemInSession AS item_in_session,
		location,
		userAgent AS user_agent,
		song,
		length,
		to_timestamp(ts // 1000)::TIMESTAMP AS start_time
	FROM log_records
	WHERE page = 'NextSong'`

// selectUsers keeps each user's most recent profile. The window ranks a
// user's plays newest-first; session_id and item_in_session break exact
// timestamp ties so reruns pick the same row.
const selectUsers = `
	WITH ranked AS (
		SELECT
			ROW_NUMBER() OVER (
				PARTITION BY user_id
				ORDER BY ts DESC, session_id DESC, item_in_session DESC
			) AS recency_rank,
			user_id,
			first_name,
			last_name,
			gender,
			level
		FROM plays
	)
	SELECT DISTINCT
		user_id,
		first_name,
		last_name,
		gender,
		level
	FROM ranked
	WHERE recency_rank = 1`

// selectTimes decorates each distinct start_time with its calendar fields.
// weekofyear is the ISO week number; dayofweek uses the engine's
// 0=Sunday..6=Saturday numbering.
const selectTimes = `
	SELECT DISTINCT
		start_time,
		hour(start_time) AS hour,
		day(start_time) AS day,
		weekofyear(start_time) AS week,
		month(start_time) AS month,
		year(start_time) AS year,
		dayofweek(start_time) AS weekday
	FROM plays`

// selectSongplays resolves each play against the songs dimension on exact
// (title, duration) equality; unmatched plays keep NULL song_id/artist_id.
// songplay_id ranks plays newest-first with session_id/item_in_session as
// tie-breaks, so an unchanged input assigns identical ids on rerun.
const selectSongplays = `
	SELECT
		ROW_NUMBER() OVER (
			ORDER BY p.start_time DESC, p.session_id, p.item_in_session
		) AS songplay_id,
		p.start_time,
		p.user_id,
		p.level,
		s.song_id,
		s.artist_id,
		p.session_id,
		p.location,
		p.user_agent,
		year(p.start_time) AS year,
		month(p.start_time) AS month
	FROM plays p
	LEFT JOIN songs s
		ON p.song = s.title
		AND p.length = s.duration`

// ProcessLogData reads the raw event records and produces the users and
// times dimensions and the songplays fact table. ProcessSongData must
// have run first: songplays joins against the materialized songs table.
func (j *Job) ProcessLogData(ctx context.Context) error {
	glob := j.cfg.Storage.InputLocation() + logDataGlob
	if err := j.db.CreateJSONView(ctx, logRecordsView, glob, logColumns); err != nil {
		return fmt.Errorf("event-log read failed: %w", err)
	}
	j.log.Info().Str("glob", glob).Msg("Event records declared")

	// Stage the filtered plays once; users, times and songplays all
	// derive from it without re-reading the raw files.
	if err := j.db.MaterializeTable(ctx, playsTable, selectPlays); err != nil {
		return fmt.Errorf("play-event filter failed: %w", err)
	}

	if err := j.db.MaterializeTable(ctx, tableUsers, selectUsers); err != nil {
		return fmt.Errorf("users derivation failed: %w", err)
	}
	if err := j.writeUnpartitioned(ctx, tableUsers); err != nil {
		return err
	}

	if err := j.db.MaterializeTable(ctx, tableTimes, selectTimes); err != nil {
		return fmt.Errorf("times derivation failed: %w", err)
	}
	if err := j.writePartitioned(ctx, tableTimes, []string{"year", "month"}); err != nil {
		return err
	}

	if err := j.db.MaterializeTable(ctx, tableSongplays, selectSongplays); err != nil {
		return fmt.Errorf("songplays derivation failed: %w", err)
	}
	return j.writePartitioned(ctx, tableSongplays, []string{"year", "month"})
}
