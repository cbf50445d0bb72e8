// Playmart - Streaming Event Lakehouse ETL
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmart

package warehouse

import (
	"io"
	"strings"
)

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup in error paths where Close() errors are not
// actionable. Satisfies errcheck by acknowledging the ignored error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // cleanup is best-effort
	}
}

// quoteIdent quotes a SQL identifier. Table and column names in this
// codebase are compile-time constants; quoting keeps reserved words and
// odd characters from ever becoming a problem.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a SQL string literal. Paths and globs come from
// configuration, so they go through literal quoting rather than string
// concatenation into the statement text.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
