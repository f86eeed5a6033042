// Package migrations embeds the SQL schema for the identity store.
package migrations

import "embed"

// FS holds the golang-migrate source files (NNNN_name.up.sql / .down.sql).
//
//go:embed *.sql
var FS embed.FS
