// Package sqlite embeds the goose migrations for the embedded SQLite backend.
// Timestamps are stored as integer unix nanoseconds.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
