package migrations

import "embed"

// FS contains embedded SQLite migrations for program storage.
//
//go:embed *.sql
var FS embed.FS
