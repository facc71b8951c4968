// Package migrations embeds the goose SQL migrations of the service schema.
package migrations

import "embed"

// FS holds every migration file at its root, so pass "." as the directory to
// pg.Migrate.
//
//go:embed *.sql
var FS embed.FS
