// Package migrations embeds the numbered schema migrations of each database
// dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
