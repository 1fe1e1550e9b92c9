// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

// FS holds the NNN_name.up.sql files. Files apply in name order and the
// Nth file sets the database user_version to N.
//
//go:embed *.sql
var FS embed.FS
