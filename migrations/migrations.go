// Package migrations embeds the SQL schema files for each supported driver.
package migrations

import "embed"

// Bundled at compile time so the binary carries its own schema.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
