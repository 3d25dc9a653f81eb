// Package migrations embeds the schema migrations for every supported store.
package migrations

import "embed"

// Postgres holds the migrations applied to PostgreSQL, under the "postgres" directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations applied to the embedded SQLite store, under the "sqlite" directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
