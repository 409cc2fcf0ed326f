// Package migrations embeds the goose schema migrations for the local cache
// (SQLite) and the remote visits store (Postgres).
package migrations

import "embed"

// Local holds migrations for the on-device cache, under the "sqlite" dir.
//
//go:embed sqlite/*.sql
var Local embed.FS

// Remote holds migrations for the remote store, under the "postgres" dir.
//
//go:embed postgres/*.sql
var Remote embed.FS

const (
	LocalDir  = "sqlite"
	RemoteDir = "postgres"
)
