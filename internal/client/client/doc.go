// Package client contains the storage endpoints the visit manager talks to.
//
// # Overview
//
// The package provides:
//  1. A store-agnostic contract for the remote "visits" collection (see the
//     RemoteStore interface): list all rows of a user, upsert one row keyed by
//     (user, location, type) and delete one row.
//  2. A Postgres implementation (see PostgresStore) on pgx through
//     database/sql. Locally generated ids are replaced by server ids on first
//     upsert and the stored id is returned to the caller.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized.
//
// Concurrency & Contexts
//
// PostgresStore is safe for concurrent use. Every call accepts a
// context.Context and is additionally bounded by the store's per-call timeout.
package client
