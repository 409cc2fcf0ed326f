// Package kv provides the on-device key-value store that backs the local
// durable cache.
//
// Values are opaque byte slices keyed by string. The SQLite implementation
// works over a dbx.DBTX, so the same repository can run against a *sql.DB or
// inside a transaction started with dbx.WithTx.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "visits-cache", payload)
//	v, _ := repo.Get(ctx, "visits-cache") // nil, nil when missing
package kv
