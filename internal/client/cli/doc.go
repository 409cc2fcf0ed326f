// Package cli provides the interactive wanderlog command-line client.
//
// It wires configuration, the local cache, the optional remote store and
// photo storage into a VisitManager and serves a REPL over it. The session
// token from the previous run is restored on start, and pending remote writes
// are flushed on exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
