// Package syncer coalesces remote writes and tracks their progress.
//
// A Debouncer keeps one pending operation per stream ("<type>:<locationID>").
// Scheduling a new operation on a stream replaces the pending one and re-arms
// the stream's timer; when the timer fires only the latest operation is
// dispatched. FlushAll dispatches everything still pending, which is what
// shutdown uses so that no user intent is lost.
//
// A StatusTracker exposes the observable sync state:
//
//	idle -> saving -> saved -> (after a delay) idle
//	           \-> error
package syncer
