package syncer

import (
	"sync"
	"time"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// StatusTracker is the sync status state machine. The listener, if any, is
// called after every transition, outside the tracker's lock.
type StatusTracker struct {
	resetDelay time.Duration
	listener   func(Status)

	mu     sync.Mutex
	status Status
	gen    uint64
	timer  *time.Timer

	notifyMu sync.Mutex
}

func NewStatusTracker(resetDelay time.Duration, listener func(Status)) *StatusTracker {
	return &StatusTracker{resetDelay: resetDelay, listener: listener, status: StatusIdle}
}

func (t *StatusTracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Begin marks a save as started.
func (t *StatusTracker) Begin() {
	t.mu.Lock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.status = StatusSaving
	t.mu.Unlock()
	t.notify(StatusSaving)
}

// Succeed marks the current save as done and schedules the return to idle.
// The revert is skipped if another save begins in the meantime.
func (t *StatusTracker) Succeed() {
	t.mu.Lock()
	gen := t.gen
	t.status = StatusSaved
	t.timer = time.AfterFunc(t.resetDelay, func() { t.revert(gen) })
	t.mu.Unlock()
	t.notify(StatusSaved)
}

// Fail marks the current save as failed. Error is sticky until the next save.
func (t *StatusTracker) Fail() {
	t.mu.Lock()
	t.status = StatusError
	t.mu.Unlock()
	t.notify(StatusError)
}

func (t *StatusTracker) revert(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.status != StatusSaved {
		t.mu.Unlock()
		return
	}
	t.status = StatusIdle
	t.timer = nil
	t.mu.Unlock()
	t.notify(StatusIdle)
}

// Stop cancels a pending revert.
func (t *StatusTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *StatusTracker) notify(s Status) {
	if t.listener == nil {
		return
	}
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()
	t.listener(s)
}
