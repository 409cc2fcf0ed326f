package services

import (
	"time"

	"github.com/dmitrijs2005/wanderlog/internal/client/syncer"
)

const (
	DefaultDebounceWindow  = 1500 * time.Millisecond
	DefaultSavedResetDelay = 2000 * time.Millisecond
	DefaultRemoteTimeout   = 10 * time.Second
)

// Option customizes a VisitManager.
type Option func(*VisitManager)

// WithDebounceWindow sets the quiet period per stream before a remote write.
func WithDebounceWindow(d time.Duration) Option {
	return func(m *VisitManager) { m.debounceWindow = d }
}

// WithSavedResetDelay sets how long "saved" is shown before reverting to idle.
func WithSavedResetDelay(d time.Duration) Option {
	return func(m *VisitManager) { m.savedDelay = d }
}

// WithRemoteTimeout bounds each remote call and photo cleanup.
func WithRemoteTimeout(d time.Duration) Option {
	return func(m *VisitManager) { m.remoteTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *VisitManager) { m.now = now }
}

func WithStatusListener(fn func(syncer.Status)) Option {
	return func(m *VisitManager) { m.listener = fn }
}
