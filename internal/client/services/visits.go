package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/wanderlog/internal/client/client"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/photos"
	"github.com/dmitrijs2005/wanderlog/internal/client/stats"
	"github.com/dmitrijs2005/wanderlog/internal/client/syncer"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

// VisitCache is the durable local copy of both collections.
type VisitCache interface {
	Load(ctx context.Context, t models.EntryType, now time.Time) (*models.Collection, error)
	Save(ctx context.Context, t models.EntryType, c *models.Collection) error
	SaveAll(ctx context.Context, cols map[models.EntryType]*models.Collection) error
	Clear(ctx context.Context, t models.EntryType) error
	OnboardingSeen(ctx context.Context) (bool, error)
	MarkOnboardingSeen(ctx context.Context) error
}

// Catalog is the location lookup the manager needs for cascades, derived
// country sets and stats.
type Catalog interface {
	stats.Catalog
	CountryOf(id string) (string, bool)
}

// Deps are the collaborators of a VisitManager. Remote and Photos may be nil.
type Deps struct {
	Cache   VisitCache
	Remote  client.RemoteStore
	Photos  photos.Store
	Catalog Catalog
	Logger  logging.Logger
}

// VisitManager is the local-first owner of the visited and wishlist
// collections. It is safe for concurrent use.
type VisitManager struct {
	cache   VisitCache
	remote  client.RemoteStore
	photos  photos.Store
	catalog Catalog
	log     logging.Logger

	now            func() time.Time
	debounceWindow time.Duration
	savedDelay     time.Duration
	remoteTimeout  time.Duration
	listener       func(syncer.Status)

	debouncer *syncer.Debouncer
	status    *syncer.StatusTracker
	bg        sync.WaitGroup

	mu        sync.Mutex
	cols      map[models.EntryType]*models.Collection
	user      string
	loadedFor *string
	loadEpoch uint64
	loaded    bool
	// streams touched while a load is in flight; nil when no load runs
	dirty          map[string]bool
	// collections cleared while a load is in flight
	cleared        map[models.EntryType]bool
	visitStats     *stats.VisitStats
	wishStats      *stats.WishlistStats
	onboardingSeen bool
	writeSeq       map[models.EntryType]uint64

	cacheMu   sync.Mutex
	persisted map[models.EntryType]uint64
}

// NewVisitManager builds a manager over deps. Nothing is loaded until the
// first SetUser call; until then both collections are empty.
func NewVisitManager(deps Deps, opts ...Option) *VisitManager {
	m := &VisitManager{
		cache:          deps.Cache,
		remote:         deps.Remote,
		photos:         deps.Photos,
		catalog:        deps.Catalog,
		log:            deps.Logger,
		now:            time.Now,
		debounceWindow: DefaultDebounceWindow,
		savedDelay:     DefaultSavedResetDelay,
		remoteTimeout:  DefaultRemoteTimeout,
		cols: map[models.EntryType]*models.Collection{
			models.EntryTypeVisited:  models.NewCollection(),
			models.EntryTypeWishlist: models.NewCollection(),
		},
		writeSeq:  make(map[models.EntryType]uint64),
		persisted: make(map[models.EntryType]uint64),
	}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = logging.NewNopLogger()
	}
	m.status = syncer.NewStatusTracker(m.savedDelay, m.listener)
	m.debouncer = syncer.NewDebouncer(m.debounceWindow, m.dispatch)
	return m
}

// IsVisited reports whether locationID is in the visited collection.
func (m *VisitManager) IsVisited(locationID string) bool {
	return m.has(models.EntryTypeVisited, locationID)
}

// IsWishlisted reports whether locationID is in the wishlist.
func (m *VisitManager) IsWishlisted(locationID string) bool {
	return m.has(models.EntryTypeWishlist, locationID)
}

func (m *VisitManager) has(t models.EntryType, locationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols[t].Has(locationID)
}

// GetEntry returns a copy of the entry.
func (m *VisitManager) GetEntry(locationID string, t models.EntryType) (*models.VisitEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.cols[t].Get(locationID)
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Entries returns copies of all entries of type t in collection order.
func (m *VisitManager) Entries(t models.EntryType) []*models.VisitEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols[t].Clone().Values()
}

// VisitedCountries is the sorted set of countries marked on the map: visited
// countries plus the parents of visited territories and subdivisions.
func (m *VisitManager) VisitedCountries() []string {
	return m.countries(models.EntryTypeVisited)
}

// WishlistedCountries is the wishlist counterpart of VisitedCountries.
func (m *VisitManager) WishlistedCountries() []string {
	return m.countries(models.EntryTypeWishlist)
}

func (m *VisitManager) countries(t models.EntryType) []string {
	m.mu.Lock()
	keys := m.cols[t].Keys()
	m.mu.Unlock()

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if c, ok := m.catalog.CountryOf(k); ok {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// User returns the current identity, "" when anonymous.
func (m *VisitManager) User() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsLoaded reports whether an initial load has completed.
func (m *VisitManager) IsLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// SyncStatus returns the state of remote writes.
func (m *VisitManager) SyncStatus() syncer.Status {
	return m.status.Status()
}

// Stats returns the visited rollup, recomputed only after the visited
// collection changed.
func (m *VisitManager) Stats() stats.VisitStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.visitStats == nil {
		s := stats.Compute(m.cols[models.EntryTypeVisited].Values(), m.catalog)
		m.visitStats = &s
	}
	return *m.visitStats
}

// WishlistStats returns the wishlist rollup, cached like Stats.
func (m *VisitManager) WishlistStats() stats.WishlistStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wishStats == nil {
		s := stats.ComputeWishlist(m.cols[models.EntryTypeWishlist].Values(), m.catalog)
		m.wishStats = &s
	}
	return *m.wishStats
}

// ShowOnboarding is true once loaded until the user dismisses it.
func (m *VisitManager) ShowOnboarding() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded && !m.onboardingSeen
}

// DismissOnboarding hides the onboarding hint for good.
func (m *VisitManager) DismissOnboarding(ctx context.Context) {
	m.mu.Lock()
	m.onboardingSeen = true
	m.mu.Unlock()
	if err := m.cache.MarkOnboardingSeen(ctx); err != nil {
		m.log.Error(ctx, "failed to persist onboarding flag", "err", err)
	}
}

// Close dispatches every pending remote write and waits for background photo
// cleanup, bounded by ctx.
func (m *VisitManager) Close(ctx context.Context) error {
	m.debouncer.Close(ctx)
	m.status.Stop()

	done := make(chan struct{})
	go func() {
		m.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("close: background work still running"), ctx.Err())
	}
}

// owner returns the id new entries are attributed to. Caller holds mu.
func (m *VisitManager) owner() string {
	if m.user == "" {
		return models.LocalUserID
	}
	return m.user
}

// changed records a mutation of t. Caller holds mu. While a load is in
// flight snap is nil: memory does not yet hold the cached entries, so the
// merged state is written when the load completes.
func (m *VisitManager) changed(t models.EntryType, locationIDs ...string) (snap *models.Collection, seq uint64) {
	if t == models.EntryTypeVisited {
		m.visitStats = nil
	} else {
		m.wishStats = nil
	}
	if m.dirty != nil {
		for _, id := range locationIDs {
			m.dirty[syncer.StreamKey(t, id)] = true
		}
	}
	m.writeSeq[t]++
	if m.loading() {
		return nil, m.writeSeq[t]
	}
	return m.cols[t].Clone(), m.writeSeq[t]
}

// Caller holds mu.
func (m *VisitManager) loading() bool {
	return m.dirty != nil
}
