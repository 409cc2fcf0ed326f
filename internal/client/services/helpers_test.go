package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wanderlog/internal/client/catalog"
	"github.com/dmitrijs2005/wanderlog/internal/client/client"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/visits"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

// ---- helpers ----

func intPtr(v int) *int { return &v }

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func openCacheDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	db     *sql.DB
	cache  *visits.CacheRepository
	remote *fakeRemote
	photos *fakePhotos
	m      *VisitManager
}

func newFixture(t *testing.T, withRemote bool, opts ...Option) *fixture {
	t.Helper()
	db := openCacheDB(t)
	return newFixtureOnDB(t, db, withRemote, opts...)
}

func newFixtureOnDB(t *testing.T, db *sql.DB, withRemote bool, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		db:     db,
		cache:  visits.NewCacheRepository(db, logging.NewNopLogger()),
		photos: &fakePhotos{},
	}
	deps := Deps{
		Cache:   f.cache,
		Photos:  f.photos,
		Catalog: catalog.Default(),
		Logger:  logging.NewNopLogger(),
	}
	if withRemote {
		f.remote = newFakeRemote()
		deps.Remote = f.remote
	}
	base := []Option{
		WithDebounceWindow(time.Hour),
		WithSavedResetDelay(time.Hour),
		WithClock(func() time.Time { return testNow }),
	}
	f.m = NewVisitManager(deps, append(base, opts...)...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.m.Close(ctx)
	})
	return f
}

func (f *fixture) close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.m.Close(ctx))
}

// ---- fake remote ----

type fakeRemote struct {
	mu          sync.Mutex
	rows        map[string]*models.VisitRow
	upserts     []*models.VisitRow
	deletes     []string
	selectCalls int
	selectErr   error
	writeErr    error
	assignIDs   bool
	// when set, SelectAll blocks until it is closed
	gate chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]*models.VisitRow)}
}

var _ client.RemoteStore = (*fakeRemote)(nil)

func rowKey(userID, locationID string, t models.EntryType) string {
	return userID + "|" + string(t) + "|" + locationID
}

func (r *fakeRemote) put(row *models.VisitRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rowKey(row.UserID, row.LocationID, row.Type)] = row
}

func (r *fakeRemote) SelectAll(ctx context.Context, userID string) ([]*models.VisitRow, error) {
	r.mu.Lock()
	r.selectCalls++
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	var out []*models.VisitRow
	for k, row := range r.rows {
		if strings.HasPrefix(k, userID+"|") {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *fakeRemote) Upsert(_ context.Context, row *models.VisitRow) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts = append(r.upserts, row)
	if r.writeErr != nil {
		return "", r.writeErr
	}
	id := row.ID
	if r.assignIDs && strings.HasPrefix(id, "local-") {
		id = "srv-" + row.LocationID
	}
	cp := *row
	cp.ID = id
	r.rows[rowKey(row.UserID, row.LocationID, row.Type)] = &cp
	return id, nil
}

func (r *fakeRemote) Delete(_ context.Context, userID, locationID string, t models.EntryType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, rowKey(userID, locationID, t))
	if r.writeErr != nil {
		return r.writeErr
	}
	delete(r.rows, rowKey(userID, locationID, t))
	return nil
}

func (r *fakeRemote) Close() error { return nil }

func (r *fakeRemote) counts() (selects, upserts, deletes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectCalls, len(r.upserts), len(r.deletes)
}

func (r *fakeRemote) lastUpsert() *models.VisitRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.upserts) == 0 {
		return nil
	}
	return r.upserts[len(r.upserts)-1]
}

// ---- fake photos ----

type fakePhotos struct {
	mu    sync.Mutex
	calls []string
}

func (p *fakePhotos) DeleteAllForLocation(_ context.Context, userID, locationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, userID+"/"+locationID)
	return nil
}

func (p *fakePhotos) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}
