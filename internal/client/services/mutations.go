package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/wanderlog/internal/client/catalog"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/syncer"
)

// Toggle flips membership of locationID in collection t and returns the new
// membership. Turning on a subdivision in the visited collection also adds
// its parent country when missing; turning it off leaves the parent alone.
func (m *VisitManager) Toggle(ctx context.Context, locationID string, t models.EntryType) bool {
	now := m.now()

	m.mu.Lock()
	col := m.cols[t]
	var (
		ops     []syncer.Op
		touched = []string{locationID}
		member  bool
	)
	if col.Has(locationID) {
		col.Delete(locationID)
		ops = append(ops, m.deleteOp(t, locationID))
	} else {
		e := models.NewVisitEntry(models.LocalID(now), m.owner(), locationID, t, now)
		col.Set(e)
		ops = append(ops, m.upsertOp(e))
		member = true

		if parent := m.cascadeParent(locationID, t); parent != "" && !col.Has(parent) {
			p := models.NewVisitEntry(models.LocalID(now)+"-parent", m.owner(), parent, t, now)
			col.Set(p)
			ops = append(ops, m.upsertOp(p))
			touched = append(touched, parent)
		}
	}
	snap, seq := m.changed(t, touched...)
	user := m.user
	m.mu.Unlock()

	m.persist(ctx, t, snap, seq)
	m.schedule(user, ops)
	return member
}

// Update merges in over the existing entry, creating it when absent, and
// refreshes UpdatedAt. Only invalid input is reported as an error.
func (m *VisitManager) Update(ctx context.Context, locationID string, t models.EntryType, in models.VisitInput) (*models.VisitEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := m.now()

	m.mu.Lock()
	col := m.cols[t]
	var e *models.VisitEntry
	if existing, ok := col.Get(locationID); ok {
		e = existing.Clone()
	} else {
		e = models.NewVisitEntry(models.LocalID(now), m.owner(), locationID, t, now)
	}
	in.ApplyTo(e)
	e.UserID = m.owner()
	e.Type = t
	e.UpdatedAt = now
	e.Normalize()
	col.Set(e)
	ops := []syncer.Op{m.upsertOp(e)}
	snap, seq := m.changed(t, locationID)
	user := m.user
	out := e.Clone()
	m.mu.Unlock()

	m.persist(ctx, t, snap, seq)
	m.schedule(user, ops)
	return out, nil
}

// Delete removes the entry. When a user is signed in and the entry carried
// photos, their removal is requested in the background.
func (m *VisitManager) Delete(ctx context.Context, locationID string, t models.EntryType) bool {
	m.mu.Lock()
	col := m.cols[t]
	e, existed := col.Get(locationID)
	var photoCount int
	if existed {
		photoCount = len(e.Photos)
		col.Delete(locationID)
	}
	ops := []syncer.Op{m.deleteOp(t, locationID)}
	snap, seq := m.changed(t, locationID)
	user := m.user
	m.mu.Unlock()

	if user != "" && photoCount > 0 && m.photos != nil {
		m.deletePhotos(ctx, user, locationID)
	}
	m.persist(ctx, t, snap, seq)
	m.schedule(user, ops)
	return existed
}

// ClearAll empties collection t locally. Remote rows are kept.
func (m *VisitManager) ClearAll(ctx context.Context, t models.EntryType) {
	m.mu.Lock()
	keys := m.cols[t].Keys()
	m.cols[t] = models.NewCollection()
	snap, seq := m.changed(t, keys...)
	if m.loading() {
		m.cleared[t] = true
	}
	user := m.user
	m.mu.Unlock()

	if user != "" {
		m.log.Warn(ctx, "collection cleared locally only; remote rows are retained",
			"collection", string(t), "user", user, "entries", len(keys))
	}
	if snap == nil {
		return
	}

	m.cacheMu.Lock()
	if seq > m.persisted[t] {
		if err := m.cache.Clear(ctx, t); err != nil {
			m.log.Error(ctx, "cache clear failed", "collection", string(t), "err", err)
		}
		m.persisted[t] = seq
	}
	m.cacheMu.Unlock()
}

func (m *VisitManager) cascadeParent(locationID string, t models.EntryType) string {
	if t != models.EntryTypeVisited {
		return ""
	}
	loc, ok := m.catalog.ResolveByID(locationID)
	if !ok || loc.Kind != catalog.KindSubdivision {
		return ""
	}
	return loc.ParentID
}

// Caller holds mu.
func (m *VisitManager) upsertOp(e *models.VisitEntry) syncer.Op {
	return syncer.Op{Kind: syncer.OpUpsert, UserID: m.user, Type: e.Type, LocationID: e.LocationID, Entry: e.Clone()}
}

// Caller holds mu.
func (m *VisitManager) deleteOp(t models.EntryType, locationID string) syncer.Op {
	return syncer.Op{Kind: syncer.OpDelete, UserID: m.user, Type: t, LocationID: locationID}
}

func (m *VisitManager) schedule(user string, ops []syncer.Op) {
	if user == "" || m.remote == nil {
		return
	}
	for _, op := range ops {
		m.log.Debug(context.Background(), "remote write scheduled", "stream", op.Stream(), "op", op.Kind.String())
		m.debouncer.Schedule(op)
	}
}

// persist writes snap unless a newer snapshot of t was already written. A nil
// snap means the write is left to the running load.
func (m *VisitManager) persist(ctx context.Context, t models.EntryType, snap *models.Collection, seq uint64) {
	if snap == nil {
		return
	}
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if seq <= m.persisted[t] {
		return
	}
	if err := m.cache.Save(ctx, t, snap); err != nil {
		m.log.Error(ctx, "cache write failed", "collection", string(t), "err", err)
	}
	m.persisted[t] = seq
}

func (m *VisitManager) deletePhotos(ctx context.Context, userID, locationID string) {
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.photoTimeout())
		defer cancel()
		if err := m.photos.DeleteAllForLocation(ctx, userID, locationID); err != nil {
			m.log.Error(ctx, "failed to delete photos", "user", userID, "location", locationID, "err", err)
		}
	}()
}

func (m *VisitManager) photoTimeout() time.Duration {
	if m.remoteTimeout > 0 {
		return m.remoteTimeout
	}
	return DefaultRemoteTimeout
}
