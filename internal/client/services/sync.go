package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/syncer"
	"github.com/dmitrijs2005/wanderlog/internal/common"
)

type loadSource string

const (
	sourceRemote loadSource = "remote"
	sourceCache  loadSource = "cache"
)

// SetUser switches identity ("" is anonymous) and loads the collections for
// it. Each distinct identity is loaded at most once in a row: repeated or
// concurrent calls with the current identity return immediately. Writes still
// pending for the previous identity are dispatched first.
func (m *VisitManager) SetUser(ctx context.Context, userID string) {
	m.mu.Lock()
	if m.loadedFor != nil && *m.loadedFor == userID {
		m.mu.Unlock()
		m.log.Debug(ctx, "load skipped, identity already loaded", "user", userID)
		return
	}
	id := userID
	m.loadedFor = &id
	m.user = userID
	m.loadEpoch++
	epoch := m.loadEpoch
	// a superseded load never wrote its mutations, so they carry over
	if m.dirty == nil {
		m.dirty = make(map[string]bool)
		m.cleared = make(map[models.EntryType]bool)
	}
	m.mu.Unlock()

	m.debouncer.FlushAll(ctx)

	cols, source := m.load(ctx, userID)
	seen, err := m.cache.OnboardingSeen(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read onboarding flag", "err", err)
	}

	m.mu.Lock()
	if epoch != m.loadEpoch {
		m.mu.Unlock()
		m.log.Debug(ctx, "discarding superseded load", "user", userID)
		return
	}
	kept := 0
	for t := range m.cleared {
		cols[t] = m.cols[t].Clone()
		kept++
	}
	for key := range m.dirty {
		if m.keepLocal(cols, key) {
			kept++
		}
	}
	m.dirty, m.cleared = nil, nil
	m.cols = cols
	m.loaded = true
	m.onboardingSeen = m.onboardingSeen || seen
	m.visitStats, m.wishStats = nil, nil

	var snaps map[models.EntryType]*models.Collection
	var seqs map[models.EntryType]uint64
	if source == sourceRemote || kept > 0 {
		snaps = make(map[models.EntryType]*models.Collection, len(cols))
		seqs = make(map[models.EntryType]uint64, len(cols))
		for t, c := range cols {
			m.writeSeq[t]++
			snaps[t] = c.Clone()
			seqs[t] = m.writeSeq[t]
		}
	}
	m.mu.Unlock()

	m.log.Info(ctx, "collections loaded", "user", userID, "source", string(source),
		"visited", cols[models.EntryTypeVisited].Len(), "wishlist", cols[models.EntryTypeWishlist].Len())
	if snaps != nil {
		m.persistAll(ctx, snaps, seqs)
	}
}

// keepLocal copies the in-memory state of one stream over the loaded
// collections. Caller holds mu.
func (m *VisitManager) keepLocal(cols map[models.EntryType]*models.Collection, stream string) bool {
	for _, t := range models.EntryTypes {
		loc, ok := strings.CutPrefix(stream, string(t)+":")
		if !ok || loc == "" {
			continue
		}
		if m.cleared[t] {
			return false
		}
		if e, ok := m.cols[t].Get(loc); ok {
			cols[t].Set(e.Clone())
		} else {
			cols[t].Delete(loc)
		}
		return true
	}
	return false
}

func (m *VisitManager) load(ctx context.Context, userID string) (map[models.EntryType]*models.Collection, loadSource) {
	if userID != "" && m.remote != nil {
		cols, err := m.loadRemote(ctx, userID)
		if err == nil {
			return cols, sourceRemote
		}
		m.log.Warn(ctx, "remote load failed, falling back to cache", "user", userID, "err", err)
	}
	return m.loadCache(ctx), sourceCache
}

func (m *VisitManager) loadRemote(ctx context.Context, userID string) (map[models.EntryType]*models.Collection, error) {
	ctx, cancel := m.remoteContext(ctx)
	defer cancel()

	rows, err := m.remote.SelectAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	cols := emptyCollections()
	for _, row := range rows {
		e := models.RowToVisit(row)
		c, ok := cols[e.Type]
		if !ok {
			m.log.Warn(ctx, "skipping remote row with unknown type", "id", row.ID, "type", string(row.Type))
			continue
		}
		c.Set(e)
	}
	return cols, nil
}

func (m *VisitManager) loadCache(ctx context.Context) map[models.EntryType]*models.Collection {
	cols := emptyCollections()
	for _, t := range models.EntryTypes {
		c, err := m.cache.Load(ctx, t, m.now())
		if err != nil {
			if errors.Is(err, common.ErrMalformedCache) {
				m.log.Warn(ctx, "malformed cache, starting empty", "collection", string(t), "err", err)
			} else {
				m.log.Error(ctx, "cache read failed, starting empty", "collection", string(t), "err", err)
			}
			continue
		}
		cols[t] = c
	}
	return cols
}

func (m *VisitManager) persistAll(ctx context.Context, snaps map[models.EntryType]*models.Collection, seqs map[models.EntryType]uint64) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	fresh := make(map[models.EntryType]*models.Collection, len(snaps))
	for t, c := range snaps {
		if seqs[t] > m.persisted[t] {
			fresh[t] = c
		}
	}
	if len(fresh) == 0 {
		return
	}
	if err := m.cache.SaveAll(ctx, fresh); err != nil {
		m.log.Error(ctx, "cache write failed", "err", err)
	}
	for t := range fresh {
		m.persisted[t] = seqs[t]
	}
}

func (m *VisitManager) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.remoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.remoteTimeout)
}

// dispatch sends one debounced op to the remote store and drives the sync
// status. Failures are logged and never retried.
func (m *VisitManager) dispatch(ctx context.Context, op syncer.Op) {
	if m.remote == nil || op.UserID == "" {
		return
	}
	m.status.Begin()

	rctx, cancel := m.remoteContext(ctx)
	defer cancel()

	var err error
	switch op.Kind {
	case syncer.OpUpsert:
		var id string
		id, err = m.remote.Upsert(rctx, models.VisitToRow(op.Entry, op.UserID))
		if err == nil && id != "" && id != op.Entry.ID {
			m.adoptID(ctx, op, id)
		}
	case syncer.OpDelete:
		err = m.remote.Delete(rctx, op.UserID, op.LocationID, op.Type)
	}
	if err != nil {
		m.log.Error(ctx, "remote sync failed", "stream", op.Stream(), "op", op.Kind.String(), "err", err)
		m.status.Fail()
		return
	}
	m.status.Succeed()
}

// adoptID replaces a locally generated id with the one the store assigned,
// provided the entry is still the one that was sent.
func (m *VisitManager) adoptID(ctx context.Context, op syncer.Op, id string) {
	m.mu.Lock()
	if m.user != op.UserID {
		m.mu.Unlock()
		return
	}
	e, ok := m.cols[op.Type].Get(op.LocationID)
	if !ok || e.ID != op.Entry.ID {
		m.mu.Unlock()
		return
	}
	e.ID = id
	snap, seq := m.changed(op.Type)
	m.mu.Unlock()

	m.persist(ctx, op.Type, snap, seq)
}

func emptyCollections() map[models.EntryType]*models.Collection {
	return map[models.EntryType]*models.Collection{
		models.EntryTypeVisited:  models.NewCollection(),
		models.EntryTypeWishlist: models.NewCollection(),
	}
}
