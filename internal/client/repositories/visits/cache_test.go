package visits

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wanderlog/internal/client/migrations"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wanderlog/internal/common"
	"github.com/dmitrijs2005/wanderlog/internal/logging"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Local)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.LocalDir))
	return db
}

func newRepo(t *testing.T) (*CacheRepository, *sql.DB) {
	t.Helper()
	db := openDB(t, filepath.Join(t.TempDir(), "cache.db"))
	return NewCacheRepository(db, logging.NewNopLogger()), db
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	repo, _ := newRepo(t)

	c, err := repo.Load(context.Background(), models.EntryTypeVisited, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestSaveLoad_SeparateCollections(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	visited := models.NewCollection()
	visited.Set(models.NewVisitEntry("v1", "u", "FR", models.EntryTypeVisited, now))
	wish := models.NewCollection()
	wish.Set(models.NewVisitEntry("w1", "u", "FR", models.EntryTypeWishlist, now))
	wish.Set(models.NewVisitEntry("w2", "u", "JP", models.EntryTypeWishlist, now))

	require.NoError(t, repo.Save(ctx, models.EntryTypeVisited, visited))
	require.NoError(t, repo.Save(ctx, models.EntryTypeWishlist, wish))

	gotV, err := repo.Load(ctx, models.EntryTypeVisited, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"FR"}, gotV.Keys())
	fr, _ := gotV.Get("FR")
	assert.Equal(t, "v1", fr.ID)

	gotW, err := repo.Load(ctx, models.EntryTypeWishlist, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"FR", "JP"}, gotW.Keys())
}

func TestSaveAll_AndClear(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	v := models.NewCollection()
	v.Set(models.NewVisitEntry("1", "u", "IT", models.EntryTypeVisited, now))
	w := models.NewCollection()
	w.Set(models.NewVisitEntry("2", "u", "PE", models.EntryTypeWishlist, now))

	require.NoError(t, repo.SaveAll(ctx, map[models.EntryType]*models.Collection{
		models.EntryTypeVisited:  v,
		models.EntryTypeWishlist: w,
	}))

	require.NoError(t, repo.Clear(ctx, models.EntryTypeVisited))

	gotV, err := repo.Load(ctx, models.EntryTypeVisited, now)
	require.NoError(t, err)
	assert.Equal(t, 0, gotV.Len())
	gotW, err := repo.Load(ctx, models.EntryTypeWishlist, now)
	require.NoError(t, err)
	assert.True(t, gotW.Has("PE"))
}

func TestLoad_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	now := time.Now()

	db1 := openDB(t, path)
	c := models.NewCollection()
	c.Set(models.NewVisitEntry("1", "u", "NZ", models.EntryTypeVisited, now))
	require.NoError(t, NewCacheRepository(db1, logging.NewNopLogger()).Save(ctx, models.EntryTypeVisited, c))
	require.NoError(t, db1.Close())

	db2 := openDB(t, path)
	got, err := NewCacheRepository(db2, logging.NewNopLogger()).Load(ctx, models.EntryTypeVisited, now)
	require.NoError(t, err)
	assert.True(t, got.Has("NZ"))
}

func TestLoad_LegacyAndMalformedPayloads(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()
	raw := kv.NewSQLiteRepository(db)

	require.NoError(t, raw.Set(ctx, common.VisitedCacheKey, []byte(`["FR","DE"]`)))
	c, err := repo.Load(ctx, models.EntryTypeVisited, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"FR", "DE"}, c.Keys())

	require.NoError(t, raw.Set(ctx, common.WishlistCacheKey, []byte(`{oops`)))
	_, err = repo.Load(ctx, models.EntryTypeWishlist, time.Now())
	require.ErrorIs(t, err, common.ErrMalformedCache)
}

func TestOnboardingFlag(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	seen, err := repo.OnboardingSeen(ctx)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, repo.MarkOnboardingSeen(ctx))
	seen, err = repo.OnboardingSeen(ctx)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "visits-cache", CacheKey(models.EntryTypeVisited))
	assert.Equal(t, "wishlist-cache", CacheKey(models.EntryTypeWishlist))
}
