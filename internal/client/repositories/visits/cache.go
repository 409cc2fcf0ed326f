package visits

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wanderlog/internal/common"
	"github.com/dmitrijs2005/wanderlog/internal/dbx"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

// CacheRepository reads and writes whole collections through a kv store.
type CacheRepository struct {
	db  *sql.DB
	kv  kv.Repository
	log logging.Logger
}

func NewCacheRepository(db *sql.DB, log logging.Logger) *CacheRepository {
	return &CacheRepository{db: db, kv: kv.NewSQLiteRepository(db), log: log}
}

// CacheKey maps a collection type to its cache key.
func CacheKey(t models.EntryType) string {
	if t == models.EntryTypeWishlist {
		return common.WishlistCacheKey
	}
	return common.VisitedCacheKey
}

// Load returns the cached collection of type t. A missing key yields an empty
// collection. now stamps entries upgraded from the legacy format.
func (r *CacheRepository) Load(ctx context.Context, t models.EntryType, now time.Time) (*models.Collection, error) {
	raw, err := r.kv.Get(ctx, CacheKey(t))
	if err != nil {
		return nil, err
	}
	c, skipped, err := Decode(raw, t, now)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t, err)
	}
	if len(skipped) > 0 {
		r.log.Warn(ctx, "skipped malformed cache entries", "collection", string(t), "keys", skipped)
	}
	return c, nil
}

func (r *CacheRepository) Save(ctx context.Context, t models.EntryType, c *models.Collection) error {
	return save(ctx, r.kv, t, c)
}

// SaveAll writes every given collection in one transaction.
func (r *CacheRepository) SaveAll(ctx context.Context, cols map[models.EntryType]*models.Collection) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		for _, t := range models.EntryTypes {
			c, ok := cols[t]
			if !ok {
				continue
			}
			if err := save(ctx, repo, t, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes the cached collection of type t.
func (r *CacheRepository) Clear(ctx context.Context, t models.EntryType) error {
	return r.kv.Delete(ctx, CacheKey(t))
}

func (r *CacheRepository) OnboardingSeen(ctx context.Context) (bool, error) {
	v, err := r.kv.Get(ctx, common.OnboardingCacheKey)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (r *CacheRepository) MarkOnboardingSeen(ctx context.Context) error {
	return r.kv.Set(ctx, common.OnboardingCacheKey, []byte("true"))
}

func save(ctx context.Context, repo kv.Repository, t models.EntryType, c *models.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t, err)
	}
	return repo.Set(ctx, CacheKey(t), data)
}
