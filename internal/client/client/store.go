package client

import (
	"context"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
)

// RemoteStore is the authenticated remote collection of visit rows.
type RemoteStore interface {
	SelectAll(ctx context.Context, userID string) ([]*models.VisitRow, error)
	// Upsert writes row and returns the id stored remotely.
	Upsert(ctx context.Context, row *models.VisitRow) (string, error)
	Delete(ctx context.Context, userID, locationID string, t models.EntryType) error
	Close() error
}
