package syncer

import "github.com/dmitrijs2005/wanderlog/internal/client/models"

type OpKind int

const (
	OpUpsert OpKind = iota
	OpDelete
)

func (k OpKind) String() string {
	if k == OpDelete {
		return "delete"
	}
	return "upsert"
}

// Op is one remote write. Entry is set for upserts only.
type Op struct {
	Kind       OpKind
	UserID     string
	Type       models.EntryType
	LocationID string
	Entry      *models.VisitEntry
}

// Stream identifies the coalescing slot the op belongs to.
func (o Op) Stream() string {
	return StreamKey(o.Type, o.LocationID)
}

func StreamKey(t models.EntryType, locationID string) string {
	return string(t) + ":" + locationID
}
