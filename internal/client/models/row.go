package models

import "time"

// VisitRow is the remote "visits" table shape. Nullable columns are pointers
// or nil slices.
type VisitRow struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	LocationID    string      `json:"location_id"`
	Type          EntryType   `json:"type"`
	Rating        *int        `json:"rating"`
	Notes         *string     `json:"notes"`
	VisitDates    []VisitDate `json:"visit_dates"`
	PlacesVisited []SubPlace  `json:"places_visited"`
	Photos        []string    `json:"photos"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// RowToVisit converts a remote row into an entry. Missing type defaults to
// visited; null arrays become empty.
func RowToVisit(row *VisitRow) *VisitEntry {
	t := row.Type
	if t == "" {
		t = EntryTypeVisited
	}
	e := &VisitEntry{
		ID:            row.ID,
		UserID:        row.UserID,
		LocationID:    row.LocationID,
		Type:          t,
		Rating:        row.Rating,
		Notes:         row.Notes,
		VisitDates:    row.VisitDates,
		PlacesVisited: row.PlacesVisited,
		Photos:        row.Photos,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	e.Normalize()
	return e.Clone()
}

// VisitToRow converts an entry into the remote row owned by userID.
func VisitToRow(e *VisitEntry, userID string) *VisitRow {
	c := e.Clone()
	t := c.Type
	if t == "" {
		t = EntryTypeVisited
	}
	return &VisitRow{
		ID:            c.ID,
		UserID:        userID,
		LocationID:    c.LocationID,
		Type:          t,
		Rating:        c.Rating,
		Notes:         c.Notes,
		VisitDates:    c.VisitDates,
		PlacesVisited: c.PlacesVisited,
		Photos:        c.Photos,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
