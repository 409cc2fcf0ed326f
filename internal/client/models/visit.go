// Package models defines the visit/wishlist data model shared by the cache,
// the remote store client and the state manager.
package models

import (
	"fmt"
	"time"
)

// EntryType separates the visited and wishlist collections. The same location
// may have one entry of each type; they are never merged.
type EntryType string

const (
	EntryTypeVisited  EntryType = "visited"
	EntryTypeWishlist EntryType = "wishlist"
)

// EntryTypes lists every collection in a fixed order.
var EntryTypes = []EntryType{EntryTypeVisited, EntryTypeWishlist}

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryTypeVisited || t == EntryTypeWishlist
}

// ParseEntryType converts a raw string into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown entry type %q", s)
	}
	return t, nil
}

// LocalUserID owns entries created while nobody is signed in.
const LocalUserID = "local"

// PlaceCategory classifies a sub-place inside a visited location.
type PlaceCategory string

const (
	PlaceCity     PlaceCategory = "city"
	PlaceLandmark PlaceCategory = "landmark"
	PlaceRegion   PlaceCategory = "region"
	PlaceOther    PlaceCategory = "other"
)

// VisitDate is one stay. EndDate is empty for single-day visits.
type VisitDate struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SubPlace is a city, landmark or region seen during a visit.
type SubPlace struct {
	Name     string        `json:"name" validate:"required"`
	Category PlaceCategory `json:"type" validate:"oneof=city landmark region other"`
}

// VisitEntry is a user's relationship (visited or wishlisted) to one location.
// The JSON shape is the one persisted in the local cache.
type VisitEntry struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	LocationID    string      `json:"locationId"`
	Type          EntryType   `json:"type"`
	Rating        *int        `json:"rating,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	VisitDates    []VisitDate `json:"visitDates"`
	PlacesVisited []SubPlace  `json:"placesVisited"`
	Photos        []string    `json:"photos"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// LocalID returns a time-based id for an entry not yet confirmed by the
// remote store.
func LocalID(now time.Time) string {
	return fmt.Sprintf("local-%d", now.UnixMilli())
}

// NewVisitEntry builds a minimal entry (no rating, notes, dates or photos)
// with CreatedAt = UpdatedAt = now.
func NewVisitEntry(id, userID, locationID string, t EntryType, now time.Time) *VisitEntry {
	return &VisitEntry{
		ID:            id,
		UserID:        userID,
		LocationID:    locationID,
		Type:          t,
		VisitDates:    []VisitDate{},
		PlacesVisited: []SubPlace{},
		Photos:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Normalize replaces nil slices with empty ones.
func (e *VisitEntry) Normalize() {
	if e.VisitDates == nil {
		e.VisitDates = []VisitDate{}
	}
	if e.PlacesVisited == nil {
		e.PlacesVisited = []SubPlace{}
	}
	if e.Photos == nil {
		e.Photos = []string{}
	}
}

// Clone returns a deep copy of e.
func (e *VisitEntry) Clone() *VisitEntry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Rating != nil {
		r := *e.Rating
		c.Rating = &r
	}
	if e.Notes != nil {
		n := *e.Notes
		c.Notes = &n
	}
	c.VisitDates = append([]VisitDate{}, e.VisitDates...)
	c.PlacesVisited = append([]SubPlace{}, e.PlacesVisited...)
	c.Photos = append([]string{}, e.Photos...)
	return &c
}
