package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestParseEntryType(t *testing.T) {
	got, err := ParseEntryType("wishlist")
	require.NoError(t, err)
	assert.Equal(t, EntryTypeWishlist, got)

	_, err = ParseEntryType("bucket")
	require.Error(t, err)
}

func TestLocalID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "local-1700000000123", LocalID(now))
}

func TestNewVisitEntry_Minimal(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewVisitEntry("local-1", LocalUserID, "FR", EntryTypeVisited, now)

	assert.Nil(t, e.Rating)
	assert.Nil(t, e.Notes)
	assert.Empty(t, e.VisitDates)
	assert.NotNil(t, e.VisitDates)
	assert.NotNil(t, e.PlacesVisited)
	assert.NotNil(t, e.Photos)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, now, e.UpdatedAt)
}

func TestVisitEntry_CloneIsDeep(t *testing.T) {
	e := NewVisitEntry("1", "u", "FR", EntryTypeVisited, time.Now())
	e.Rating = intPtr(4)
	e.Notes = strPtr("nice")
	e.Photos = []string{"a.jpg"}

	c := e.Clone()
	*c.Rating = 1
	*c.Notes = "changed"
	c.Photos[0] = "b.jpg"

	assert.Equal(t, 4, *e.Rating)
	assert.Equal(t, "nice", *e.Notes)
	assert.Equal(t, "a.jpg", e.Photos[0])
	assert.Nil(t, (*VisitEntry)(nil).Clone())
}

func TestVisitEntry_JSONKeys(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	e := NewVisitEntry("1", "u", "FR", EntryTypeVisited, now)
	e.PlacesVisited = []SubPlace{{Name: "Paris", Category: PlaceCity}}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"id", "userId", "locationId", "type", "visitDates", "placesVisited", "photos", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, k)
	}
	assert.NotContains(t, raw, "rating")
	assert.NotContains(t, raw, "notes")
	place := raw["placesVisited"].([]any)[0].(map[string]any)
	assert.Equal(t, "city", place["type"])

	var back VisitEntry
	require.NoError(t, json.Unmarshal(b, &back))
	if diff := cmp.Diff(e, &back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
