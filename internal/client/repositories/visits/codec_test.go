package visits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/common"
)

var loadTime = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func TestDecode_Empty(t *testing.T) {
	for _, in := range [][]byte{nil, []byte(""), []byte("  \n")} {
		c, skipped, err := Decode(in, models.EntryTypeVisited, loadTime)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, skipped)
	}
}

func TestDecode_LegacyArray(t *testing.T) {
	c, skipped, err := Decode([]byte(`["FR","US-CA","FR",42]`), models.EntryTypeVisited, loadTime)
	require.NoError(t, err)

	assert.Equal(t, []string{"FR", "US-CA"}, c.Keys())
	assert.Equal(t, []string{"3"}, skipped)

	fr, ok := c.Get("FR")
	require.True(t, ok)
	assert.Equal(t, "local-FR", fr.ID)
	assert.Equal(t, models.LocalUserID, fr.UserID)
	assert.Equal(t, models.EntryTypeVisited, fr.Type)
	assert.Equal(t, loadTime, fr.CreatedAt)
	assert.Equal(t, loadTime, fr.UpdatedAt)
	assert.Empty(t, fr.Photos)
	assert.Nil(t, fr.Rating)
}

func TestDecode_ObjectKeepsOrderAndSkipsBadEntries(t *testing.T) {
	raw := `{
		"JP": {"id":"a","userId":"u1","locationId":"JP","rating":5,"visitDates":[],"placesVisited":[],"photos":[],"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"},
		"XX": "not an entry",
		"FR": {"id":"b","userId":"u1","locationId":"FR","rating":"five"},
		"BR": {"id":"c","createdAt":"2023-05-05T10:00:00Z","updatedAt":"2023-05-05T10:00:00Z"}
	}`
	c, skipped, err := Decode([]byte(raw), models.EntryTypeWishlist, loadTime)
	require.NoError(t, err)

	assert.Equal(t, []string{"JP", "BR"}, c.Keys())
	assert.ElementsMatch(t, []string{"XX", "FR"}, skipped)

	jp, _ := c.Get("JP")
	require.NotNil(t, jp.Rating)
	assert.Equal(t, 5, *jp.Rating)
	assert.Equal(t, models.EntryTypeWishlist, jp.Type)

	br, _ := c.Get("BR")
	assert.Equal(t, "BR", br.LocationID)
	assert.Equal(t, models.LocalUserID, br.UserID)
	assert.NotNil(t, br.VisitDates)
	assert.Equal(t, time.Date(2023, 5, 5, 10, 0, 0, 0, time.UTC), br.CreatedAt.UTC())
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{`{broken`, `"just a string"`, `17`, `null`, `true`} {
		_, _, err := Decode([]byte(in), models.EntryTypeVisited, loadTime)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, common.ErrMalformedCache, in)
	}
}

func TestEncodeDecode_PreservesOrderAndFields(t *testing.T) {
	c := models.NewCollection()
	for _, id := range []string{"ZW", "AD", "US-CA"} {
		e := models.NewVisitEntry("local-"+id, "u1", id, models.EntryTypeVisited, loadTime)
		c.Set(e)
	}
	r := 3
	ad, _ := c.Get("AD")
	ad.Rating = &r
	ad.PlacesVisited = []models.SubPlace{{Name: "Andorra la Vella", Category: models.PlaceCity}}

	data, err := Encode(c)
	require.NoError(t, err)

	back, skipped, err := Decode(data, models.EntryTypeVisited, time.Now())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, c.Keys(), back.Keys())

	got, _ := back.Get("AD")
	require.NotNil(t, got.Rating)
	assert.Equal(t, 3, *got.Rating)
	assert.Equal(t, ad.PlacesVisited, got.PlacesVisited)
	assert.True(t, loadTime.Equal(got.CreatedAt))
}

func TestEncode_Nil(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestDecode_DropsOutOfRangeRatings(t *testing.T) {
	raw := `{"FR":{"rating":9},"DE":{"rating":0},"IT":{"rating":-2},"JP":{"rating":5}}`
	c, skipped, err := Decode([]byte(raw), models.EntryTypeVisited, loadTime)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Equal(t, []string{"FR", "DE", "IT", "JP"}, c.Keys())

	for _, id := range []string{"FR", "DE", "IT"} {
		e, _ := c.Get(id)
		assert.Nil(t, e.Rating, id)
	}
	jp, _ := c.Get("JP")
	require.NotNil(t, jp.Rating)
	assert.Equal(t, 5, *jp.Rating)
}
