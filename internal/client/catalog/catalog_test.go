package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Totals(t *testing.T) {
	c := Default()
	assert.Same(t, c, Default())

	assert.Equal(t, 197, c.TotalCountries())
	assert.Equal(t, 46, c.TotalTerritories())
	assert.Equal(t, 51, c.TotalSubdivisions())
	require.NoError(t, c.Validate())
}

func TestDefault_CountriesPerContinent(t *testing.T) {
	c := Default()
	want := map[Continent]int{
		Africa:       54,
		Antarctica:   0,
		Asia:         48,
		Europe:       46,
		NorthAmerica: 23,
		Oceania:      14,
		SouthAmerica: 12,
	}
	sum := 0
	for _, cont := range c.Continents() {
		assert.Len(t, c.CountriesIn(cont), want[cont], cont)
		sum += len(c.CountriesIn(cont))
	}
	assert.Equal(t, c.TotalCountries(), sum)
}

func TestContinents_FixedOrder(t *testing.T) {
	assert.Equal(t, []Continent{Africa, Antarctica, Asia, Europe, NorthAmerica, Oceania, SouthAmerica}, Default().Continents())
}

func TestResolve(t *testing.T) {
	c := Default()

	fr, ok := c.ResolveByID("FR")
	require.True(t, ok)
	assert.Equal(t, "France", fr.Name)
	assert.Equal(t, Europe, fr.Continent)

	ca, ok := c.ResolveByName("california")
	require.True(t, ok)
	assert.Equal(t, "US-CA", ca.ID)
	assert.Equal(t, KindSubdivision, ca.Kind)
	assert.Equal(t, "US", ca.ParentID)

	ge, ok := c.ResolveByName("Georgia")
	require.True(t, ok)
	assert.Equal(t, "GE", ge.ID)

	_, ok = c.ResolveByID("XX")
	assert.False(t, ok)

	l, ok := c.Resolve("us-ca")
	require.True(t, ok)
	assert.Equal(t, "US-CA", l.ID)
	l, ok = c.Resolve(" Japan ")
	require.True(t, ok)
	assert.Equal(t, "JP", l.ID)
}

func TestChildrenAndCountryOf(t *testing.T) {
	c := Default()
	assert.True(t, c.HasChildren("US"))
	assert.False(t, c.HasChildren("JP"))

	states := 0
	for _, ch := range c.ChildrenOf("US") {
		if ch.Kind == KindSubdivision {
			states++
		}
	}
	assert.Equal(t, 51, states)

	id, ok := c.CountryOf("US-CA")
	require.True(t, ok)
	assert.Equal(t, "US", id)

	id, ok = c.CountryOf("PF")
	require.True(t, ok)
	assert.Equal(t, "FR", id)

	id, ok = c.CountryOf("FR")
	require.True(t, ok)
	assert.Equal(t, "FR", id)

	_, ok = c.CountryOf("AQ")
	assert.False(t, ok)
}

func TestNew_NamePrecedenceAndValidate(t *testing.T) {
	c := New([]Location{
		{ID: "X-1", Name: "Twin", Kind: KindSubdivision, Continent: Europe, ParentID: "X"},
		{ID: "X", Name: "Twin", Kind: KindCountry, Continent: Europe},
		{ID: "T", Name: "Orphan", Kind: KindTerritory, Continent: Asia, ParentID: "NOPE"},
	})
	l, ok := c.ResolveByName("TWIN")
	require.True(t, ok)
	assert.Equal(t, "X", l.ID)

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "T->NOPE")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"not":"an array"}`))
	require.Error(t, err)
}
