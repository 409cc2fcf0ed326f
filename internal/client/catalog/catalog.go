// Package catalog provides the static set of locations (countries, territories
// and U.S. subdivisions) that visits refer to.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Kind is the granularity of a location.
type Kind string

const (
	KindCountry     Kind = "country"
	KindTerritory   Kind = "territory"
	KindSubdivision Kind = "subdivision"
)

// Continent names one of the seven fixed continents.
type Continent string

const (
	Africa       Continent = "Africa"
	Antarctica   Continent = "Antarctica"
	Asia         Continent = "Asia"
	Europe       Continent = "Europe"
	NorthAmerica Continent = "North America"
	Oceania      Continent = "Oceania"
	SouthAmerica Continent = "South America"
)

var continents = []Continent{Africa, Antarctica, Asia, Europe, NorthAmerica, Oceania, SouthAmerica}

// Location is a single catalog row. ParentID is set for territories and
// subdivisions that belong to a country.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Continent Continent `json:"continent"`
	ParentID  string    `json:"parentId,omitempty"`
}

// Catalog is an immutable, indexed view over a list of locations.
type Catalog struct {
	locations []Location
	byID      map[string]int
	byName    map[string]int
	children  map[string][]int
	counts    map[Kind]int
}

//go:embed locations.json
var embedded []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the shared catalog built from the embedded dataset. The
// dataset is parsed once; every caller gets the same instance.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embedded)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// Parse builds a catalog from a JSON array of locations.
func Parse(data []byte) (*Catalog, error) {
	var locs []Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return New(locs), nil
}

// New indexes locs. On duplicate names a country shadows any other kind,
// otherwise the first occurrence wins.
func New(locs []Location) *Catalog {
	c := &Catalog{
		locations: append([]Location(nil), locs...),
		byID:      make(map[string]int, len(locs)),
		byName:    make(map[string]int, len(locs)),
		children:  make(map[string][]int),
		counts:    make(map[Kind]int),
	}
	for i, l := range c.locations {
		c.byID[l.ID] = i
		c.counts[l.Kind]++
		key := strings.ToLower(l.Name)
		if prev, ok := c.byName[key]; !ok || (l.Kind == KindCountry && c.locations[prev].Kind != KindCountry) {
			c.byName[key] = i
		}
		if l.ParentID != "" {
			c.children[l.ParentID] = append(c.children[l.ParentID], i)
		}
	}
	return c
}

func (c *Catalog) ResolveByID(id string) (Location, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Location{}, false
	}
	return c.locations[i], true
}

// ResolveByName matches names case-insensitively.
func (c *Catalog) ResolveByName(name string) (Location, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Location{}, false
	}
	return c.locations[i], true
}

// Resolve accepts either an id or a name.
func (c *Catalog) Resolve(ref string) (Location, bool) {
	if l, ok := c.ResolveByID(ref); ok {
		return l, true
	}
	if l, ok := c.ResolveByID(strings.ToUpper(ref)); ok {
		return l, true
	}
	return c.ResolveByName(ref)
}

func (c *Catalog) ChildrenOf(parentID string) []Location {
	idx := c.children[parentID]
	out := make([]Location, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.locations[i])
	}
	return out
}

func (c *Catalog) HasChildren(id string) bool {
	return len(c.children[id]) > 0
}

// CountryOf maps a location to the country it counts towards: a country
// maps to itself, anything else to its parent.
func (c *Catalog) CountryOf(id string) (string, bool) {
	l, ok := c.ResolveByID(id)
	if !ok {
		return "", false
	}
	if l.Kind == KindCountry {
		return l.ID, true
	}
	if l.ParentID != "" {
		return l.ParentID, true
	}
	return "", false
}

// Continents returns the fixed continent order.
func (c *Catalog) Continents() []Continent {
	return append([]Continent(nil), continents...)
}

func (c *Catalog) CountriesIn(continent Continent) []Location {
	var out []Location
	for _, l := range c.locations {
		if l.Kind == KindCountry && l.Continent == continent {
			out = append(out, l)
		}
	}
	return out
}

func (c *Catalog) Locations() []Location {
	return append([]Location(nil), c.locations...)
}

func (c *Catalog) TotalCountries() int    { return c.counts[KindCountry] }
func (c *Catalog) TotalTerritories() int  { return c.counts[KindTerritory] }
func (c *Catalog) TotalSubdivisions() int { return c.counts[KindSubdivision] }

// Validate reports every location whose parent is set but does not resolve to
// a country.
func (c *Catalog) Validate() error {
	var bad []string
	for _, l := range c.locations {
		if l.ParentID == "" {
			continue
		}
		p, ok := c.ResolveByID(l.ParentID)
		if !ok || p.Kind != KindCountry {
			bad = append(bad, fmt.Sprintf("%s->%s", l.ID, l.ParentID))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("dangling parents: %s", strings.Join(bad, ", "))
	}
	return nil
}
