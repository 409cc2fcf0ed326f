// Package stats computes rollups over visited and wishlisted entries. All
// functions are pure: the same entries and catalog give the same result.
package stats

import (
	"sort"

	"github.com/dmitrijs2005/wanderlog/internal/client/catalog"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
)

// Catalog is the part of the location catalog the aggregator reads.
type Catalog interface {
	ResolveByID(id string) (catalog.Location, bool)
	Continents() []catalog.Continent
	CountriesIn(c catalog.Continent) []catalog.Location
	TotalCountries() int
	TotalTerritories() int
	TotalSubdivisions() int
}

type ContinentStats struct {
	Continent  catalog.Continent
	Visited    int
	Total      int
	Percentage int
	// Locations lists visited country ids in catalog order.
	Locations []string
}

type VisitStats struct {
	TotalCountries      int
	VisitedCountries    int
	PercentageCountries int
	TotalTerritories    int
	VisitedTerritories  int
	TotalSubdivisions   int
	VisitedSubdivisions int

	// ByContinent follows the catalog's continent order.
	ByContinent []ContinentStats
	// Empty when no country has been visited.
	MostVisitedContinent  catalog.Continent
	LeastVisitedContinent catalog.Continent

	// Nil when no entry is rated.
	AverageRating      *float64
	TotalPlacesVisited int
	FirstVisit         *models.VisitEntry
	MostRecentVisit    *models.VisitEntry
}

// Continent returns the rollup for c.
func (s VisitStats) Continent(c catalog.Continent) (ContinentStats, bool) {
	for _, cs := range s.ByContinent {
		if cs.Continent == c {
			return cs, true
		}
	}
	return ContinentStats{}, false
}

type WishlistStats struct {
	Entries                int
	TotalCountries         int
	WishlistedCountries    int
	PercentageCountries    int
	WishlistedTerritories  int
	WishlistedSubdivisions int
}

// Percent returns round(100*v/t) with halves rounded up, or 0 when t is 0.
func Percent(v, t int) int {
	if t <= 0 {
		return 0
	}
	return (200*v + t) / (2 * t)
}

type kindCounts struct {
	countries    map[string]bool
	territories  int
	subdivisions int
}

func countKinds(entries []*models.VisitEntry, cat Catalog) kindCounts {
	kc := kindCounts{countries: make(map[string]bool)}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.LocationID] {
			continue
		}
		seen[e.LocationID] = true
		loc, ok := cat.ResolveByID(e.LocationID)
		if !ok {
			continue
		}
		switch loc.Kind {
		case catalog.KindCountry:
			kc.countries[loc.ID] = true
		case catalog.KindTerritory:
			kc.territories++
		case catalog.KindSubdivision:
			kc.subdivisions++
		}
	}
	return kc
}

// Compute aggregates visited entries. entries must be in collection order;
// that order breaks CreatedAt ties.
func Compute(entries []*models.VisitEntry, cat Catalog) VisitStats {
	kc := countKinds(entries, cat)

	s := VisitStats{
		TotalCountries:      cat.TotalCountries(),
		VisitedCountries:    len(kc.countries),
		PercentageCountries: Percent(len(kc.countries), cat.TotalCountries()),
		TotalTerritories:    cat.TotalTerritories(),
		VisitedTerritories:  kc.territories,
		TotalSubdivisions:   cat.TotalSubdivisions(),
		VisitedSubdivisions: kc.subdivisions,
	}

	var most, least *ContinentStats
	for _, c := range cat.Continents() {
		countries := cat.CountriesIn(c)
		cs := ContinentStats{Continent: c, Total: len(countries), Locations: []string{}}
		for _, l := range countries {
			if kc.countries[l.ID] {
				cs.Visited++
				cs.Locations = append(cs.Locations, l.ID)
			}
		}
		cs.Percentage = Percent(cs.Visited, cs.Total)
		s.ByContinent = append(s.ByContinent, cs)
	}
	for i := range s.ByContinent {
		cs := &s.ByContinent[i]
		if cs.Visited == 0 {
			continue
		}
		if most == nil || cs.Percentage > most.Percentage {
			most = cs
		}
		if least == nil || cs.Percentage < least.Percentage {
			least = cs
		}
	}
	if most != nil {
		s.MostVisitedContinent = most.Continent
		s.LeastVisitedContinent = least.Continent
	}

	var ratingSum, rated int
	for _, e := range entries {
		if e.Rating != nil {
			ratingSum += *e.Rating
			rated++
		}
		s.TotalPlacesVisited += len(e.PlacesVisited)
	}
	if rated > 0 {
		avg := float64(ratingSum) / float64(rated)
		s.AverageRating = &avg
	}

	dated := make([]*models.VisitEntry, 0, len(entries))
	for _, e := range entries {
		if !e.CreatedAt.IsZero() {
			dated = append(dated, e)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].CreatedAt.Before(dated[j].CreatedAt) })
	if len(dated) > 0 {
		s.FirstVisit = dated[0].Clone()
		s.MostRecentVisit = dated[len(dated)-1].Clone()
	}
	return s
}

// ComputeWishlist aggregates wishlist entries at country level.
func ComputeWishlist(entries []*models.VisitEntry, cat Catalog) WishlistStats {
	kc := countKinds(entries, cat)
	return WishlistStats{
		Entries:                len(entries),
		TotalCountries:         cat.TotalCountries(),
		WishlistedCountries:    len(kc.countries),
		PercentageCountries:    Percent(len(kc.countries), cat.TotalCountries()),
		WishlistedTerritories:  kc.territories,
		WishlistedSubdivisions: kc.subdivisions,
	}
}
