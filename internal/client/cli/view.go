package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
)

func (a *App) List(_ context.Context, args []string) error {
	_, t := splitType(args)
	entries := a.visits.Entries(t)
	if len(entries) == 0 {
		fmt.Fprintf(a.out, "%s is empty\n", t)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRATING\tDATES\tPHOTOS")
	for _, e := range entries {
		name := e.LocationID
		if loc, ok := a.catalog.ResolveByID(e.LocationID); ok {
			name = loc.Name
		}
		rating := "-"
		if e.Rating != nil {
			rating = strings.Repeat("*", *e.Rating)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", e.LocationID, name, rating, len(e.VisitDates), len(e.Photos))
	}
	return w.Flush()
}

func (a *App) Show(_ context.Context, args []string) error {
	rest, t := splitType(args)
	loc, err := a.resolve(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	e, ok := a.visits.GetEntry(loc.ID, t)
	if !ok {
		fmt.Fprintf(a.out, "%s is not in %s\n", loc.Name, t)
		return nil
	}
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s, %s)\n%s\n", loc.Name, loc.Kind, loc.Continent, b)
	return nil
}

func (a *App) Stats(_ context.Context) error {
	s := a.visits.Stats()
	fmt.Fprintf(a.out, "Countries:    %d/%d (%d%%)\n", s.VisitedCountries, s.TotalCountries, s.PercentageCountries)
	fmt.Fprintf(a.out, "Territories:  %d/%d\n", s.VisitedTerritories, s.TotalTerritories)
	fmt.Fprintf(a.out, "Subdivisions: %d/%d\n", s.VisitedSubdivisions, s.TotalSubdivisions)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, cs := range s.ByContinent {
		fmt.Fprintf(w, "  %s\t%d/%d\t%d%%\n", cs.Continent, cs.Visited, cs.Total, cs.Percentage)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if s.MostVisitedContinent != "" {
		fmt.Fprintf(a.out, "Most visited continent:  %s\n", s.MostVisitedContinent)
		fmt.Fprintf(a.out, "Least visited continent: %s\n", s.LeastVisitedContinent)
	}
	if s.AverageRating != nil {
		fmt.Fprintf(a.out, "Average rating: %.1f\n", *s.AverageRating)
	}
	fmt.Fprintf(a.out, "Places visited: %d\n", s.TotalPlacesVisited)
	if s.FirstVisit != nil {
		fmt.Fprintf(a.out, "First visit:    %s\n", a.describe(s.FirstVisit))
		fmt.Fprintf(a.out, "Latest visit:   %s\n", a.describe(s.MostRecentVisit))
	}

	ws := a.visits.WishlistStats()
	fmt.Fprintf(a.out, "Wishlist: %d entries, %d countries (%d%%)\n", ws.Entries, ws.WishlistedCountries, ws.PercentageCountries)
	return nil
}

func (a *App) Status(_ context.Context) error {
	user := a.visits.User()
	if user == "" {
		user = "anonymous"
	}
	mode := "local-only"
	if a.remote != nil {
		mode = "remote"
	}
	fmt.Fprintf(a.out, "user: %s\nmode: %s\nloaded: %t\nsync: %s\n", user, mode, a.visits.IsLoaded(), a.visits.SyncStatus())
	return nil
}

func (a *App) describe(e *models.VisitEntry) string {
	name := e.LocationID
	if loc, ok := a.catalog.ResolveByID(e.LocationID); ok {
		name = loc.Name
	}
	return fmt.Sprintf("%s (%s)", name, e.CreatedAt.Format("2006-01-02"))
}
