package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wanderlog/internal/client/catalog"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/common"
)

// wishFlag is the trailing argument that selects the wishlist.
const wishFlag = "wish"

// splitType strips a trailing "wish" and reports the collection it selects.
func splitType(args []string) ([]string, models.EntryType) {
	if n := len(args); n > 0 && args[n-1] == wishFlag {
		return args[:n-1], models.EntryTypeWishlist
	}
	return args, models.EntryTypeVisited
}

func (a *App) resolve(ref string) (catalog.Location, error) {
	if ref == "" {
		return catalog.Location{}, errors.New("location required")
	}
	loc, ok := a.catalog.Resolve(ref)
	if !ok {
		return catalog.Location{}, fmt.Errorf("%w: %s", common.ErrUnknownLocation, ref)
	}
	return loc, nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	return a.toggle(ctx, args, models.EntryTypeVisited)
}

func (a *App) Wish(ctx context.Context, args []string) error {
	return a.toggle(ctx, args, models.EntryTypeWishlist)
}

func (a *App) toggle(ctx context.Context, args []string, t models.EntryType) error {
	loc, err := a.resolve(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if a.visits.Toggle(ctx, loc.ID, t) {
		fmt.Fprintf(a.out, "%s added to %s\n", loc.Name, t)
	} else {
		fmt.Fprintf(a.out, "%s removed from %s\n", loc.Name, t)
	}
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rate <loc> <0-5>")
	}
	r, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("rating must be a number: %w", err)
	}
	return a.update(ctx, args[0], models.VisitInput{Rating: &r})
}

func (a *App) Note(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: note <loc> <text>")
	}
	text := strings.Join(args[1:], " ")
	if text == "-" {
		text = ""
	}
	return a.update(ctx, args[0], models.VisitInput{Notes: &text})
}

func (a *App) Date(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: date <loc> <start> [end]")
	}
	d := models.VisitDate{StartDate: args[1]}
	if len(args) == 3 {
		d.EndDate = args[2]
	}
	return a.appendTo(ctx, args[0], func(e *models.VisitEntry, in *models.VisitInput) {
		in.VisitDates = append(append([]models.VisitDate{}, e.VisitDates...), d)
	})
}

func (a *App) Place(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: place <loc> <category> <name>")
	}
	p := models.SubPlace{Name: strings.Join(args[2:], " "), Category: models.PlaceCategory(args[1])}
	return a.appendTo(ctx, args[0], func(e *models.VisitEntry, in *models.VisitInput) {
		in.PlacesVisited = append(append([]models.SubPlace{}, e.PlacesVisited...), p)
	})
}

func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: photo <loc> <url>")
	}
	return a.appendTo(ctx, args[0], func(e *models.VisitEntry, in *models.VisitInput) {
		in.Photos = append(append([]string{}, e.Photos...), args[1])
	})
}

// appendTo builds an update from the current visited entry, or from an empty
// one when the location is not visited yet.
func (a *App) appendTo(ctx context.Context, ref string, build func(e *models.VisitEntry, in *models.VisitInput)) error {
	loc, err := a.resolve(ref)
	if err != nil {
		return err
	}
	e, ok := a.visits.GetEntry(loc.ID, models.EntryTypeVisited)
	if !ok {
		e = &models.VisitEntry{}
	}
	var in models.VisitInput
	build(e, &in)
	return a.updateLocation(ctx, loc, in)
}

func (a *App) update(ctx context.Context, ref string, in models.VisitInput) error {
	loc, err := a.resolve(ref)
	if err != nil {
		return err
	}
	return a.updateLocation(ctx, loc, in)
}

func (a *App) updateLocation(ctx context.Context, loc catalog.Location, in models.VisitInput) error {
	if _, err := a.visits.Update(ctx, loc.ID, models.EntryTypeVisited, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s updated\n", loc.Name)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	rest, t := splitType(args)
	loc, err := a.resolve(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	if !a.visits.Delete(ctx, loc.ID, t) {
		fmt.Fprintf(a.out, "%s was not in %s\n", loc.Name, t)
		return nil
	}
	fmt.Fprintf(a.out, "%s deleted from %s\n", loc.Name, t)
	return nil
}

func (a *App) Clear(ctx context.Context, args []string) error {
	_, t := splitType(args)
	a.visits.ClearAll(ctx, t)
	fmt.Fprintf(a.out, "%s cleared on this device\n", t)
	return nil
}
