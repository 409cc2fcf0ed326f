package cli

import (
	"context"
	"errors"
	"fmt"
)

// getToken is swapped in tests.
var getToken = GetToken

// Login validates the token (argument or hidden prompt), stores it and loads
// the user's collections.
func (a *App) Login(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		t, err := getToken(a.out)
		if err != nil {
			return err
		}
		token = t
	}
	if token == "" {
		return errors.New("empty token")
	}

	userID, err := a.auth.Login(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	a.visits.SetUser(ctx, userID)
	fmt.Fprintf(a.out, "Logged in as %s\n", userID)
	return nil
}

// Logout forgets the session and switches back to the anonymous collections.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.visits.SetUser(ctx, "")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
