package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a recording stub.
type execIface interface {
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Toggle(ctx context.Context, args []string) error
	Wish(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error
	Date(ctx context.Context, args []string) error
	Place(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  login [token]                 sign in (prompts for the token when omitted)
  logout                        sign out
  toggle <loc>                  mark or unmark a location as visited
  wish <loc>                    add or remove a location from the wishlist
  rate <loc> <0-5>              rate a visit (0 clears)
  note <loc> <text>             set visit notes ("-" clears)
  date <loc> <start> [end]      add a visit date (YYYY-MM-DD)
  place <loc> <category> <name> add a place (city, landmark, region, other)
  photo <loc> <url>             attach a photo reference
  delete <loc> [wish]           delete an entry
  clear [wish]                  clear a collection on this device
  list [wish]                   list entries
  show <loc> [wish]             show one entry
  stats                         visit statistics
  status                        sync status
  exit | quit                   leave the program
<loc> is a location id (FR, US-CA) or a name; names with spaces work for
toggle, wish, delete, show. Other commands take the first word as <loc>.`

// runREPL reads commands from scanner until EOF, "exit" or "quit". Handler
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "login":
			err = a.Login(ctx, args)
		case "logout":
			err = a.Logout(ctx)
		case "toggle":
			err = a.Toggle(ctx, args)
		case "wish":
			err = a.Wish(ctx, args)
		case "rate":
			err = a.Rate(ctx, args)
		case "note":
			err = a.Note(ctx, args)
		case "date":
			err = a.Date(ctx, args)
		case "place":
			err = a.Place(ctx, args)
		case "photo":
			err = a.Photo(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "clear":
			err = a.Clear(ctx, args)
		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "stats":
			err = a.Stats(ctx)
		case "status":
			err = a.Status(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
