package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/wanderlog/internal/client/catalog"
	"github.com/dmitrijs2005/wanderlog/internal/client/client"
	"github.com/dmitrijs2005/wanderlog/internal/client/config"
	"github.com/dmitrijs2005/wanderlog/internal/client/photos"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wanderlog/internal/client/repositories/visits"
	"github.com/dmitrijs2005/wanderlog/internal/client/services"
	"github.com/dmitrijs2005/wanderlog/internal/logging"
)

const closeTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	remote  client.RemoteStore
	auth    services.AuthService
	visits  *services.VisitManager
	catalog *catalog.Catalog
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local cache and, when configured, the remote store and
// photo storage. A remote store that cannot be reached leaves the app in
// local-only mode.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewJSONLogger(os.Stderr, parseLevel(c.LogLevel))

	db, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		catalog: catalog.Default(),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	deps := services.Deps{
		Cache:   visits.NewCacheRepository(db, log.With("component", "cache")),
		Catalog: a.catalog,
		Logger:  log.With("component", "visits"),
	}

	if c.RemoteDSN != "" {
		store, err := client.OpenPostgres(ctx, c.RemoteDSN, c.RemoteTimeout)
		if err != nil {
			log.Warn(ctx, "remote store unavailable, running local-only", "err", err)
		} else {
			a.remote = store
			deps.Remote = store
		}
	}

	if c.S3BaseEndpoint != "" {
		ps, err := photos.NewS3Store(ctx, photos.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3User,
			SecretKey:    c.S3Password,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			log.Warn(ctx, "photo storage unavailable", "err", err)
		} else {
			deps.Photos = ps
		}
	}

	a.auth = services.NewAuthService(kv.NewSQLiteRepository(db), []byte(c.TokenSecret), log.With("component", "auth"))
	a.visits = services.NewVisitManager(deps,
		services.WithDebounceWindow(c.DebounceWindow),
		services.WithSavedResetDelay(c.SavedResetDelay),
		services.WithRemoteTimeout(c.RemoteTimeout),
	)
	return a, nil
}

// Run restores the previous session, loads its collections and serves the
// REPL until the user exits. Pending remote writes are flushed on the way out.
func (a *App) Run(ctx context.Context) error {
	userID, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	a.visits.SetUser(ctx, userID)

	fmt.Fprintln(a.out, "Welcome to wanderlog (type 'help' for commands)")
	if a.visits.ShowOnboarding() {
		fmt.Fprintln(a.out, "Tip: 'toggle France' marks a country as visited, 'wish Japan' adds it to your wishlist.")
		a.visits.DismissOnboarding(ctx)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return a.Close(ctx)
}

func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()

	var errs []error
	if err := a.visits.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) getStatus() string {
	user := a.visits.User()
	if user == "" {
		user = "anonymous"
	}
	return fmt.Sprintf("(%s %s)", user, a.visits.SyncStatus())
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
