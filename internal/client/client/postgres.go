package client

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/wanderlog/internal/client/migrations"
	"github.com/dmitrijs2005/wanderlog/internal/client/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements RemoteStore on a Postgres "visits" table.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	newID   func() string
}

var _ RemoteStore = (*PostgresStore)(nil)

// NewPostgresStore wraps an open database. A zero timeout disables the
// per-call deadline.
func NewPostgresStore(db *sql.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout, newID: uuid.NewString}
}

// OpenPostgres connects to dsn, checks the connection and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open remote store: %w", err)
	}
	s := NewPostgresStore(db, timeout)

	pctx, cancel := s.callContext(ctx)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, mapError("ping", err)
	}
	if err := RunRemoteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate remote store: %w", err)
	}
	return s, nil
}

// RunRemoteMigrations applies the remote visits schema.
func RunRemoteMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.Remote, "pgx", migrations.RemoteDir)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// SelectAll returns every row owned by userID.
func (s *PostgresStore) SelectAll(ctx context.Context, userID string) ([]*models.VisitRow, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	query := `SELECT id, user_id, location_id, type, rating, notes, visit_dates, places_visited, photos, created_at, updated_at
		FROM visits WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError("select visits", err)
	}
	defer rows.Close()

	var result []*models.VisitRow
	for rows.Next() {
		var (
			row                   models.VisitRow
			typ                   string
			rating                sql.NullInt64
			notes                 sql.NullString
			dates, places, photos []byte
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.LocationID, &typ, &rating, &notes,
			&dates, &places, &photos, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan visit row: %w", err)
		}
		row.Type = models.EntryType(typ)
		if rating.Valid {
			r := int(rating.Int64)
			row.Rating = &r
		}
		if notes.Valid {
			n := notes.String
			row.Notes = &n
		}
		if err := decodeJSONColumns(&row, dates, places, photos); err != nil {
			return nil, fmt.Errorf("decode visit %s: %w", row.ID, err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate visits", err)
	}
	return result, nil
}

// Upsert inserts row or updates the existing (user, location, type) row. Ids
// that are empty or locally generated are replaced by a fresh uuid; on
// conflict the stored id wins and is returned.
func (s *PostgresStore) Upsert(ctx context.Context, row *models.VisitRow) (string, error) {
	if row.UserID == "" {
		return "", ErrUnauthorized
	}
	id := row.ID
	if id == "" || strings.HasPrefix(id, "local-") {
		id = s.newID()
	}
	typ := row.Type
	if typ == "" {
		typ = models.EntryTypeVisited
	}
	dates, places, photos, err := encodeJSONColumns(row)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	query := `
		INSERT INTO visits (id, user_id, location_id, type, rating, notes, visit_dates, places_visited, photos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, location_id, type)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			notes = EXCLUDED.notes,
			visit_dates = EXCLUDED.visit_dates,
			places_visited = EXCLUDED.places_visited,
			photos = EXCLUDED.photos,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var stored string
	err = s.db.QueryRowContext(ctx, query,
		id, row.UserID, row.LocationID, string(typ), nullableInt(row.Rating), nullableString(row.Notes),
		dates, places, photos, row.CreatedAt, row.UpdatedAt,
	).Scan(&stored)
	if err != nil {
		return "", mapError("upsert visit", err)
	}
	return stored, nil
}

// Delete removes the row for (userID, locationID, t). Deleting a missing row
// is not an error.
func (s *PostgresStore) Delete(ctx context.Context, userID, locationID string, t models.EntryType) error {
	if userID == "" {
		return ErrUnauthorized
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM visits WHERE user_id = $1 AND location_id = $2 AND type = $3`,
		userID, locationID, string(t))
	if err != nil {
		return mapError("delete visit", err)
	}
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func encodeJSONColumns(row *models.VisitRow) (dates, places, photos string, err error) {
	enc := func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode json column: %w", err)
		}
		return string(b), nil
	}
	d, p, ph := row.VisitDates, row.PlacesVisited, row.Photos
	if d == nil {
		d = []models.VisitDate{}
	}
	if p == nil {
		p = []models.SubPlace{}
	}
	if ph == nil {
		ph = []string{}
	}
	if dates, err = enc(d); err != nil {
		return
	}
	if places, err = enc(p); err != nil {
		return
	}
	photos, err = enc(ph)
	return
}

func decodeJSONColumns(row *models.VisitRow, dates, places, photos []byte) error {
	if len(dates) > 0 {
		if err := json.Unmarshal(dates, &row.VisitDates); err != nil {
			return err
		}
	}
	if len(places) > 0 {
		if err := json.Unmarshal(places, &row.PlacesVisited); err != nil {
			return err
		}
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &row.Photos); err != nil {
			return err
		}
	}
	return nil
}

// mapError classifies driver errors into the package sentinels.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &pgErr) && isAuthCode(pgErr.Code):
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isAuthCode(code string) bool {
	switch code {
	case "28000", "28P01", "42501":
		return true
	}
	return false
}
