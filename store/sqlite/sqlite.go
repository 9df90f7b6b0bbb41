/*
Package sqlite provides the SQLite-backed clock-ring and carrier store.

PURPOSE:
  Implements the data-access collaborator the detection engine depends on:
  it persists raw clock rings and the carrier-status roster, and serves
  one service week of rows pre-joined against the roster in the canonical
  column shape the rings package normalizes.

KEY TABLES:
  carriers:    The carrier roster (list status, hour limit)
  clock_rings: One row per carrier per date, raw field values

JOIN CONTRACT:
  WeekTable returns rings joined against carriers so every row already
  carries list_status and hour_limit. Rings for carriers missing from the
  roster still come back (status empty, normalized to "unknown" down the
  line): a data mismatch must surface in the tables, not vanish.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/eightbox.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - rings/table.go: Normalizes the table this store produces
  - api/handlers.go: The write path for rings and carriers
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/f-o-o-g-s/eightbox/article8"
	"github.com/f-o-o-g-s/eightbox/rings"
)

// Store persists carriers and clock rings in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Carrier roster, joined onto every clock ring at read time
	CREATE TABLE IF NOT EXISTS carriers (
		carrier_name TEXT PRIMARY KEY,
		list_status TEXT NOT NULL,
		hour_limit TEXT NOT NULL DEFAULT '12.00',
		updated_at TEXT NOT NULL
	);

	-- Raw clock rings, one row per carrier per date
	CREATE TABLE IF NOT EXISTS clock_rings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		carrier_name TEXT NOT NULL,
		rings_date TEXT NOT NULL,
		total TEXT NOT NULL DEFAULT '0',
		code TEXT NOT NULL DEFAULT 'none',
		leave_type TEXT NOT NULL DEFAULT 'none',
		leave_time TEXT NOT NULL DEFAULT '0',
		moves TEXT NOT NULL DEFAULT 'none',
		created_at TEXT NOT NULL,
		UNIQUE(carrier_name, rings_date)
	);

	CREATE INDEX IF NOT EXISTS idx_clock_rings_date
		ON clock_rings(rings_date);
	CREATE INDEX IF NOT EXISTS idx_clock_rings_carrier_date
		ON clock_rings(carrier_name, rings_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CARRIERS
// =============================================================================

// Carrier is one roster entry.
type Carrier struct {
	Name       string
	ListStatus string
	HourLimit  string
}

// SaveCarrier inserts or updates a roster entry.
func (s *Store) SaveCarrier(ctx context.Context, c Carrier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.HourLimit == "" {
		c.HourLimit = article8.DefaultHourLimit.String()
	}
	query := `
		INSERT INTO carriers (carrier_name, list_status, hour_limit, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(carrier_name) DO UPDATE SET
			list_status = excluded.list_status,
			hour_limit = excluded.hour_limit,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		c.Name, c.ListStatus, c.HourLimit, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save carrier: %w", err)
	}
	return nil
}

// ListCarriers returns the roster ordered by name.
func (s *Store) ListCarriers(ctx context.Context) ([]Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT carrier_name, list_status, hour_limit FROM carriers ORDER BY carrier_name`
	sqlRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	defer sqlRows.Close()

	var carriers []Carrier
	for sqlRows.Next() {
		var c Carrier
		if err := sqlRows.Scan(&c.Name, &c.ListStatus, &c.HourLimit); err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		carriers = append(carriers, c)
	}
	return carriers, sqlRows.Err()
}

// DeleteCarrier removes a roster entry. Clock rings for the carrier
// remain; they surface as status-unknown rows.
func (s *Store) DeleteCarrier(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM carriers WHERE carrier_name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete carrier: %w", err)
	}
	return nil
}

// =============================================================================
// CLOCK RINGS
// =============================================================================

// Ring is one raw clock-ring record as persisted.
type Ring struct {
	CarrierName string
	Date        time.Time
	Total       string
	Code        string
	LeaveType   string
	LeaveTime   string
	Moves       string
}

// SaveRings upserts a batch of rings atomically: a re-imported day
// replaces the prior values rather than duplicating rows.
func (s *Store) SaveRings(ctx context.Context, batch []Ring) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	query := `
		INSERT INTO clock_rings (carrier_name, rings_date, total, code, leave_type, leave_time, moves, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(carrier_name, rings_date) DO UPDATE SET
			total = excluded.total,
			code = excluded.code,
			leave_type = excluded.leave_type,
			leave_time = excluded.leave_time,
			moves = excluded.moves
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range batch {
		if _, err := sqlTx.ExecContext(ctx, query,
			r.CarrierName,
			article8.Midnight(r.Date).Format(article8.DateLayout),
			orDefault(r.Total, "0"),
			orDefault(r.Code, "none"),
			orDefault(r.LeaveType, "none"),
			orDefault(r.LeaveTime, "0"),
			orDefault(r.Moves, "none"),
			now,
		); err != nil {
			return fmt.Errorf("failed to save ring: %w", err)
		}
	}
	return sqlTx.Commit()
}

// WeekTable returns the canonical input table for the service week
// containing the given date: clock rings joined against the roster, in
// the column shape rings.Table expects.
func (s *Store) WeekTable(ctx context.Context, date time.Time) (rings.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	week := article8.ServiceWeekOf(date)
	query := `
		SELECT r.carrier_name, r.rings_date,
		       COALESCE(c.list_status, '') AS list_status,
		       COALESCE(c.hour_limit, '') AS hour_limit,
		       r.total, r.code, r.leave_type, r.leave_time, r.moves
		FROM clock_rings r
		LEFT JOIN carriers c ON c.carrier_name = r.carrier_name
		WHERE r.rings_date >= ? AND r.rings_date <= ?
		ORDER BY r.carrier_name, r.rings_date
	`
	sqlRows, err := s.db.QueryContext(ctx, query,
		week.Start.Format(article8.DateLayout),
		week.End.Format(article8.DateLayout))
	if err != nil {
		return rings.Table{}, fmt.Errorf("failed to load week: %w", err)
	}
	defer sqlRows.Close()

	table := rings.Table{Columns: rings.RequiredColumns}
	for sqlRows.Next() {
		var name, ringsDate, listStatus, hourLimit, total, code, leaveType, leaveTime, moves string
		if err := sqlRows.Scan(&name, &ringsDate, &listStatus, &hourLimit,
			&total, &code, &leaveType, &leaveTime, &moves); err != nil {
			return rings.Table{}, fmt.Errorf("failed to scan ring: %w", err)
		}
		table.Rows = append(table.Rows, rings.Row{
			rings.ColCarrierName: name,
			rings.ColDate:        ringsDate,
			rings.ColListStatus:  listStatus,
			rings.ColHourLimit:   hourLimit,
			rings.ColTotal:       total,
			rings.ColCode:        code,
			rings.ColLeaveType:   leaveType,
			rings.ColLeaveTime:   leaveTime,
			rings.ColMoves:       moves,
		})
	}
	return table, sqlRows.Err()
}

// Reset clears all data (dev/test only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"clock_rings", "carriers"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
