// Package runlog keeps a ledger of level generation runs in SQLite or
// PostgreSQL. It records what a run produced; levels themselves are never
// stored and cannot be reloaded.
package runlog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/config"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrUnknownDriver is returned for a driver other than sqlite or postgres.
var ErrUnknownDriver = errors.New("runlog: unknown driver")

// Connection pool settings for PostgreSQL.
const (
	postgresMaxOpenConns    = 5
	postgresMaxIdleConns    = 2
	postgresConnMaxLifetime = 5 * time.Minute
)

// Run is one recorded generation run.
type Run struct {
	ID             int64
	Seed           int64
	Catalog        string
	RoomsRequested int
	RoomsGenerated int
	ExtraRequested int
	ExtraAdded     int
	Corridors      int
	CappedRoutes   int
	Encounters     int
	Enemies        int
	Warnings       []string
	CreatedAt      time.Time
}

// Ledger wraps the database connection.
type Ledger struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the ledger described by cfg and creates its schema.
func Open(cfg config.RunLogConfig) (*Ledger, error) {
	switch DialectType(cfg.Driver) {
	case DialectSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case DialectPostgres:
		return OpenPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// OpenSQLite opens or creates the SQLite ledger at path.
func OpenSQLite(path string) (*Ledger, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dialect := NewDialect(DialectSQLite)
	db, err := sql.Open(dialect.DriverName(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return initLedger(db, dialect)
}

// OpenPostgres connects to the PostgreSQL ledger at dsn.
func OpenPostgres(dsn string) (*Ledger, error) {
	dialect := NewDialect(DialectPostgres)
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxIdleConns)
	db.SetConnMaxLifetime(postgresConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return initLedger(db, dialect)
}

func initLedger(db *sql.DB, dialect Dialect) (*Ledger, error) {
	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	l := &Ledger{db: db, dialect: dialect}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (l *Ledger) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS generation_runs (
			id ` + l.dialect.PrimaryKey() + `,
			seed BIGINT NOT NULL,
			catalog TEXT NOT NULL DEFAULT '',
			rooms_requested INTEGER NOT NULL,
			rooms_generated INTEGER NOT NULL,
			extra_requested INTEGER NOT NULL,
			extra_added INTEGER NOT NULL,
			corridors INTEGER NOT NULL,
			capped_routes INTEGER NOT NULL DEFAULT 0,
			encounters INTEGER NOT NULL DEFAULT 0,
			enemies INTEGER NOT NULL DEFAULT 0,
			warnings TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_generation_runs_seed ON generation_runs(seed)`,
	}

	for _, m := range migrations {
		if _, err := l.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// RecordRun stores run and returns its id. CreatedAt defaults to now.
func (l *Ledger) RecordRun(run *Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := rebind(l.dialect, `
		INSERT INTO generation_runs (seed, catalog, rooms_requested, rooms_generated,
			extra_requested, extra_added, corridors, capped_routes, encounters, enemies,
			warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	args := []any{
		run.Seed, run.Catalog, run.RoomsRequested, run.RoomsGenerated,
		run.ExtraRequested, run.ExtraAdded, run.Corridors, run.CappedRoutes,
		run.Encounters, run.Enemies, strings.Join(run.Warnings, "\n"), run.CreatedAt,
	}

	returning := l.dialect.Returning("id")
	if returning == "" {
		result, err := l.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to record run: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read run id: %w", err)
		}
		run.ID = id
		return id, nil
	}

	if err := l.db.QueryRow(query+returning, args...).Scan(&run.ID); err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, seed, catalog, rooms_requested, rooms_generated, extra_requested,
	extra_added, corridors, capped_routes, encounters, enemies, warnings, created_at`

// RecentRuns returns up to limit runs, newest first.
func (l *Ledger) RecentRuns(limit int) ([]Run, error) {
	return l.queryRuns(`SELECT `+runColumns+` FROM generation_runs ORDER BY id DESC LIMIT ?`, limit)
}

// RunsForSeed returns every run of seed, oldest first.
func (l *Ledger) RunsForSeed(seed int64) ([]Run, error) {
	return l.queryRuns(`SELECT `+runColumns+` FROM generation_runs WHERE seed = ? ORDER BY id ASC`, seed)
}

func (l *Ledger) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := l.db.Query(rebind(l.dialect, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var warnings string
		if err := rows.Scan(&run.ID, &run.Seed, &run.Catalog, &run.RoomsRequested, &run.RoomsGenerated,
			&run.ExtraRequested, &run.ExtraAdded, &run.Corridors, &run.CappedRoutes,
			&run.Encounters, &run.Enemies, &warnings, &run.CreatedAt); err != nil {
			return nil, err
		}
		if warnings != "" {
			run.Warnings = strings.Split(warnings, "\n")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
