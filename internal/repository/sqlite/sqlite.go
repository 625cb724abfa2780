// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite keeps the whole store in one file inside the deployment — no
// database server to run. The modernc.org/sqlite driver is a pure-Go
// translation of SQLite, so the binary cross-compiles without CGo.
//
// Schema management uses golang-migrate with SQL files embedded in the
// binary (go:embed below). Migrations run automatically when the database
// is opened, and migrate records the applied version in its own table, so
// reopening an up-to-date database is a no-op.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// Registers the "sqlite" driver with database/sql at init time.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB connection pool and implements both repository
// interfaces (see user.go and job.go). The server owns the lifecycle:
// New on startup, Close during graceful shutdown.
type DB struct {
	conn *sql.DB
}

// New opens (creating if necessary) the SQLite database at path and brings
// the schema up to date.
//
// Pass ":memory:" for an in-memory database — used throughout the tests.
// In-memory databases exist per connection, so the pool is capped at a
// single connection in that case; otherwise each pooled connection would
// see its own empty database.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — relevant because
	// every API request hits the database. Foreign keys are off by default
	// in SQLite; jobs.user_id references users, so turn them on.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrateUp applies all pending migrations from the embedded filesystem.
//
// migrate.ErrNoChange just means the schema is already current — the normal
// case on every startup after the first.
func migrateUp(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(conn, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
