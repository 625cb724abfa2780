package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/alfred-agent/alfred/internal/apperror"
	"github.com/alfred-agent/alfred/internal/model"
	"github.com/alfred-agent/alfred/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user. The repository owns ID generation and
// timestamps: the caller passes Email and PasswordHash, and gets back a
// struct with ID, CreatedAt, and UpdatedAt filled in.
//
// UpdatedAt is set equal to CreatedAt — nothing updates users yet.
//
// Email uniqueness is enforced by the UNIQUE constraint, not by a prior
// SELECT. Two concurrent registrations for the same email race to the
// INSERT and exactly one wins; the loser gets ErrDuplicateEmail. The
// service layer's existence check is just for the friendly common case.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by their exact email (case-sensitive — the
// column has no COLLATE NOCASE and we don't fold case anywhere).
// Returns apperror.ErrNotFound if no user has that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query, key string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, key).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint error.
// The driver doesn't export a stable error type for this, so we match the
// message SQLite has emitted for every constraint failure since 3.8.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
