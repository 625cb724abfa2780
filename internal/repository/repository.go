// Package repository declares the persistence interfaces the services depend
// on. Services receive these interfaces, not the concrete sqlite types, so
// tests can substitute in-memory fakes and the storage engine can be swapped
// without touching business logic.
package repository

import (
	"context"

	"github.com/alfred-agent/alfred/internal/model"
)

// UserRepository persists user accounts.
//
// Create returns apperror.ErrDuplicateEmail if the email is already taken —
// uniqueness is enforced by the database's UNIQUE constraint, not by a
// read-then-write race.
// GetByEmail and GetByID return apperror.ErrNotFound for missing rows.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// JobRepository reads job records.
//
// ListByUser returns the user's jobs newest-first (created_at DESC).
// Insert exists for the collaborators that own job creation — the seed tool
// and tests standing in for the external agent pipeline. No HTTP route
// reaches it.
type JobRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Job, error)
	Insert(ctx context.Context, job *model.Job) error
}
