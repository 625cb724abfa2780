package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/alfred-agent/alfred/internal/model"
	"github.com/alfred-agent/alfred/internal/repository"
)

// compile-time check that *DB implements repository.JobRepository
var _ repository.JobRepository = (*DB)(nil)

// ListByUser returns all jobs owned by userID, newest first.
//
// No pagination: the history endpoint returns the whole list and its count.
// A user with no jobs gets an empty (non-nil) slice, which serializes to
// [] rather than null.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Job, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, prompt, result, status, created_at, completed_at
		 FROM jobs
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs for user %s: %w", userID, err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID,
			&j.UserID,
			&j.Prompt,
			&j.Result,
			&j.Status,
			&j.CreatedAt,
			&j.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating job rows: %w", err)
	}

	return jobs, nil
}

// Insert writes a job row as the external agent pipeline would.
//
// The API never calls this — it exists for cmd/seed and the tests, which
// stand in for the collaborator that actually creates jobs. The caller
// supplies the ID (externally created jobs arrive with their own IDs);
// CreatedAt defaults to now if left zero.
func (db *DB) Insert(ctx context.Context, job *model.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = "pending"
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, user_id, prompt, result, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.UserID,
		job.Prompt,
		job.Result,
		job.Status,
		job.CreatedAt,
		job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job %s: %w", job.ID, err)
	}

	return nil
}
