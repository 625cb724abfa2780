package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfred-agent/alfred/internal/repository"
)

// JobService exposes the read side of the job store. Jobs are created and
// advanced by the external agent pipeline; this service only projects them
// into the history response.
type JobService struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewJobService(jobs repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, logger: logger}
}

// JobRecord is the response projection of a job row. Result and CompletedAt
// stay nullable so a pending job serializes with explicit nulls.
type JobRecord struct {
	ID          string     `json:"id"`
	Prompt      string     `json:"prompt"`
	Result      *string    `json:"result"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// HistoryResult is the history response: the full list (no pagination) and
// its length.
type HistoryResult struct {
	Jobs  []JobRecord `json:"jobs"`
	Total int         `json:"total"`
}

// History returns all of userID's jobs, newest first.
//
// Ordering comes from the repository (created_at DESC); Total is simply the
// list length. A user with no jobs gets {jobs: [], total: 0}.
func (s *JobService) History(ctx context.Context, userID string) (*HistoryResult, error) {
	jobs, err := s.jobs.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list jobs",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/job: listing history for user %s: %w", userID, err)
	}

	records := make([]JobRecord, 0, len(jobs))
	for _, j := range jobs {
		records = append(records, JobRecord{
			ID:          j.ID,
			Prompt:      j.Prompt,
			Result:      j.Result,
			Status:      j.Status,
			CreatedAt:   j.CreatedAt,
			CompletedAt: j.CompletedAt,
		})
	}

	return &HistoryResult{
		Jobs:  records,
		Total: len(records),
	}, nil
}
