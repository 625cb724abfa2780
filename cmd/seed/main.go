// Command seed populates the job store with sample rows for development.
//
// The backend itself never writes jobs — the external agent pipeline owns
// that table. This tool plays the pipeline's role locally so the history
// endpoint has something to show, assigning UUID job ids the way an
// external service would.
//
// Usage:
//
//	go run ./cmd/seed -db data/alfred.db -email a@x.com -n 5
//
// The user must already exist (register via the API or the CLI first).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/alfred-agent/alfred/internal/model"
	"github.com/alfred-agent/alfred/internal/repository/sqlite"
)

var samplePrompts = []string{
	"Write a function that returns the first 10 Fibonacci numbers",
	"Summarize the plot of Hamlet in three sentences",
	"Convert this CSV header to a SQL CREATE TABLE statement",
	"Explain the difference between a process and a thread",
	"Draft a polite reply declining a meeting invitation",
}

func main() {
	dbPath := flag.String("db", "data/alfred.db", "path to the SQLite database")
	email := flag.String("email", "", "email of the user to own the seeded jobs")
	count := flag.Int("n", 5, "number of jobs to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *email == "" {
		logger.Error("-email is required")
		os.Exit(1)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("opening database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	user, err := db.GetByEmail(ctx, *email)
	if err != nil {
		logger.Error("looking up user — register the account first",
			slog.String("email", *email),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	now := time.Now().UTC()
	for i := 0; i < *count; i++ {
		job := &model.Job{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Prompt:    samplePrompts[i%len(samplePrompts)],
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}

		// Every other job is marked completed with a canned result, so
		// the history view shows both lifecycle states.
		if i%2 == 0 {
			result := fmt.Sprintf("(sample result for job %d)", i+1)
			completed := job.CreatedAt.Add(45 * time.Second)
			job.Result = &result
			job.Status = "completed"
			job.CompletedAt = &completed
		}

		if err := db.Insert(ctx, job); err != nil {
			logger.Error("inserting job", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("seeded jobs",
		slog.Int("count", *count),
		slog.String("user", user.ID),
		slog.String("db", *dbPath),
	)
}
