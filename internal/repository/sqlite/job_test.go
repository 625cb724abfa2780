package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alfred-agent/alfred/internal/model"
)

// insertTestJob writes a job row the way the external agent pipeline would:
// the ID is assigned by the collaborator (a UUID), not by this repository.
func insertTestJob(t *testing.T, db *DB, userID, prompt string, createdAt time.Time) *model.Job {
	t.Helper()
	job := &model.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    prompt,
		CreatedAt: createdAt,
	}
	if err := db.Insert(context.Background(), job); err != nil {
		t.Fatalf("failed to insert test job: %v", err)
	}
	return job
}

func TestJobListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "empty@example.com")

	jobs, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if jobs == nil {
		t.Error("ListByUser() should return an empty slice, not nil")
	}
	if len(jobs) != 0 {
		t.Errorf("ListByUser() returned %d jobs, want 0", len(jobs))
	}
}

func TestJobListByUser_OrderedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "history@example.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertTestJob(t, db, user.ID, "oldest", base)
	insertTestJob(t, db, user.ID, "middle", base.Add(1*time.Hour))
	insertTestJob(t, db, user.ID, "newest", base.Add(2*time.Hour))

	jobs, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("ListByUser() returned %d jobs, want 3", len(jobs))
	}

	want := []string{"newest", "middle", "oldest"}
	for i, prompt := range want {
		if jobs[i].Prompt != prompt {
			t.Errorf("jobs[%d].Prompt = %q, want %q", i, jobs[i].Prompt, prompt)
		}
	}
}

func TestJobListByUser_DoesNotLeakAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	insertTestJob(t, db, alice.ID, "alice prompt", time.Now().UTC())

	jobs, err := db.ListByUser(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("bob's history contains %d of alice's jobs", len(jobs))
	}
}

func TestJobInsert_Defaults(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "defaults@example.com")

	job := &model.Job{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Prompt: "write fibonacci",
	}
	if err := db.Insert(context.Background(), job); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	jobs, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("ListByUser() returned %d jobs, want 1", len(jobs))
	}

	got := jobs[0]
	if got.Status != "pending" {
		t.Errorf("Status = %q, want %q", got.Status, "pending")
	}
	if got.Result != nil {
		t.Errorf("Result = %v, want nil for a pending job", *got.Result)
	}
	if got.CompletedAt != nil {
		t.Error("CompletedAt should be nil for a pending job")
	}
	if got.CreatedAt.IsZero() {
		t.Error("Insert() should default CreatedAt to now")
	}
}

func TestJobInsert_CompletedJobRoundTrips(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "completed@example.com")

	result := "def fib(n): ..."
	completed := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	job := &model.Job{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Prompt:      "write fibonacci",
		Result:      &result,
		Status:      "completed",
		CreatedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
	}
	if err := db.Insert(context.Background(), job); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	jobs, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	got := jobs[0]
	if got.Result == nil || *got.Result != result {
		t.Errorf("Result = %v, want %q", got.Result, result)
	}
	if got.Status != "completed" {
		t.Errorf("Status = %q, want %q", got.Status, "completed")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completed)
	}
}
