package model

import "time"

// Job is a prompt submitted to the AI agent pipeline and its outcome.
//
// This backend never creates or transitions jobs — rows are written by the
// external agent service and only read here. That's why Result and
// CompletedAt are pointers: a pending job has neither, and NULL in the
// database maps cleanly to nil.
//
// Status is a free-form short string owned by the pipeline ("pending",
// "completed", ...); we pass it through without interpreting it.
type Job struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"userId"      db:"user_id"`
	Prompt      string     `json:"prompt"      db:"prompt"`
	Result      *string    `json:"result"      db:"result"`
	Status      string     `json:"status"      db:"status"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
}
