// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is UNIQUE in the database. It is stored
// and compared exactly as the user typed it — no case folding.
//
// PasswordHash is the bcrypt hash of the password; the plaintext is never
// stored. The json:"-" tag keeps the hash out of every API response no
// matter where a User value is serialized.
//
// UpdatedAt is set equal to CreatedAt at insert. No code path mutates a user
// after creation; the column exists for a future profile-update feature.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
