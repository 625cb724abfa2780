// Package auth — password hashing.
//
// Passwords are hashed with bcrypt, an adaptive one-way hash built to be
// slow. The salt is generated per password and embedded in the output, so
// the hash column is self-contained and two users with the same password
// get different hashes. Comparison is constant-time inside the library.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 lands around 250ms on
// current server hardware — slow enough to hurt brute force, fast enough
// for interactive login.
const defaultCost = 12

// PasswordService hashes and verifies passwords.
//
// The cost is a struct field (not a package constant at call sites) so the
// tests can inject bcrypt's minimum cost and skip the ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest returns a PasswordService with a caller-chosen
// cost. Use bcrypt.MinCost (4) in tests; never use this in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The returned string embeds the salt and
// cost and is what gets stored in users.password_hash.
//
// bcrypt silently truncates input past 72 bytes, so longer passwords are
// rejected explicitly rather than partially hashed.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash: nil on match,
// a non-nil error otherwise.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
