// Package service contains the business logic layer.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP)   → parses requests, maps errors to status codes
//	Service (rules)  → validation, credential checks, orchestration
//	Repository (DB)  → reads/writes rows
//
// Services accept primitives and return domain errors from the apperror
// package — they know nothing about HTTP. Dependencies come in through the
// constructors as interfaces, so the tests run against in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alfred-agent/alfred/internal/apperror"
	"github.com/alfred-agent/alfred/internal/auth"
	"github.com/alfred-agent/alfred/internal/model"
	"github.com/alfred-agent/alfred/internal/repository"
)

// AuthService orchestrates registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService wires an AuthService. Called from the composition root in
// internal/server.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is the bundle both Register and Login produce: the signed
// session token plus the fields the client needs without decoding it.
type AuthResult struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expiresIn"` // seconds until the token expires
}

// Register creates a new account and signs the caller in.
//
// Fails with apperror.ErrDuplicateEmail if the email is taken. The
// GetByEmail pre-check handles the common case; the database's UNIQUE
// constraint catches the concurrent-registration race, so the same error
// comes back either way.
//
// Side effect: exactly one new user row. UpdatedAt starts equal to
// CreatedAt — there is no mutation path for users.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.DuplicateEmail()
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent duplicate registrations land here.
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issue(user)
}

// Login verifies credentials and signs the caller in.
//
// An unknown email and a wrong password both return
// apperror.ErrInvalidCredentials with the same message — a caller must not
// be able to tell which half of the credential was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresIn: int64(s.tokens.ExpiresIn().Seconds()),
	}, nil
}
