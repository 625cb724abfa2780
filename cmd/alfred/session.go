package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alfred-agent/alfred/internal/client"
)

// The session file holds the bundle returned by register/login. The token
// inside is self-expiring, so there's nothing to invalidate on disk — a
// stale file just produces a 401 and a hint to log in again.

var errNoSession = errors.New("not logged in — run `alfred login` first")

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "alfred", "session.json"), nil
}

// saveSession writes the session with owner-only permissions — the file
// contains a live bearer token.
func saveSession(s *client.Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func loadSession() (*client.Session, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNoSession
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s client.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session (delete %s and log in again): %w", path, err)
	}
	if s.Token == "" {
		return nil, errNoSession
	}
	return &s, nil
}
