// Package client provides HTTP clients for the two services the frontend
// talks to: the Alfred backend (auth + job history) and the AI agent
// service (prompt execution). The CLI in cmd/alfred is built on this
// package; it contains no business logic, only wire types and transport.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-2xx response decoded from the backend's standard error
// body {error, message, details?}. If the body isn't in that shape, the
// Category is left empty and Message carries a status-line fallback.
type APIError struct {
	Status   int
	Category string
	Message  string
	Details  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Backend calls the Alfred backend REST API.
type Backend struct {
	baseURL string
	http    *http.Client
}

// NewBackend creates a Backend client for the given base URL
// (e.g. "http://localhost:8080").
func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Session is the auth bundle both register and login return.
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Job mirrors one entry of the history response.
type Job struct {
	ID          string     `json:"id"`
	Prompt      string     `json:"prompt"`
	Result      *string    `json:"result"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// History is the job-history response.
type History struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}

// Register creates an account and returns the signed-in session.
func (b *Backend) Register(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := doJSON(ctx, b.http, http.MethodPost, b.baseURL+"/auth/register", "",
		map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Login signs in with existing credentials.
func (b *Backend) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := doJSON(ctx, b.http, http.MethodPost, b.baseURL+"/auth/login", "",
		map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// History fetches the authenticated user's job history.
func (b *Backend) History(ctx context.Context, token string) (*History, error) {
	var h History
	err := doJSON(ctx, b.http, http.MethodGet, b.baseURL+"/api/jobs/history", token, nil, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// doJSON issues a request and decodes the JSON response into out.
// A bearer token is attached when non-empty. Non-2xx responses become
// *APIError with the backend's error body when it can be decoded.
func doJSON(ctx context.Context, hc *http.Client, method, url, token string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		var wire struct {
			Error   string            `json:"error"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		}
		if decodeErr := json.NewDecoder(res.Body).Decode(&wire); decodeErr == nil {
			apiErr.Category = wire.Error
			apiErr.Message = wire.Message
			apiErr.Details = wire.Details
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decoding response: %w", err)
		}
	}
	return nil
}
