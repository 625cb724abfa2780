// Package handler contains the HTTP layer: request parsing, auth forms,
// and the error-to-status mapping in response.go. Handlers call services
// and never touch the database directly.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alfred-agent/alfred/internal/apperror"
	"github.com/alfred-agent/alfred/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// credentialsRequest is the body of both auth endpoints.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validate enforces the request-shape rules: both fields present and the
// email roughly email-shaped. Password strength is not policed here.
func (r *credentialsRequest) validate() map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(r.Email) == "" {
		details["email"] = "email is required"
	} else if !strings.Contains(r.Email, "@") {
		details["email"] = "email must be a valid address"
	}
	if r.Password == "" {
		details["password"] = "password is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// HandleRegister creates an account and returns the session bundle.
//
// HTTP: POST /auth/register
// 200 {token, userId, email, expiresIn} | 400 duplicate email or validation
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logWarn(r, "register failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleLogin verifies credentials and returns the session bundle.
//
// HTTP: POST /auth/login
// 200 {token, userId, email, expiresIn} | 401 bad credentials
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logWarn(r, "login failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decodeCredentials parses and validates the request body, writing the
// error response itself when something is off. Returns ok=false if the
// handler should stop.
func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid JSON body",
		})
		return nil, false
	}

	if details := req.validate(); details != nil {
		writeError(w, apperror.ValidationFailed(details))
		return nil, false
	}

	return &req, true
}

func (h *AuthHandler) logWarn(r *http.Request, msg string, err error) {
	h.logger.Warn(msg,
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}
