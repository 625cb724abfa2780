package handler

// RESPONSE HELPERS:
// Every handler sends JSON through writeJSON and maps domain errors to HTTP
// through writeError, so the API's error shape is consistent everywhere:
//
//	{"error": "<category>", "message": "<human string>", "details": {...}?}
//
// Category strings are fixed: "Unauthorized" (401), "Bad Request" (400),
// "Validation Failed" (400, with per-field details), and
// "Internal Server Error" (500). The 500 body is always generic — internal
// error text never crosses the boundary.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfred-agent/alfred/internal/apperror"
)

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// writeJSON sends data with the given status. Headers and status must be
// written before the body — Encode's first write flushes them.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already out; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into its fixed status and category.
//
// The service layer returns apperror kinds; errors.Is walks the wrapped
// chain to find which one. Anything unrecognized — including
// apperror.ErrInternal, which deliberately has the same client-facing shape
// as an unknown failure — becomes a generic 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		var appErr *apperror.AppError
		details := map[string]string(nil)
		message := "Invalid request data"
		if errors.As(err, &appErr) {
			details = appErr.Details
			message = appErr.Message
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Failed",
			Message: message,
			Details: details,
		})

	case errors.Is(err, apperror.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: "Email already registered",
		})

	case errors.Is(err, apperror.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid email or password",
		})

	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An unexpected error occurred",
		})
	}
}
