package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfred-agent/alfred/internal/apperror"
	"github.com/alfred-agent/alfred/internal/auth"
	"github.com/alfred-agent/alfred/internal/repository"
	"github.com/alfred-agent/alfred/internal/service"
)

// JobHandler serves the job-history endpoint.
//
// It needs the user repository as well as the job service: the auth
// middleware authenticates an EMAIL (the token's principal claim), and
// job rows are keyed by user ID, so the handler resolves one to the other
// per request.
type JobHandler struct {
	jobs   *service.JobService
	users  repository.UserRepository
	logger *slog.Logger
}

func NewJobHandler(jobs *service.JobService, users repository.UserRepository, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, users: users, logger: logger}
}

// HandleHistory returns the authenticated user's jobs, newest first.
//
// HTTP: GET /api/jobs/history
// Auth: required (RequireAuth middleware)
// 200 {jobs: [...], total} | 401 without a valid token | 500 if the
// principal no longer maps to a stored user
//
// That last case — a verified token whose email has no user row — means
// the account vanished between token issuance and use. The client did
// nothing wrong, so it is a 500 with the generic body, not a 401; the real
// cause goes to the log only.
func (h *JobHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't serve anyone's data
		// if the wiring is ever wrong.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "Valid authentication required",
		})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.logger.Error("authenticated user not found",
				slog.String("email", email),
			)
			writeError(w, apperror.Internal("authenticated user not found"))
			return
		}
		h.logger.Error("user lookup failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	history, err := h.jobs.History(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
