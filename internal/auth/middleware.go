package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the principal stored in a request
// context.
type contextKey string

const principalKey contextKey = "principal"

// RequireAuth enforces bearer-token authentication on protected routes.
//
// It reads the Authorization header ("Bearer <token>"), verifies the token,
// and stores the email claim — the authenticated principal — in the request
// context. A missing, malformed, or invalid token terminates the request
// with 401 before the handler runs.
//
// The principal is the EMAIL, not the user ID: downstream handlers resolve
// email → user row themselves, which is also how a deleted-after-issuance
// account is detected (see the job history handler).
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			if err := tokens.Verify(tokenStr); err != nil {
				unauthorized(w)
				return
			}

			// Safe after Verify: Email only fails on unverifiable input.
			email, err := tokens.Email(tokenStr)
			if err != nil || email == "" {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal's email.
// Returns ("", false) on routes that didn't pass through RequireAuth.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(principalKey).(string)
	return email, ok && email != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized","message":"Valid authentication required"}`))
}
