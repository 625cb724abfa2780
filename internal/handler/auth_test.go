package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alfred-agent/alfred/internal/auth"
	"github.com/alfred-agent/alfred/internal/handler"
	"github.com/alfred-agent/alfred/internal/repository/sqlite"
	"github.com/alfred-agent/alfred/internal/service"
)

// testEnv wires the real stack — sqlite :memory:, bcrypt at min cost, a
// real TokenService — behind a chi router with the same routes the server
// registers. Only the HTTP listener is missing.
type testEnv struct {
	router *chi.Mux
	tokens *auth.TokenService
	db     *sqlite.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: "test-secret-at-least-16-chars!!",
		Issuer: "alfred-test",
		Expiry: time.Hour,
	})
	require.NoError(t, err)

	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	authSvc := service.NewAuthService(db, tokens, passwords, logger)
	jobSvc := service.NewJobService(db, logger)

	authHandler := handler.NewAuthHandler(authSvc, logger)
	jobHandler := handler.NewJobHandler(jobSvc, db, logger)

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.HandleRegister)
	r.Post("/auth/login", authHandler.HandleLogin)
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/jobs/history", jobHandler.HandleHistory)
	})

	return &testEnv{router: r, tokens: tokens, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func creds(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

// =========================================================================
// REGISTER
// =========================================================================

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/auth/register", "", creds("a@x.com", "pw123"))
	require.Equal(t, http.StatusOK, rr.Code)

	res := decode[service.AuthResult](t, rr)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, "a@x.com", res.Email)
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/auth/register", "", creds("a@x.com", "pw123"))
	require.Equal(t, http.StatusOK, first.Code)

	second := env.do(t, http.MethodPost, "/auth/register", "", creds("a@x.com", "other"))
	require.Equal(t, http.StatusBadRequest, second.Code)

	body := decode[handler.ErrorResponse](t, second)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, "Email already registered", body.Message)
}

func TestRegister_ValidationFailures(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"missing email", creds("", "pw123"), "email"},
		{"bad email", creds("not-an-address", "pw123"), "email"},
		{"missing password", creds("a@x.com", ""), "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/auth/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			body := decode[handler.ErrorResponse](t, rr)
			assert.Equal(t, "Validation Failed", body.Error)
			assert.Contains(t, body.Details, tc.field)
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"email":`))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[handler.ErrorResponse](t, rr)
	assert.Equal(t, "Bad Request", body.Error)
}

// =========================================================================
// LOGIN
// =========================================================================

func TestLogin_WrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK,
		env.do(t, http.MethodPost, "/auth/register", "", creds("a@x.com", "pw123")).Code)

	wrongPw := env.do(t, http.MethodPost, "/auth/login", "", creds("a@x.com", "wrong"))
	unknown := env.do(t, http.MethodPost, "/auth/login", "", creds("nobody@x.com", "pw123"))

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)

	a := decode[handler.ErrorResponse](t, wrongPw)
	b := decode[handler.ErrorResponse](t, unknown)
	assert.Equal(t, "Unauthorized", a.Error)
	assert.Equal(t, a, b, "the two failure modes must be indistinguishable")
}

// =========================================================================
// END TO END (register → history → login)
// =========================================================================

func TestEndToEnd_RegisterHistoryLogin(t *testing.T) {
	env := newTestEnv(t)

	// Register returns a working token.
	reg := env.do(t, http.MethodPost, "/auth/register", "", creds("a@x.com", "pw123"))
	require.Equal(t, http.StatusOK, reg.Code)
	regRes := decode[service.AuthResult](t, reg)
	require.NotEmpty(t, regRes.Token)

	// History with that token: empty list, total 0.
	hist := env.do(t, http.MethodGet, "/api/jobs/history", regRes.Token, nil)
	require.Equal(t, http.StatusOK, hist.Code)
	histRes := decode[service.HistoryResult](t, hist)
	assert.Equal(t, 0, histRes.Total)
	assert.NotNil(t, histRes.Jobs)
	assert.Len(t, histRes.Jobs, 0)

	// Wrong password: 401.
	bad := env.do(t, http.MethodPost, "/auth/login", "", creds("a@x.com", "wrong"))
	require.Equal(t, http.StatusUnauthorized, bad.Code)

	// Correct login: token subject resolves to the registered user.
	good := env.do(t, http.MethodPost, "/auth/login", "", creds("a@x.com", "pw123"))
	require.Equal(t, http.StatusOK, good.Code)
	loginRes := decode[service.AuthResult](t, good)

	sub, err := env.tokens.Subject(loginRes.Token)
	require.NoError(t, err)
	assert.Equal(t, regRes.UserID, sub)
}

func TestHistory_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/jobs/history", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHistory_PrincipalWithoutUserRowIs500(t *testing.T) {
	env := newTestEnv(t)

	// A validly signed token for an email that was never registered —
	// the account-deleted-after-issuance case.
	ghost, err := env.tokens.Issue("user-ghost", "ghost@x.com")
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/api/jobs/history", ghost, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	body := decode[handler.ErrorResponse](t, rr)
	assert.Equal(t, "Internal Server Error", body.Error)
	// Generic message only — no internal detail.
	assert.Equal(t, "An unexpected error occurred", body.Message)
}
