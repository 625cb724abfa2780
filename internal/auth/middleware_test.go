package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// okHandler records whether it ran and with which principal.
type okHandler struct {
	called    bool
	principal string
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.principal, _ = PrincipalFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	next := &okHandler{}
	handler := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !next.called {
		t.Fatal("next handler was not called")
	}
	if next.principal != "a@x.com" {
		t.Errorf("principal = %q, want %q", next.principal, "a@x.com")
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)
	expired, _ := ts.IssueWithExpiry("user-1", "a@x.com", -time.Second)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer scheme", "Basic dXNlcjpwdw=="},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := &okHandler{}
			handler := RequireAuth(ts)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/jobs/history", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
			if next.called {
				t.Error("next handler should not run on an unauthorized request")
			}
		})
	}
}

func TestRequireAuth_BearerSchemeIsCaseInsensitive(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue("user-1", "a@x.com")

	next := &okHandler{}
	handler := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/history", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for lowercase scheme", rr.Code)
	}
}

func TestPrincipalFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if email, ok := PrincipalFromContext(req.Context()); ok || email != "" {
		t.Errorf("PrincipalFromContext on a bare context = (%q, %v), want (\"\", false)", email, ok)
	}
}
