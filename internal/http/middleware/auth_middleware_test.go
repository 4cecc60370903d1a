package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

func claimsEcho(t *testing.T, wantSubject string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims on context")
		}
		if claims.Subject != wantSubject {
			t.Fatalf("expected subject %q, got %q", wantSubject, claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession(t *testing.T) {
	tokens := security.NewTokenManager("dump-pad", "dump-pad-web", "session-secret-0123456789abcdef", "email-secret-0123456789abcdef")
	mw := RequireSession(tokens)

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		mw(claimsEcho(t, "")).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := tokens.SignSession("u1", "alice@x.com", "Alice", "", time.Hour)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: token})
		mw(claimsEcho(t, "u1")).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("valid bearer header", func(t *testing.T) {
		token, err := tokens.SignSession("u2", "bob@x.com", "", "", time.Hour)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mw(claimsEcho(t, "u2")).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := tokens.SignSession("u1", "alice@x.com", "", "", -time.Minute)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: token})
		mw(claimsEcho(t, "")).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: "garbage"})
		mw(claimsEcho(t, "")).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})
}
