package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
)

func TestAuthEndpointsAreRateLimited(t *testing.T) {
	baseURL, client, _, closeFn := newTestServerWithOptions(t, testServerOptions{
		authLimiter: middleware.NewRateLimiter(3, time.Minute),
	})
	defer closeFn()

	body := map[string]string{"email": "limited@example.com", "password": "whatever-pass-1"}

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", body, nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("request %d was limited before the window filled", i+1)
		}
	}

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the window filled, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("expected RATE_LIMITED, got %#v", env.Error)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header on the limited response")
	}
}

func TestRateLimitDoesNotSpanEndpointsUnevenly(t *testing.T) {
	baseURL, client, _, closeFn := newTestServerWithOptions(t, testServerOptions{
		authLimiter: middleware.NewRateLimiter(2, time.Minute),
	})
	defer closeFn()

	// The anonymous limiter keys on client IP, so different auth endpoints
	// share one window.
	doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{"email": "a@example.com", "password": "whatever-pass-1"}, nil)
	doJSON(t, client, http.MethodPost, baseURL+"/api/auth/reset-password", map[string]string{"email": "a@example.com"}, nil)

	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{"email": "a@example.com", "password": "whatever-pass-1"}, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected shared window to be exhausted, got %d", resp.StatusCode)
	}

	// Unlimited routes stay reachable.
	resp, _ = doJSON(t, client, http.MethodGet, baseURL+"/healthz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz should not be limited, got %d", resp.StatusCode)
	}
}
