package integration

import (
	"net/http"
	"testing"
)

func TestRegisterVerifyLoginFlow(t *testing.T) {
	baseURL, client, mailer, closeFn := newTestServer(t)
	defer closeFn()

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse-1",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d (error=%#v)", resp.StatusCode, env.Error)
	}

	token := linkToken(t, mailer.lastVerificationLink(t))
	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/verify-email", map[string]string{"token": token}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}
	var verified struct {
		Email string `json:"email"`
	}
	decodeData(t, env, &verified)
	if verified.Email != "ada@example.com" {
		t.Fatalf("unexpected verified email: %q", verified.Email)
	}

	// The verification link is single use.
	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/verify-email", map[string]string{"token": token}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("token reuse: expected 400, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "INVALID_OR_EXPIRED_TOKEN" {
		t.Fatalf("token reuse: expected INVALID_OR_EXPIRED_TOKEN, got %#v", env.Error)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct-horse-1",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}

	resp, env = doJSON(t, client, http.MethodGet, baseURL+"/api/auth/session", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}
	var session struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decodeData(t, env, &session)
	if session.Email != "ada@example.com" || session.Name != "Ada" {
		t.Fatalf("unexpected session identity: %+v", session)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	baseURL, client, mailer, closeFn := newTestServer(t)
	defer closeFn()

	registerAndLogin(t, client, baseURL, "bob@example.com", "correct-horse-1", mailer)

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "wrong-horse-99",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %#v", env.Error)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, client, mailer, closeFn := newTestServer(t)
	defer closeFn()

	registerAndLogin(t, client, baseURL, "dup@example.com", "correct-horse-1", mailer)

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"email":    "dup@example.com",
		"password": "another-pass-22",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST, got %#v", env.Error)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	baseURL, client, mailer, closeFn := newTestServer(t)
	defer closeFn()

	registerAndLogin(t, client, baseURL, "carol@example.com", "original-pass-1", mailer)

	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/reset-password", map[string]string{
		"email": "carol@example.com",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot: expected 200, got %d", resp.StatusCode)
	}

	// Unknown addresses get the same answer.
	resp, _ = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/reset-password", map[string]string{
		"email": "nobody@example.com",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot unknown: expected 200, got %d", resp.StatusCode)
	}

	token := linkToken(t, mailer.lastResetLink(t))
	resp, env := doJSON(t, client, http.MethodPut, baseURL+"/api/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": "replacement-pass-2",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}

	// The reset token is single use.
	resp, env = doJSON(t, client, http.MethodPut, baseURL+"/api/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": "yet-another-pass-3",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("reset reuse: expected 400, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "INVALID_OR_EXPIRED_TOKEN" {
		t.Fatalf("reset reuse: expected INVALID_OR_EXPIRED_TOKEN, got %#v", env.Error)
	}

	resp, _ = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    "carol@example.com",
		"password": "original-pass-1",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", resp.StatusCode)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email":    "carol@example.com",
		"password": "replacement-pass-2",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new password: expected 200, got %d (error=%#v)", resp.StatusCode, env.Error)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	baseURL, client, _, closeFn := newTestServer(t)
	defer closeFn()

	for _, path := range []string{"/api/user/profile", "/api/notes/", "/api/categories/", "/api/auth/session"} {
		resp, env := doJSON(t, client, http.MethodGet, baseURL+path, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("%s: expected UNAUTHORIZED, got %#v", path, env.Error)
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	baseURL, client, mailer, closeFn := newTestServer(t)
	defer closeFn()

	registerAndLogin(t, client, baseURL, "dave@example.com", "correct-horse-1", mailer)

	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/logout", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodGet, baseURL+"/api/auth/session", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("session after logout: expected 401, got %d", resp.StatusCode)
	}
}
