package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

type contextKey string

const sessionClaimsKey contextKey = "session_claims"

// SessionToken extracts the raw session token from the cookie or, for
// non-browser clients, from a bearer Authorization header.
func SessionToken(r *http.Request) string {
	if raw := security.GetCookie(r, security.SessionCookieName); raw != "" {
		return raw
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// RequireSession rejects requests without a valid session token and puts
// the parsed claims on the request context for downstream handlers.
func RequireSession(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := SessionToken(r)
			if raw == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token", nil)
				return
			}
			claims, err := tokens.ParseSession(raw)
			if err != nil {
				if errors.Is(err, security.ErrTokenExpired) {
					response.Error(w, r, http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN", "session expired", nil)
					return
				}
				response.Error(w, r, http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN", "invalid session token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims set by RequireSession.
func ClaimsFromContext(ctx context.Context) (*security.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*security.SessionClaims)
	return claims, ok
}
