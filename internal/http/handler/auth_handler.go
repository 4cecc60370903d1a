package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

type AuthHandler struct {
	authSvc     service.AuthService
	sessionSvc  service.SessionService
	cookies     *security.CookieManager
	stateSecret string
}

func NewAuthHandler(authSvc service.AuthService, sessionSvc service.SessionService, cookies *security.CookieManager, stateSecret string) *AuthHandler {
	return &AuthHandler{
		authSvc:     authSvc,
		sessionSvc:  sessionSvc,
		cookies:     cookies,
		stateSecret: stateSecret,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid registration payload", details)
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "an account with this email already exists", nil)
		case errors.Is(err, service.ErrVerificationEmailFailed):
			// The account exists; the client should direct the user to the
			// resend endpoint rather than re-registering.
			response.JSON(w, r, http.StatusCreated, map[string]interface{}{
				"user":    user,
				"message": "account created, but the verification email could not be sent; please request a resend",
			})
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "registration failed", nil)
		}
		return
	}

	response.JSON(w, r, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "account created, please check your email to verify your address",
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid login payload", details)
		return
	}

	user, err := h.authSvc.AuthenticateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}

	token, err := h.sessionSvc.Mint(user)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create session", nil)
		return
	}
	h.cookies.SetSessionCookie(w, token, h.sessionSvc.TTL())
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w)
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "signed out"})
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", details)
		return
	}

	email, err := h.authSvc.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			response.Error(w, r, http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "verification link has expired", nil)
		case errors.Is(err, service.ErrTokenInvalid):
			response.Error(w, r, http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "verification link is invalid or already used", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "verification failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{
		"email":   email,
		"message": "email verified",
	})
}

type resendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", details)
		return
	}

	// Same response whether or not the address exists.
	if err := h.authSvc.ResendVerification(r.Context(), req.Email); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not send verification email", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{
		"message": "if an account exists for this address, a verification email has been sent",
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword always answers 200 so responses cannot be used to probe
// which addresses have accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", details)
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not process the reset request", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{
		"message": "if an account exists for this address, a reset email has been sent",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", details)
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrTokenInvalid) || errors.Is(err, service.ErrTokenExpired) {
			response.Error(w, r, http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "reset link is invalid or has expired", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "password reset failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "password updated, you can now sign in"})
}

func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	state, err := security.NewRandomString(24)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not start oauth flow", nil)
		return
	}
	authURL, err := h.authSvc.OAuthURL(provider, state)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown oauth provider", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not start oauth flow", nil)
		return
	}

	h.cookies.SetOAuthStateCookie(w, security.SignState(state, h.stateSecret))
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	signedState := security.GetCookie(r, security.OAuthStateCookieName)
	state, ok := security.VerifySignedState(signedState, h.stateSecret)
	h.cookies.ClearOAuthStateCookie(w)
	if !ok || state == "" || state != r.URL.Query().Get("state") {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "oauth state mismatch", nil)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing authorization code", nil)
		return
	}

	user, newUser, err := h.authSvc.CompleteOAuth(r.Context(), provider, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownProvider):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown oauth provider", nil)
		case errors.Is(err, service.ErrAccountNotLinked):
			response.Error(w, r, http.StatusBadRequest, "CONFLICT", "this provider account is already linked to another user", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "oauth sign-in failed", nil)
		}
		return
	}

	token, err := h.sessionSvc.Mint(user)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create session", nil)
		return
	}
	h.cookies.SetSessionCookie(w, token, h.sessionSvc.TTL())
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":     user,
		"new_user": newUser,
	})
}

// Session returns the identity carried by the current session token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user_id": claims.Subject,
		"email":   claims.Email,
		"name":    claims.Name,
		"image":   claims.Image,
		"expires": claims.ExpiresAt,
	})
}

// RefreshSession re-reads the profile and re-issues the session token so
// profile edits show up immediately instead of at token expiry.
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}

	token, user, err := h.sessionSvc.Refresh(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.cookies.ClearSessionCookie(w)
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "account no longer exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to refresh session", nil)
		return
	}
	h.cookies.SetSessionCookie(w, token, h.sessionSvc.TTL())
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
