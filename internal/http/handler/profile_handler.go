package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

const avatarFormLimit = 6 * 1024 * 1024 // slightly above the stored object limit

type ProfileHandler struct {
	profileSvc service.ProfileService
	sessionSvc service.SessionService
	storageSvc service.StorageService
	cookies    *security.CookieManager
}

func NewProfileHandler(profileSvc service.ProfileService, sessionSvc service.SessionService, storageSvc service.StorageService, cookies *security.CookieManager) *ProfileHandler {
	return &ProfileHandler{
		profileSvc: profileSvc,
		sessionSvc: sessionSvc,
		storageSvc: storageSvc,
		cookies:    cookies,
	}
}

func currentUserID(r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return "", false
	}
	return claims.Subject, true
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	user, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req updateProfileRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "name and email are required", details)
		return
	}

	user, err := h.profileSvc.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			response.Error(w, r, http.StatusBadRequest, "CONFLICT", "this email is already in use", nil)
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update profile", nil)
		}
		return
	}

	// Re-issue the session so the new name/email are in the very next
	// token instead of surfacing only when the old one expires.
	token, _, err := h.sessionSvc.Refresh(userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "profile updated but session refresh failed", nil)
		return
	}
	h.cookies.SetSessionCookie(w, token, h.sessionSvc.TTL())
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req changePasswordRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "current and new password are required", details)
		return
	}

	if err := h.profileSvc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongCurrentPassword):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "current password is incorrect", nil)
		case errors.Is(err, service.ErrPasswordTooShort):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "new password is too short", nil)
		case errors.Is(err, service.ErrNoPasswordSet):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "this account uses social sign-in only", nil)
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to change password", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "password changed"})
}

type setupRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (h *ProfileHandler) CompleteSetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req setupRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "name is required", details)
		return
	}

	user, err := h.profileSvc.CompleteSetup(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to complete setup", nil)
		return
	}

	token, _, err := h.sessionSvc.Refresh(userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "setup saved but session refresh failed", nil)
		return
	}
	h.cookies.SetSessionCookie(w, token, h.sessionSvc.TTL())
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *ProfileHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	views, err := h.profileSvc.ListLinkedAccounts(r.Context(), userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list linked accounts", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, views)
}

func (h *ProfileHandler) DisconnectAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	provider := strings.TrimSpace(r.URL.Query().Get("provider"))
	if provider == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "provider query parameter is required", nil)
		return
	}

	if err := h.profileSvc.DisconnectAccount(r.Context(), userID, provider); err != nil {
		switch {
		case errors.Is(err, repository.ErrLastLinkedMethod):
			response.Error(w, r, http.StatusBadRequest, "CONFLICT", "cannot disconnect the last linked account", nil)
		case errors.Is(err, repository.ErrAccountNotFound):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "no linked account for this provider", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to disconnect account", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, avatarFormLimit)
	if err := r.ParseMultipartForm(avatarFormLimit); err != nil {
		response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "avatar upload too large", nil)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "avatar file is required", nil)
		return
	}
	defer file.Close()

	objectKey, err := h.storageSvc.UploadAvatar(r.Context(), userID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooBig):
			response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "avatar exceeds the 5MB limit", nil)
		case errors.Is(err, service.ErrInvalidFileType):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "only JPEG and PNG images are allowed", nil)
		case errors.Is(err, service.ErrStorageDisabled):
			response.Error(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "avatar storage is not configured", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to store avatar", nil)
		}
		return
	}

	avatarURL, err := h.storageSvc.GenerateAvatarURL(r.Context(), objectKey)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to generate avatar url", nil)
		return
	}

	user, err := h.profileSvc.SetAvatar(r.Context(), userID, &objectKey)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to save avatar", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"user":       user,
		"avatar_url": avatarURL,
	})
}

func (h *ProfileHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}

	user, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile", nil)
		return
	}
	if user.Image != nil {
		if err := h.storageSvc.DeleteAvatar(r.Context(), userID, *user.Image); err != nil && !errors.Is(err, service.ErrUnauthorizedAccess) {
			if errors.Is(err, service.ErrStorageDisabled) {
				response.Error(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "avatar storage is not configured", nil)
				return
			}
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete avatar", nil)
			return
		}
	}
	if _, err := h.profileSvc.SetAvatar(r.Context(), userID, nil); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to clear avatar", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
