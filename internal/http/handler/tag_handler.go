package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

type TagHandler struct {
	tagSvc service.TagService
}

func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{tagSvc: tagSvc}
}

type tagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req tagRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid tag payload", details)
		return
	}

	tag, err := h.tagSvc.Create(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			response.Error(w, r, http.StatusBadRequest, "CONFLICT", "a tag with this name already exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create tag", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, tag)
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	tags, err := h.tagSvc.List(r.Context(), userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list tags", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, tags)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	if err := h.tagSvc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "tag not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete tag", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
