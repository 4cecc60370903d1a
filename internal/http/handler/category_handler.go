package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

type categoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"max=32"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req categoryRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid category payload", details)
		return
	}

	category, err := h.categorySvc.Create(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeCategoryError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	categories, err := h.categorySvc.List(r.Context(), userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list categories", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req categoryRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid category payload", details)
		return
	}

	category, err := h.categorySvc.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Name, req.Color)
	if err != nil {
		writeCategoryError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	if err := h.categorySvc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeCategoryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCategoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrCategoryExists):
		response.Error(w, r, http.StatusBadRequest, "CONFLICT", "a category with this name already exists", nil)
	case errors.Is(err, repository.ErrCategoryNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "category not found", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "category operation failed", nil)
	}
}
