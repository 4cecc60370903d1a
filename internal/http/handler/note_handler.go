package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

type NoteHandler struct {
	noteSvc service.NoteService
}

func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

type noteRequest struct {
	Title      string   `json:"title" validate:"required,max=500"`
	Content    string   `json:"content"`
	Mode       string   `json:"mode" validate:"required,oneof=dump document"`
	CategoryID *string  `json:"category_id"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=50"`
}

func (req *noteRequest) toInput() service.NoteInput {
	return service.NoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Mode:       domain.NoteMode(req.Mode),
		CategoryID: req.CategoryID,
		TagNames:   req.Tags,
	}
}

type notePage struct {
	Items      []domain.Note `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func toNotePage(result repository.PageResult[domain.Note]) notePage {
	return notePage{
		Items:      result.Items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
}

func pageRequestFromQuery(r *http.Request) repository.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return repository.PageRequest{Page: page, PageSize: pageSize}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req noteRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid note payload", details)
		return
	}

	note, err := h.noteSvc.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, note)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	note, err := h.noteSvc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	query := repository.NoteListQuery{
		PageRequest: pageRequestFromQuery(r),
		Mode:        domain.NoteMode(r.URL.Query().Get("mode")),
		CategoryID:  r.URL.Query().Get("category_id"),
		Tag:         r.URL.Query().Get("tag"),
	}
	if query.Mode != "" && !query.Mode.Valid() {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "mode must be dump or document", nil)
		return
	}

	result, err := h.noteSvc.List(r.Context(), userID, query)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list notes", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, toNotePage(result))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	var req noteRequest
	if details, err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid note payload", details)
		return
	}

	note, err := h.noteSvc.Update(r.Context(), userID, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeNoteError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	if err := h.noteSvc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeNoteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session", nil)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "q query parameter is required", nil)
		return
	}

	result, err := h.noteSvc.Search(r.Context(), userID, q, pageRequestFromQuery(r))
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "search failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, toNotePage(result))
}

func writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidNoteMode):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "mode must be dump or document", nil)
	case errors.Is(err, repository.ErrCategoryNotFound):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "category does not exist", nil)
	case errors.Is(err, repository.ErrNoteNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "note not found", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "note operation failed", nil)
	}
}
