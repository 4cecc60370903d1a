package service

import (
	"context"
	"errors"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
)

var ErrInvalidNoteMode = errors.New("note mode must be dump or document")

type NoteInput struct {
	Title      string
	Content    string
	Mode       domain.NoteMode
	CategoryID *string
	TagNames   []string
}

type NoteService interface {
	Create(ctx context.Context, userID string, input NoteInput) (*domain.Note, error)
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	List(ctx context.Context, userID string, query repository.NoteListQuery) (repository.PageResult[domain.Note], error)
	Update(ctx context.Context, userID, noteID string, input NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	Search(ctx context.Context, userID, q string, page repository.PageRequest) (repository.PageResult[domain.Note], error)
}

type noteService struct {
	notes      repository.NoteRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
}

func NewNoteService(notes repository.NoteRepository, categories repository.CategoryRepository, tags repository.TagRepository) NoteService {
	return &noteService{notes: notes, categories: categories, tags: tags}
}

func (s *noteService) Create(ctx context.Context, userID string, input NoteInput) (*domain.Note, error) {
	if !input.Mode.Valid() {
		return nil, ErrInvalidNoteMode
	}
	if err := s.checkCategory(userID, input.CategoryID); err != nil {
		return nil, err
	}
	tagRows, err := s.tags.EnsureByNames(userID, input.TagNames)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID:     userID,
		Mode:       input.Mode,
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		Tags:       tagRows,
	}
	if err := s.notes.Create(note); err != nil {
		observability.RecordNoteEvent(ctx, "create", "error")
		return nil, err
	}
	observability.RecordNoteEvent(ctx, "create", "success")
	return s.notes.FindByIDForUser(note.ID, userID)
}

func (s *noteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.notes.FindByIDForUser(noteID, userID)
}

func (s *noteService) List(ctx context.Context, userID string, query repository.NoteListQuery) (repository.PageResult[domain.Note], error) {
	return s.notes.ListByUser(userID, query)
}

func (s *noteService) Update(ctx context.Context, userID, noteID string, input NoteInput) (*domain.Note, error) {
	if !input.Mode.Valid() {
		return nil, ErrInvalidNoteMode
	}
	note, err := s.notes.FindByIDForUser(noteID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(userID, input.CategoryID); err != nil {
		return nil, err
	}

	note.Title = input.Title
	note.Content = input.Content
	note.Mode = input.Mode
	note.CategoryID = input.CategoryID
	if err := s.notes.Update(note); err != nil {
		observability.RecordNoteEvent(ctx, "update", "error")
		return nil, err
	}

	tagRows, err := s.tags.EnsureByNames(userID, input.TagNames)
	if err != nil {
		return nil, err
	}
	if err := s.notes.ReplaceTags(note, tagRows); err != nil {
		return nil, err
	}
	observability.RecordNoteEvent(ctx, "update", "success")
	return s.notes.FindByIDForUser(noteID, userID)
}

func (s *noteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.notes.DeleteForUser(noteID, userID); err != nil {
		observability.RecordNoteEvent(ctx, "delete", "error")
		return err
	}
	observability.RecordNoteEvent(ctx, "delete", "success")
	return nil
}

func (s *noteService) Search(ctx context.Context, userID, q string, page repository.PageRequest) (repository.PageResult[domain.Note], error) {
	return s.notes.Search(userID, q, page)
}

func (s *noteService) checkCategory(userID string, categoryID *string) error {
	if categoryID == nil || *categoryID == "" {
		return nil
	}
	_, err := s.categories.FindByIDForUser(*categoryID, userID)
	return err
}
