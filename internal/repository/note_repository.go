package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteListQuery struct {
	PageRequest
	Mode       domain.NoteMode
	CategoryID string
	Tag        string
}

type NoteRepository interface {
	Create(note *domain.Note) error
	FindByIDForUser(id, userID string) (*domain.Note, error)
	ListByUser(userID string, query NoteListQuery) (PageResult[domain.Note], error)
	Update(note *domain.Note) error
	ReplaceTags(note *domain.Note, tags []domain.Tag) error
	DeleteForUser(id, userID string) error
	// Search matches title, content and tag names case-insensitively,
	// newest first.
	Search(userID, q string, page PageRequest) (PageResult[domain.Note], error)
}

type GormNoteRepository struct{ db *gorm.DB }

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) Create(note *domain.Note) error {
	return r.db.Create(note).Error
}

func (r *GormNoteRepository) FindByIDForUser(id, userID string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.Preload("Category").Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *GormNoteRepository) ListByUser(userID string, query NoteListQuery) (PageResult[domain.Note], error) {
	page := normalizePageRequest(query.PageRequest)

	q := r.db.Model(&domain.Note{}).Where("notes.user_id = ?", userID)
	if query.Mode != "" {
		q = q.Where("notes.mode = ?", query.Mode)
	}
	if query.CategoryID != "" {
		q = q.Where("notes.category_id = ?", query.CategoryID)
	}
	if tag := strings.ToLower(strings.TrimSpace(query.Tag)); tag != "" {
		q = q.Where("notes.id IN (?)", r.db.Table("note_tags").
			Select("note_tags.note_id").
			Joins("JOIN tags ON tags.id = note_tags.tag_id").
			Where("tags.name = ?", tag))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return PageResult[domain.Note]{}, err
	}

	var notes []domain.Note
	err := q.Preload("Category").Preload("Tags").
		Order("notes.created_at desc").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&notes).Error
	if err != nil {
		return PageResult[domain.Note]{}, err
	}

	return PageResult[domain.Note]{
		Items:      notes,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *GormNoteRepository) Update(note *domain.Note) error {
	res := r.db.Model(&domain.Note{}).
		Where("id = ? AND user_id = ?", note.ID, note.UserID).
		Updates(map[string]any{
			"title":       note.Title,
			"content":     note.Content,
			"mode":        note.Mode,
			"category_id": note.CategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *GormNoteRepository) ReplaceTags(note *domain.Note, tags []domain.Tag) error {
	return r.db.Model(note).Association("Tags").Replace(tags)
}

func (r *GormNoteRepository) DeleteForUser(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoteNotFound
		}
		return nil
	})
}

func (r *GormNoteRepository) Search(userID, q string, page PageRequest) (PageResult[domain.Note], error) {
	page = normalizePageRequest(page)
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"

	base := r.db.Model(&domain.Note{}).
		Where("notes.user_id = ?", userID).
		Where(
			r.db.Where("LOWER(notes.title) LIKE ?", pattern).
				Or("LOWER(notes.content) LIKE ?", pattern).
				Or("notes.id IN (?)", r.db.Table("note_tags").
					Select("note_tags.note_id").
					Joins("JOIN tags ON tags.id = note_tags.tag_id").
					Where("tags.name LIKE ?", pattern)),
		)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return PageResult[domain.Note]{}, err
	}

	var notes []domain.Note
	err := base.Preload("Category").Preload("Tags").
		Order("notes.created_at desc").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&notes).Error
	if err != nil {
		return PageResult[domain.Note]{}, err
	}

	return PageResult[domain.Note]{
		Items:      notes,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}
