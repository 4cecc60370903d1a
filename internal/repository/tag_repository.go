package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag name already in use")
)

type TagRepository interface {
	Create(tag *domain.Tag) error
	ListByUser(userID string) ([]domain.Tag, error)
	// EnsureByNames resolves tag names to rows, creating any that are missing.
	EnsureByNames(userID string, names []string) ([]domain.Tag, error)
	DeleteForUser(id, userID string) error
}

type GormTagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) Create(tag *domain.Tag) error {
	tag.Name = normalizeTagName(tag.Name)
	if err := r.db.Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTagExists
		}
		return err
	}
	return nil
}

func (r *GormTagRepository) ListByUser(userID string) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.Where("user_id = ?", userID).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTagRepository) EnsureByNames(userID string, names []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := normalizeTagName(name)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		var tag domain.Tag
		err := r.db.Where(domain.Tag{UserID: userID, Name: normalized}).FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *GormTagRepository) DeleteForUser(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag domain.Tag
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM note_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
