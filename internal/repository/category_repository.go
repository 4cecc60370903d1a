package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name already in use")
)

type CategoryRepository interface {
	Create(category *domain.Category) error
	ListByUser(userID string) ([]domain.Category, error)
	FindByIDForUser(id, userID string) (*domain.Category, error)
	Update(category *domain.Category) error
	// DeleteForUser detaches the category from its notes before removing it.
	DeleteForUser(id, userID string) error
}

type GormCategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *domain.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

func (r *GormCategoryRepository) ListByUser(userID string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Where("user_id = ?", userID).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) FindByIDForUser(id, userID string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) Update(category *domain.Category) error {
	res := r.db.Model(&domain.Category{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]any{"name": category.Name, "color": category.Color})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrCategoryExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *GormCategoryRepository) DeleteForUser(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Note{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}
