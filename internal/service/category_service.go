package service

import (
	"context"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
)

type CategoryService interface {
	Create(ctx context.Context, userID, name, color string) (*domain.Category, error)
	List(ctx context.Context, userID string) ([]domain.Category, error)
	Update(ctx context.Context, userID, id, name, color string) (*domain.Category, error)
	Delete(ctx context.Context, userID, id string) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) Create(ctx context.Context, userID, name, color string) (*domain.Category, error) {
	category := &domain.Category{UserID: userID, Name: name, Color: color}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, userID string) ([]domain.Category, error) {
	return s.categories.ListByUser(userID)
}

func (s *categoryService) Update(ctx context.Context, userID, id, name, color string) (*domain.Category, error) {
	category := &domain.Category{ID: id, UserID: userID, Name: name, Color: color}
	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	return s.categories.FindByIDForUser(id, userID)
}

func (s *categoryService) Delete(ctx context.Context, userID, id string) error {
	return s.categories.DeleteForUser(id, userID)
}
