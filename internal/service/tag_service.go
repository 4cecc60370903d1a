package service

import (
	"context"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
)

type TagService interface {
	Create(ctx context.Context, userID, name string) (*domain.Tag, error)
	List(ctx context.Context, userID string) ([]domain.Tag, error)
	Delete(ctx context.Context, userID, id string) error
}

type tagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) Create(ctx context.Context, userID, name string) (*domain.Tag, error) {
	tag := &domain.Tag{UserID: userID, Name: name}
	if err := s.tags.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context, userID string) ([]domain.Tag, error) {
	return s.tags.ListByUser(userID)
}

func (s *tagService) Delete(ctx context.Context, userID, id string) error {
	return s.tags.DeleteForUser(id, userID)
}
