package service

import (
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

// SessionService mints the stateless session token and re-issues it after
// profile mutations so the updated identity is visible on the very next
// read, with no propagation delay.
type SessionService interface {
	Mint(user *domain.User) (string, error)
	// Refresh re-reads the user and signs a fresh token carrying the
	// current profile fields.
	Refresh(userID string) (string, *domain.User, error)
	TTL() time.Duration
}

type sessionService struct {
	users  repository.UserRepository
	tokens *security.TokenManager
	ttl    time.Duration
}

func NewSessionService(users repository.UserRepository, tokens *security.TokenManager, ttl time.Duration) SessionService {
	return &sessionService{users: users, tokens: tokens, ttl: ttl}
}

func (s *sessionService) Mint(user *domain.User) (string, error) {
	var name, image string
	if user.Name != nil {
		name = *user.Name
	}
	if user.Image != nil {
		image = *user.Image
	}
	return s.tokens.SignSession(user.ID, user.Email, name, image, s.ttl)
}

func (s *sessionService) Refresh(userID string) (string, *domain.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return "", nil, err
	}
	token, err := s.Mint(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *sessionService) TTL() time.Duration { return s.ttl }
