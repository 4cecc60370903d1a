package service

import (
	"context"
	"errors"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

const MinPasswordLength = 8

var (
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrNoPasswordSet        = errors.New("account has no password set")
)

// LinkedAccountView is the safe projection of a provider binding; OAuth
// tokens never leave the service layer.
type LinkedAccountView struct {
	ID                string `json:"id"`
	Provider          string `json:"provider"`
	ProviderAccountID string `json:"provider_account_id"`
	Type              string `json:"type"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile requires both fields and rejects an email already used
	// by a different user; keeping one's own email is allowed.
	UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	CompleteSetup(ctx context.Context, userID, name string) (*domain.User, error)
	ListLinkedAccounts(ctx context.Context, userID string) ([]LinkedAccountView, error)
	DisconnectAccount(ctx context.Context, userID, provider string) error
	SetAvatar(ctx context.Context, userID string, avatarURL *string) (*domain.User, error)
}

type profileService struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
}

func NewProfileService(users repository.UserRepository, accounts repository.AccountRepository) ProfileService {
	return &profileService{users: users, accounts: accounts}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(email)
	if err == nil && existing.ID != userID {
		observability.RecordUserProfileEvent(ctx, "email_in_use")
		return nil, repository.ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if err := s.users.UpdateProfile(userID, name, email); err != nil {
		return nil, err
	}
	observability.RecordUserProfileEvent(ctx, "updated")
	return s.users.FindByID(userID)
}

func (s *profileService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		observability.RecordUserProfileEvent(ctx, "no_password_set")
		return ErrNoPasswordSet
	}
	if !security.CheckPassword(*user.PasswordHash, currentPassword) {
		observability.RecordUserProfileEvent(ctx, "wrong_current_password")
		return ErrWrongCurrentPassword
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return err
	}
	observability.RecordUserProfileEvent(ctx, "password_changed")
	return nil
}

func (s *profileService) CompleteSetup(ctx context.Context, userID, name string) (*domain.User, error) {
	if err := s.users.UpdateName(userID, name); err != nil {
		return nil, err
	}
	observability.RecordUserProfileEvent(ctx, "setup_completed")
	return s.users.FindByID(userID)
}

func (s *profileService) ListLinkedAccounts(ctx context.Context, userID string) ([]LinkedAccountView, error) {
	accounts, err := s.accounts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	views := make([]LinkedAccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, LinkedAccountView{
			ID:                a.ID,
			Provider:          a.Provider,
			ProviderAccountID: a.ProviderAccountID,
			Type:              a.Type,
		})
	}
	return views, nil
}

// DisconnectAccount refuses when the user has one or fewer linked
// accounts, regardless of whether a password is set.
func (s *profileService) DisconnectAccount(ctx context.Context, userID, provider string) error {
	if err := s.accounts.DeleteIfNotLast(userID, provider); err != nil {
		return err
	}
	observability.RecordUserProfileEvent(ctx, "account_disconnected")
	return nil
}

func (s *profileService) SetAvatar(ctx context.Context, userID string, avatarURL *string) (*domain.User, error) {
	if err := s.users.UpdateImage(userID, avatarURL); err != nil {
		return nil, err
	}
	observability.RecordUserProfileEvent(ctx, "avatar_updated")
	return s.users.FindByID(userID)
}
