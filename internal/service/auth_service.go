package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

var (
	ErrEmailExists = errors.New("an account with this email already exists")
	// ErrInvalidCredentials deliberately covers "no such user", "no password
	// set" and "wrong password" so responses cannot be used for enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrVerificationEmailFailed means the user and token were persisted but
	// the email could not be delivered; the resend endpoint covers retry.
	ErrVerificationEmailFailed = errors.New("verification email could not be sent")
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	ResendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) (string, error)
	AuthenticateCredentials(ctx context.Context, email, password string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, secret, newPassword string) error
	OAuthURL(provider, state string) (string, error)
	CompleteOAuth(ctx context.Context, provider, code string) (user *domain.User, newUser bool, err error)
}

type authService struct {
	users     repository.UserRepository
	tokens    TokenService
	linker    AccountLinker
	providers OAuthProviderSet
}

func NewAuthService(users repository.UserRepository, tokens TokenService, linker AccountLinker, providers OAuthProviderSet) AuthService {
	return &authService{users: users, tokens: tokens, linker: linker, providers: providers}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		observability.RecordAuthEvent(ctx, "register", "email_exists")
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Email: email, PasswordHash: &hash}
	if name != "" {
		user.Name = &name
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			observability.RecordAuthEvent(ctx, "register", "email_exists")
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if _, err := s.tokens.IssueVerificationToken(ctx, email); err != nil {
		// The user row stays committed: registration surfaces the delivery
		// failure and the user retries through the resend endpoint.
		observability.RecordAuthEvent(ctx, "register", "email_send_failed")
		return user, fmt.Errorf("%w: %w", ErrVerificationEmailFailed, err)
	}
	observability.RecordAuthEvent(ctx, "register", "success")
	return user, nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if user.EmailVerified != nil {
		observability.RecordAuthEvent(ctx, "resend_verification", "already_verified")
		return nil
	}
	if _, err := s.tokens.IssueVerificationToken(ctx, email); err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationEmailFailed, err)
	}
	observability.RecordAuthEvent(ctx, "resend_verification", "sent")
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	return s.tokens.ConsumeVerificationToken(ctx, token)
}

func (s *authService) AuthenticateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "login", "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		observability.RecordAuthEvent(ctx, "login", "no_password")
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(*user.PasswordHash, password) {
		observability.RecordAuthEvent(ctx, "login", "wrong_password")
		return nil, ErrInvalidCredentials
	}
	observability.RecordAuthEvent(ctx, "login", "success")
	return user, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(email); err != nil {
		return err
	}
	if _, err := s.tokens.IssueResetToken(ctx, email); err != nil {
		return err
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	_, err := s.tokens.ConsumeResetToken(ctx, secret, newPassword)
	return err
}

func (s *authService) OAuthURL(provider, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

func (s *authService) CompleteOAuth(ctx context.Context, provider, code string) (*domain.User, bool, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, false, err
	}
	identity, err := p.Exchange(ctx, code)
	if err != nil {
		observability.RecordAuthEvent(ctx, "oauth_callback", "exchange_failed")
		return nil, false, err
	}
	return s.linker.Link(ctx, identity)
}
