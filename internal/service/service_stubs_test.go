package service

import (
	"context"
	"errors"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

// Function-field stubs for repository and collaborator interfaces; any
// method a test does not configure fails loudly.

type stubUserRepository struct {
	createFn         func(user *domain.User) error
	findByIDFn       func(id string) (*domain.User, error)
	findByEmailFn    func(email string) (*domain.User, error)
	updateProfileFn  func(id, name, email string) error
	updatePasswordFn func(id, passwordHash string) error
	updateImageFn    func(id string, image *string) error
	updateNameFn     func(id, name string) error
}

func (s *stubUserRepository) Create(user *domain.User) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(user)
}

func (s *stubUserRepository) FindByID(id string) (*domain.User, error) {
	if s.findByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByIDFn(id)
}

func (s *stubUserRepository) FindByEmail(email string) (*domain.User, error) {
	if s.findByEmailFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByEmailFn(email)
}

func (s *stubUserRepository) UpdateProfile(id, name, email string) error {
	if s.updateProfileFn == nil {
		return errors.New("not implemented")
	}
	return s.updateProfileFn(id, name, email)
}

func (s *stubUserRepository) UpdatePassword(id, passwordHash string) error {
	if s.updatePasswordFn == nil {
		return errors.New("not implemented")
	}
	return s.updatePasswordFn(id, passwordHash)
}

func (s *stubUserRepository) UpdateImage(id string, image *string) error {
	if s.updateImageFn == nil {
		return errors.New("not implemented")
	}
	return s.updateImageFn(id, image)
}

func (s *stubUserRepository) UpdateName(id, name string) error {
	if s.updateNameFn == nil {
		return errors.New("not implemented")
	}
	return s.updateNameFn(id, name)
}

type stubAccountRepository struct {
	createFn                func(account *domain.Account) error
	findByProviderFn        func(provider, providerAccountID string) (*domain.Account, error)
	findByUserAndProviderFn func(userID, provider string) (*domain.Account, error)
	listByUserFn            func(userID string) ([]domain.Account, error)
	deleteIfNotLastFn       func(userID, provider string) error
}

func (s *stubAccountRepository) Create(account *domain.Account) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(account)
}

func (s *stubAccountRepository) FindByProvider(provider, providerAccountID string) (*domain.Account, error) {
	if s.findByProviderFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByProviderFn(provider, providerAccountID)
}

func (s *stubAccountRepository) FindByUserAndProvider(userID, provider string) (*domain.Account, error) {
	if s.findByUserAndProviderFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByUserAndProviderFn(userID, provider)
}

func (s *stubAccountRepository) ListByUser(userID string) ([]domain.Account, error) {
	if s.listByUserFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listByUserFn(userID)
}

func (s *stubAccountRepository) DeleteIfNotLast(userID, provider string) error {
	if s.deleteIfNotLastFn == nil {
		return errors.New("not implemented")
	}
	return s.deleteIfNotLastFn(userID, provider)
}

type stubVerificationTokenRepository struct {
	createFn             func(token *domain.VerificationToken) error
	consumeFn            func(token string, now time.Time) (string, error)
	deleteByIdentifierFn func(identifier string) error
	deleteExpiredFn      func(now time.Time) (int64, error)
}

func (s *stubVerificationTokenRepository) Create(token *domain.VerificationToken) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(token)
}

func (s *stubVerificationTokenRepository) Consume(token string, now time.Time) (string, error) {
	if s.consumeFn == nil {
		return "", errors.New("not implemented")
	}
	return s.consumeFn(token, now)
}

func (s *stubVerificationTokenRepository) DeleteByIdentifier(identifier string) error {
	if s.deleteByIdentifierFn == nil {
		return errors.New("not implemented")
	}
	return s.deleteByIdentifierFn(identifier)
}

func (s *stubVerificationTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	if s.deleteExpiredFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.deleteExpiredFn(now)
}

type stubResetTokenRepository struct {
	createFn             func(token *domain.PasswordResetToken) error
	listActiveFn         func(now time.Time) ([]domain.PasswordResetToken, error)
	consumeFn            func(tokenID, identifier, newPasswordHash string, now time.Time) error
	deleteByIdentifierFn func(identifier string) error
	deleteExpiredFn      func(now time.Time) (int64, error)
}

func (s *stubResetTokenRepository) Create(token *domain.PasswordResetToken) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(token)
}

func (s *stubResetTokenRepository) ListActive(now time.Time) ([]domain.PasswordResetToken, error) {
	if s.listActiveFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listActiveFn(now)
}

func (s *stubResetTokenRepository) Consume(tokenID, identifier, newPasswordHash string, now time.Time) error {
	if s.consumeFn == nil {
		return errors.New("not implemented")
	}
	return s.consumeFn(tokenID, identifier, newPasswordHash, now)
}

func (s *stubResetTokenRepository) DeleteByIdentifier(identifier string) error {
	if s.deleteByIdentifierFn == nil {
		return errors.New("not implemented")
	}
	return s.deleteByIdentifierFn(identifier)
}

func (s *stubResetTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	if s.deleteExpiredFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.deleteExpiredFn(now)
}

// recordingMailer captures outgoing links; failErr makes every send fail.
type recordingMailer struct {
	verificationTo   []string
	verificationLink string
	resetTo          []string
	resetLink        string
	failErr          error
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, link string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.verificationTo = append(m.verificationTo, to)
	m.verificationLink = link
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, link string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.resetTo = append(m.resetTo, to)
	m.resetLink = link
	return nil
}

type stubTokenService struct {
	issueVerificationFn   func(ctx context.Context, email string) (string, error)
	consumeVerificationFn func(ctx context.Context, token string) (string, error)
	issueResetFn          func(ctx context.Context, email string) (string, error)
	consumeResetFn        func(ctx context.Context, secret, newPassword string) (string, error)
}

func (s *stubTokenService) IssueVerificationToken(ctx context.Context, email string) (string, error) {
	if s.issueVerificationFn == nil {
		return "", errors.New("not implemented")
	}
	return s.issueVerificationFn(ctx, email)
}

func (s *stubTokenService) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	if s.consumeVerificationFn == nil {
		return "", errors.New("not implemented")
	}
	return s.consumeVerificationFn(ctx, token)
}

func (s *stubTokenService) IssueResetToken(ctx context.Context, email string) (string, error) {
	if s.issueResetFn == nil {
		return "", errors.New("not implemented")
	}
	return s.issueResetFn(ctx, email)
}

func (s *stubTokenService) ConsumeResetToken(ctx context.Context, secret, newPassword string) (string, error) {
	if s.consumeResetFn == nil {
		return "", errors.New("not implemented")
	}
	return s.consumeResetFn(ctx, secret, newPassword)
}

func (s *stubTokenService) SweepExpired(context.Context) (int64, error) {
	return 0, errors.New("not implemented")
}
