package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// TokenService issues and consumes the two single-use token kinds:
// signed email-verification tokens and hashed password-reset secrets.
type TokenService interface {
	IssueVerificationToken(ctx context.Context, email string) (string, error)
	// ConsumeVerificationToken validates the signature, then requires a live
	// database row before honoring the token. Returns the verified email.
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	IssueResetToken(ctx context.Context, email string) (string, error)
	// ConsumeResetToken scans the active reset tokens for one whose hash
	// matches the secret, then sets the new password and deletes the token
	// in a single transaction. Returns the email the reset applied to.
	ConsumeResetToken(ctx context.Context, secret, newPassword string) (string, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type tokenService struct {
	verificationTokens repository.VerificationTokenRepository
	resetTokens        repository.ResetTokenRepository
	tokens             *security.TokenManager
	mailer             Mailer
	baseURL            string
	verificationTTL    time.Duration
	resetTTL           time.Duration
}

func NewTokenService(
	verificationTokens repository.VerificationTokenRepository,
	resetTokens repository.ResetTokenRepository,
	tokens *security.TokenManager,
	mailer Mailer,
	baseURL string,
	verificationTTL, resetTTL time.Duration,
) TokenService {
	return &tokenService{
		verificationTokens: verificationTokens,
		resetTokens:        resetTokens,
		tokens:             tokens,
		mailer:             mailer,
		baseURL:            baseURL,
		verificationTTL:    verificationTTL,
		resetTTL:           resetTTL,
	}
}

func (s *tokenService) IssueVerificationToken(ctx context.Context, email string) (string, error) {
	signed, err := s.tokens.SignEmailToken(email, s.verificationTTL)
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}

	// Earlier tokens for the same address stop working once a new one is
	// issued, so a resend invalidates the previous link.
	if err := s.verificationTokens.DeleteByIdentifier(email); err != nil {
		return "", err
	}
	row := &domain.VerificationToken{
		Identifier: email,
		Token:      signed,
		ExpiresAt:  time.Now().UTC().Add(s.verificationTTL),
	}
	if err := s.verificationTokens.Create(row); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, url.QueryEscape(signed))
	if err := s.mailer.SendVerificationEmail(ctx, email, link); err != nil {
		observability.RecordAuthEvent(ctx, "verification_email", "send_failed")
		// The token row stays; the resend endpoint lets the user retry.
		return "", fmt.Errorf("send verification email: %w", err)
	}
	observability.RecordAuthEvent(ctx, "verification_email", "sent")
	return signed, nil
}

func (s *tokenService) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.ParseEmailToken(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			observability.RecordAuthEvent(ctx, "verify_email", "expired")
			return "", ErrTokenExpired
		}
		observability.RecordAuthEvent(ctx, "verify_email", "invalid")
		return "", ErrTokenInvalid
	}

	// A correctly signed token must still match a live, unconsumed row.
	identifier, err := s.verificationTokens.Consume(token, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVerificationTokenExpired):
			observability.RecordAuthEvent(ctx, "verify_email", "expired")
			return "", ErrTokenExpired
		case errors.Is(err, repository.ErrVerificationTokenNotFound):
			observability.RecordAuthEvent(ctx, "verify_email", "invalid")
			return "", ErrTokenInvalid
		default:
			return "", err
		}
	}
	if identifier != claims.Email {
		return "", ErrTokenInvalid
	}
	observability.RecordAuthEvent(ctx, "verify_email", "success")
	return identifier, nil
}

func (s *tokenService) IssueResetToken(ctx context.Context, email string) (string, error) {
	secret, err := security.NewRandomString(32)
	if err != nil {
		return "", fmt.Errorf("generate reset secret: %w", err)
	}
	hash, err := security.HashSecret(secret)
	if err != nil {
		return "", fmt.Errorf("hash reset secret: %w", err)
	}

	if err := s.resetTokens.DeleteByIdentifier(email); err != nil {
		return "", err
	}
	row := &domain.PasswordResetToken{
		Identifier: email,
		TokenHash:  hash,
		ExpiresAt:  time.Now().UTC().Add(s.resetTTL),
	}
	if err := s.resetTokens.Create(row); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(secret))
	if err := s.mailer.SendPasswordResetEmail(ctx, email, link); err != nil {
		observability.RecordAuthEvent(ctx, "reset_email", "send_failed")
		return "", fmt.Errorf("send reset email: %w", err)
	}
	observability.RecordAuthEvent(ctx, "reset_email", "sent")
	return secret, nil
}

func (s *tokenService) ConsumeResetToken(ctx context.Context, secret, newPassword string) (string, error) {
	now := time.Now().UTC()
	active, err := s.resetTokens.ListActive(now)
	if err != nil {
		return "", err
	}

	// Only hashes are stored, so the candidate is tested against every
	// non-expired row.
	for _, row := range active {
		if !security.CheckSecret(row.TokenHash, secret) {
			continue
		}
		newHash, err := security.HashPassword(newPassword)
		if err != nil {
			return "", err
		}
		if err := s.resetTokens.Consume(row.ID, row.Identifier, newHash, now); err != nil {
			if errors.Is(err, repository.ErrResetTokenNotFound) {
				// Lost a concurrent redemption race.
				observability.RecordAuthEvent(ctx, "reset_password", "invalid")
				return "", ErrTokenInvalid
			}
			return "", err
		}
		observability.RecordAuthEvent(ctx, "reset_password", "success")
		return row.Identifier, nil
	}
	observability.RecordAuthEvent(ctx, "reset_password", "invalid")
	return "", ErrTokenInvalid
}

func (s *tokenService) SweepExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	verification, err := s.verificationTokens.DeleteExpired(now)
	if err != nil {
		return 0, err
	}
	reset, err := s.resetTokens.DeleteExpired(now)
	if err != nil {
		return verification, err
	}
	return verification + reset, nil
}

// StartTokenSweeper deletes expired token rows on an interval. Stale rows
// are harmless (lookups filter on expires_at) so this is housekeeping only.
func StartTokenSweeper(ctx context.Context, tokens TokenService, interval time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := tokens.SweepExpired(ctx)
				if err != nil {
					logger.Warn("token sweep failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Debug("token sweep completed", "deleted", deleted)
				}
			}
		}
	}()
}
