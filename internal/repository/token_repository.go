package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

var (
	ErrVerificationTokenNotFound = errors.New("verification token not found")
	ErrVerificationTokenExpired  = errors.New("verification token expired")
	ErrResetTokenNotFound        = errors.New("password reset token not found")
)

type VerificationTokenRepository interface {
	Create(token *domain.VerificationToken) error
	// Consume atomically deletes the live row and stamps the owning user's
	// email_verified timestamp. Exactly one of two racing calls succeeds;
	// the loser sees ErrVerificationTokenNotFound.
	Consume(token string, now time.Time) (identifier string, err error)
	DeleteByIdentifier(identifier string) error
	DeleteExpired(now time.Time) (int64, error)
}

type GormVerificationTokenRepository struct{ db *gorm.DB }

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &GormVerificationTokenRepository{db: db}
}

func (r *GormVerificationTokenRepository) Create(token *domain.VerificationToken) error {
	return r.db.Create(token).Error
}

func (r *GormVerificationTokenRepository) Consume(token string, now time.Time) (string, error) {
	var identifier string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var row domain.VerificationToken
		if err := tx.Where("token = ?", token).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationTokenNotFound
			}
			return err
		}
		res := tx.Where("token = ? AND expires_at > ?", token, now).Delete(&domain.VerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if !row.ExpiresAt.After(now) {
				return ErrVerificationTokenExpired
			}
			// A concurrent request consumed it between the read and the delete.
			return ErrVerificationTokenNotFound
		}
		identifier = row.Identifier
		return tx.Model(&domain.User{}).Where("email = ?", row.Identifier).Update("email_verified", now).Error
	})
	if err != nil {
		return "", err
	}
	return identifier, nil
}

func (r *GormVerificationTokenRepository) DeleteByIdentifier(identifier string) error {
	return r.db.Where("identifier = ?", identifier).Delete(&domain.VerificationToken{}).Error
}

func (r *GormVerificationTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&domain.VerificationToken{})
	return res.RowsAffected, res.Error
}

type ResetTokenRepository interface {
	Create(token *domain.PasswordResetToken) error
	// ListActive returns every non-expired reset token. The stored value is
	// a bcrypt hash, so the caller has to test the candidate secret against
	// each row; lookup cost is O(active tokens).
	ListActive(now time.Time) ([]domain.PasswordResetToken, error)
	// Consume deletes the row and writes the new password hash in one
	// transaction so a crash cannot leave a replayable token behind.
	Consume(tokenID, identifier, newPasswordHash string, now time.Time) error
	DeleteByIdentifier(identifier string) error
	DeleteExpired(now time.Time) (int64, error)
}

type GormResetTokenRepository struct{ db *gorm.DB }

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

func (r *GormResetTokenRepository) Create(token *domain.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *GormResetTokenRepository) ListActive(now time.Time) ([]domain.PasswordResetToken, error) {
	var tokens []domain.PasswordResetToken
	if err := r.db.Where("expires_at > ?", now).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *GormResetTokenRepository) Consume(tokenID, identifier, newPasswordHash string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND expires_at > ?", tokenID, now).Delete(&domain.PasswordResetToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResetTokenNotFound
		}
		userRes := tx.Model(&domain.User{}).Where("email = ?", identifier).Update("password_hash", newPasswordHash)
		if userRes.Error != nil {
			return userRes.Error
		}
		if userRes.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *GormResetTokenRepository) DeleteByIdentifier(identifier string) error {
	return r.db.Where("identifier = ?", identifier).Delete(&domain.PasswordResetToken{}).Error
}

func (r *GormResetTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&domain.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
