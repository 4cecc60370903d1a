package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationToken proves control of an email address. Token holds the
// signed token string itself so consumption can be an indexed conditional
// delete.
type VerificationToken struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Identifier string    `gorm:"size:255;index:idx_identifier_token,unique;not null" json:"identifier"`
	Token      string    `gorm:"size:1024;index:idx_identifier_token,unique;index;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t *VerificationToken) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// PasswordResetToken authorizes a password change without the old password.
// Only a bcrypt hash of the mailed secret is stored, so lookup scans the
// non-expired rows and compares the candidate against each hash.
type PasswordResetToken struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Identifier string    `gorm:"size:255;index;not null" json:"identifier"`
	TokenHash  string    `gorm:"size:128;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t *PasswordResetToken) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
