package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. PasswordHash is nil for OAuth-only users;
// a user must always keep at least one authentication method (password or
// linked account).
type User struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name          *string    `gorm:"size:255" json:"name,omitempty"`
	Image         *string    `gorm:"size:1024" json:"image,omitempty"`
	PasswordHash  *string    `gorm:"size:128" json:"-"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Accounts []Account `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
