package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is one OAuth provider binding for a user. The provider token
// fields are opaque pass-through from the provider and are never exposed
// through the API.
type Account struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	UserID            string    `gorm:"size:36;index:idx_user_provider,unique;not null" json:"user_id"`
	Provider          string    `gorm:"size:32;index:idx_user_provider,unique;index:idx_provider_account,unique;not null" json:"provider"`
	ProviderAccountID string    `gorm:"size:255;index:idx_provider_account,unique;not null" json:"provider_account_id"`
	Type              string    `gorm:"size:32;not null;default:oauth" json:"type"`
	AccessToken       *string   `gorm:"size:4096" json:"-"`
	TokenType         *string   `gorm:"size:64" json:"-"`
	Scope             *string   `gorm:"size:1024" json:"-"`
	IDToken           *string   `gorm:"size:8192" json:"-"`
	ExpiresAt         *int64    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
