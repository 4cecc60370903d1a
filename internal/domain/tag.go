package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index:idx_user_tag_name,unique;not null" json:"user_id"`
	Name      string    `gorm:"size:128;index:idx_user_tag_name,unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
