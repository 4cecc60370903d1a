package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteMode distinguishes free-form idea dumps from structured documents.
type NoteMode string

const (
	NoteModeDump     NoteMode = "dump"
	NoteModeDocument NoteMode = "document"
)

func (m NoteMode) Valid() bool {
	return m == NoteModeDump || m == NoteModeDocument
}

type Note struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;index;not null" json:"user_id"`
	CategoryID *string   `gorm:"size:36;index" json:"category_id,omitempty"`
	Mode       NoteMode  `gorm:"size:16;index;not null" json:"mode"`
	Title      string    `gorm:"size:512;not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:note_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

func (n *Note) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
