package database

import (
	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Account{},
		&domain.VerificationToken{},
		&domain.PasswordResetToken{},
		&domain.Category{},
		&domain.Tag{},
		&domain.Note{},
	)
}
