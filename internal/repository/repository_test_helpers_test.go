package repository

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Account{},
		&domain.VerificationToken{},
		&domain.PasswordResetToken{},
		&domain.Category{},
		&domain.Tag{},
		&domain.Note{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	name := "Test User"
	user := &domain.User{Email: email, Name: &name}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}
