package database

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, model := range []any{
		&domain.User{}, &domain.Account{}, &domain.VerificationToken{},
		&domain.PasswordResetToken{}, &domain.Category{}, &domain.Tag{}, &domain.Note{},
	} {
		if !db.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}
