package di

import (
	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/config"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/database"
)

// MigrationRunner applies the schema without starting the HTTP server.
type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}
