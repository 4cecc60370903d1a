//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/app"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/database"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		InfraSet,
		SecuritySet,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}

func InitializeMigrationRunner() (*MigrationRunner, error) {
	panic(wire.Build(
		ConfigSet,
		database.Open,
		NewMigrationRunner,
	))
}
