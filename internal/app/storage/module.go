package storage_module

import (
	"github.com/init-pkg/meal-routes/domain/app"
	storage_repository "github.com/init-pkg/meal-routes/internal/app/storage/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func Register() fx.Option {
	return fx.Provide(
		repository,
		func(r storage_repository.Repository) app.SheetRepository { return r },
		func(r storage_repository.Repository) app.VehicleRepository { return r },
		func(r storage_repository.Repository) app.RoutePlanRepository { return r },
	)
}

// Postgres when a database is configured, process memory otherwise.
func repository(db *gorm.DB) storage_repository.Repository {
	if db == nil {
		return storage_repository.NewMemoryRepository()
	}
	return storage_repository.NewGormRepository(db)
}
