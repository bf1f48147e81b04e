package storage_repository

import (
	"github.com/init-pkg/meal-routes/domain/app"
)

// Repository stores sheets, the vehicle fleet and route plans.
type Repository interface {
	app.SheetRepository
	app.VehicleRepository
	app.RoutePlanRepository
}
