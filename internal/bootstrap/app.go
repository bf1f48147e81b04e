package bootstrap

import (
	beneficiary_sheet_module "github.com/init-pkg/meal-routes/internal/app/beneficiary-sheet"
	geocoding_module "github.com/init-pkg/meal-routes/internal/app/geocoding"
	map_render_service "github.com/init-pkg/meal-routes/internal/app/map-render/service"
	mapping_module "github.com/init-pkg/meal-routes/internal/app/mapping"
	routing_module "github.com/init-pkg/meal-routes/internal/app/routing"
	storage_module "github.com/init-pkg/meal-routes/internal/app/storage"
	"go.uber.org/fx"
)

func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(map_render_service.New),

		storage_module.Register(),
		mapping_module.Register(),
		geocoding_module.Register(),
		beneficiary_sheet_module.Register(),
		routing_module.Register(),

		// batch import of IMPORT_PATH
		fx.Invoke(
			ImportOnStart,
		),
	)
}
