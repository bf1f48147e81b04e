package mapping_module

import (
	"github.com/init-pkg/meal-routes/domain/app"
	header_mapping_service "github.com/init-pkg/meal-routes/internal/app/mapping/header"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(header_mapping_service.NewOpenAISuggester, fx.As(new(header_mapping_service.Suggester))),
		fx.Annotate(header_mapping_service.New, fx.As(new(app.HeaderMappingService))),
	)
}
