package routing_module

import (
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/meal-routes/domain/app"
	routing_service "github.com/init-pkg/meal-routes/internal/app/routing/service"
	routing_http_handler "github.com/init-pkg/meal-routes/internal/app/routing/transports/http"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(routing_service.New, fx.As(new(app.RoutePlannerService))),
			routing_http_handler.New,
		),
		fx.Invoke(func(h *routing_http_handler.RoutingHttpHandler, mainApp *fiber.App) {
			h.Register(mainApp)
		}),
	)
}
