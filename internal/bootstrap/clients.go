package bootstrap

import (
	"github.com/init-pkg/meal-routes/domain/app"
	routing_service "github.com/init-pkg/meal-routes/internal/app/routing/service"
	google_places_client "github.com/init-pkg/meal-routes/internal/clients/google-places"
	nominatim_client "github.com/init-pkg/meal-routes/internal/clients/nominatim"
	openai_client "github.com/init-pkg/meal-routes/internal/clients/openai"
	openroute_client "github.com/init-pkg/meal-routes/internal/clients/openroute"
	postgres_client "github.com/init-pkg/meal-routes/internal/clients/postgres"
	rabbitmq_client "github.com/init-pkg/meal-routes/internal/clients/rabbitmq"
	redis_client "github.com/init-pkg/meal-routes/internal/clients/redis"
	"go.uber.org/fx"
)

func clientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			openai_client.New,
			google_places_client.New,
			nominatim_client.New,
			fx.Annotate(openroute_client.New, fx.As(new(routing_service.Optimizer))),
			postgres_client.New,
			redis_client.New,
			fx.Annotate(rabbitmq_client.New, fx.As(new(app.RoutePlanPublisher))),
		),
	)
}
