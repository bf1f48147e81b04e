package geocoding_module

import (
	"github.com/init-pkg/meal-routes/domain/app"
	geocoding_service "github.com/init-pkg/meal-routes/internal/app/geocoding/service"
	google_places_client "github.com/init-pkg/meal-routes/internal/clients/google-places"
	nominatim_client "github.com/init-pkg/meal-routes/internal/clients/nominatim"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		providers,
		cache,
		fx.Annotate(geocoding_service.New, fx.As(new(app.Geocoder))),
	)
}

// Places first, OpenStreetMap as fallback.
func providers(places *google_places_client.GooglePlacesClient, osm *nominatim_client.NominatimClient) []geocoding_service.Provider {
	var out []geocoding_service.Provider
	if places.Enabled() {
		out = append(out, places)
	}
	if osm.Enabled() {
		out = append(out, osm)
	}
	return out
}

func cache(cfg *config.Config, rdb *redis.Client) geocoding_service.Cache {
	if rdb == nil {
		return geocoding_service.NewMemoryCache()
	}
	return geocoding_service.NewRedisCache(rdb, cfg.Infrastructure.Redis.TTL)
}
