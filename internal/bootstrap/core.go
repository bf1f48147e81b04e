package bootstrap

import (
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/init-pkg/meal-routes/internal/config"
	http_server "github.com/init-pkg/meal-routes/internal/http-server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.MustLoad,
			newLogger,
			newValidator,
			http_server.New,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With("component", "fx")}
		}),
	)
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(log)
	return log.With("app", cfg.App.Name)
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
