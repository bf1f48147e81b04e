package http_server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	swagger "github.com/Flussen/swagger-fiber-v3"
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/meal-routes/domain/app"
	_ "github.com/init-pkg/meal-routes/docs"
	"github.com/init-pkg/meal-routes/internal/config"
	"go.uber.org/fx"
)

// New builds the fiber app and ties listening to the fx lifecycle.
func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *fiber.App {
	mainApp := NewApp(cfg, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Http.Addr)
			if err != nil {
				return err
			}
			log.Info("HTTP server listening", "addr", cfg.Http.Addr)
			go func() {
				if err := mainApp.Listener(ln); err != nil {
					log.Error("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return mainApp.ShutdownWithContext(ctx)
		},
	})

	return mainApp
}

func NewApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	mainApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Http.MaxUploadSize,
		ErrorHandler: ErrorHandler(log),
	})

	if cfg.Http.Swagger {
		mainApp.Get("/swagger/*", swagger.HandlerDefault)
	}

	return mainApp
}

type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorHandler maps domain errors to status codes. Unknown errors are logged
// and hidden behind a 500.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := "internal error"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status, msg = fe.Code, fe.Message
		case errors.Is(err, app.ErrNotFound):
			status, msg = fiber.StatusNotFound, err.Error()
		case errors.Is(err, app.ErrInvalidRequest):
			status, msg = fiber.StatusBadRequest, err.Error()
		default:
			log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(ErrorBody{Error: msg})
	}
}
