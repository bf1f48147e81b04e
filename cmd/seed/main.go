package main

import (
	"context"
	"log/slog"
	"os"

	routing_service "github.com/init-pkg/meal-routes/internal/app/routing/service"
	storage_repository "github.com/init-pkg/meal-routes/internal/app/storage/repository"
	postgres_client "github.com/init-pkg/meal-routes/internal/clients/postgres"
	"github.com/init-pkg/meal-routes/internal/config"
)

// Applies migrations and upserts the configured fleet.
func main() {
	var (
		cfg = config.MustLoad()
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
		dsn = cfg.Infrastructure.Db.Dsn
	)

	if dsn == "" {
		log.Error("DB_DSN is not set")
		os.Exit(1)
	}

	if err := postgres_client.Migrate(dsn); err != nil {
		log.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres_client.Open(dsn)
	if err != nil {
		log.Error("Database open failed", "error", err)
		os.Exit(1)
	}

	fleet := routing_service.DefaultFleet(cfg.Fleet)
	if err := storage_repository.NewGormRepository(db).UpsertVehicles(context.Background(), fleet); err != nil {
		log.Error("Vehicle seed failed", "error", err)
		os.Exit(1)
	}

	log.Info("Seed finished", "vehicles", len(fleet))
}
