package postgres_client

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/init-pkg/meal-routes/internal/config"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// New opens the database, or returns nil when DB_DSN is empty and the
// in-memory store should be used.
func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Infrastructure.Db
	if dbCfg.Dsn == "" {
		log.Info("Database not configured, using in-memory storage")
		return nil, nil
	}

	if dbCfg.Migrate {
		if err := Migrate(dbCfg.Dsn); err != nil {
			return nil, err
		}
	}

	db, err := Open(dbCfg.Dsn)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, eris.Wrap(err, "open postgres")
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return eris.Wrap(err, "open postgres for migrations")
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return eris.Wrap(err, "goose dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return eris.Wrap(err, "apply migrations")
	}
	return nil
}
