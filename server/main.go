package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meikuraledutech/mbqc"
	"github.com/meikuraledutech/mbqc/postgres"
	"github.com/meikuraledutech/mbqc/qomb"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	cfg := ConfigFromEnv()
	if cfg.EngineURL == "" {
		logger.Fatal("ENGINE_URL is not set")
	}

	svc := mbqc.NewService(qomb.New(cfg.EngineURL)).WithLogger(logger)

	// Project storage is optional; without a database the service is a
	// pure translation layer.
	var store mbqc.ProjectStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	app := NewApp(svc, store, logger, cfg)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
