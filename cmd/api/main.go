package main

import (
	"context"
	"net/http"
	"os"

	"github.com/angelmondragon/pharmaline-backend/api/routes"
	"github.com/angelmondragon/pharmaline-backend/internal/interpreter"
	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	"github.com/angelmondragon/pharmaline-backend/internal/ledger"
	"github.com/angelmondragon/pharmaline-backend/pkg/config"
	"github.com/angelmondragon/pharmaline-backend/pkg/db"
	"github.com/angelmondragon/pharmaline-backend/pkg/gemini"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
	"github.com/angelmondragon/pharmaline-backend/pkg/metrics"
	"github.com/angelmondragon/pharmaline-backend/pkg/migrate"
	"github.com/angelmondragon/pharmaline-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	geminiClient, err := gemini.NewClient(context.Background(), cfg.Gemini, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gemini client", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), cfg.Ledger)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	aggregator, err := inventory.NewAggregator(ledgerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create aggregator", err)
		os.Exit(1)
	}

	executor, err := inventory.NewExecutor(ledgerService, aggregator)
	if err != nil {
		logg.Error(context.Background(), "failed to create executor", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	commandMetrics := metrics.NewCommandMetrics(registry)

	interp, err := interpreter.NewInterpreter(executor, geminiClient, logg, commandMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create interpreter", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, interp, aggregator, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
