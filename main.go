package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"rentcompare/api"
	"rentcompare/config"
	"rentcompare/dataset"
	"rentcompare/scheduler"
	"rentcompare/services"
	"rentcompare/storage"
	"rentcompare/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Ontario Rent Comparison Service starting ===")
	logger.Info("Config — port: %s | product: %s | refresh: %dh | retries: %d",
		cfg.HTTPPort, cfg.WDSProductID, cfg.RefreshIntervalHours, cfg.MaxRetries)

	var store storage.RecordStore
	if dsn := cfg.DSN(); dsn != "" {
		pg, err := storage.NewPostgresStore(dsn)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL, continuing without persistence: %v", err)
		} else {
			store = pg
			defer pg.Close()
			logger.Info("PostgreSQL persistence enabled (table: rental_records)")
		}
	}

	cache := services.NewDatasetCache(cfg.SignalFilePath,
		time.Duration(cfg.SignalCheckSeconds)*time.Second)
	acquirer := dataset.NewAcquirer(cfg, logger, cache, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache before taking traffic; an empty result is fine, the
	// first lookup will retry the acquisition chain.
	if records := acquirer.Acquire(ctx); len(records) > 0 {
		logger.Info("Dataset ready: %d records cached", len(records))
	} else {
		logger.Warn("No dataset available at startup; will keep trying per request")
	}

	sched := scheduler.New(cfg, logger, acquirer)
	go sched.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "rentcompare",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	handler := api.NewHandler(logger, acquirer)
	handler.RegisterRoutes(app)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
