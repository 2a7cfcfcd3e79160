package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/pfrederiksen/macrocal/internal/aggregator"
	"github.com/pfrederiksen/macrocal/internal/cache"
	"github.com/pfrederiksen/macrocal/internal/config"
	"github.com/pfrederiksen/macrocal/internal/logger"
	"github.com/pfrederiksen/macrocal/internal/scraper"
	"github.com/pfrederiksen/macrocal/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetDefault(logger.New(logger.Level(cfg.LogLevel), os.Stdout))

	sc := scraper.New(
		scraper.WithBaseURL(cfg.CalendarBaseURL),
		scraper.WithTimeout(cfg.FetchTimeout),
		scraper.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.RetryMaxDelay),
	)

	agg := aggregator.New(sc,
		aggregator.WithCache(cache.New(cfg.RedisURL), cfg.CacheTTLWeek),
		aggregator.WithLimits(cfg.MaxWorkers, cfg.MaxWeeks),
	)

	app := fiber.New(fiber.Config{
		AppName: "macrocal",
	})
	server.Register(app, server.NewHandler(agg))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", nil, err)
		}
	}()
	logger.Info("server started", logger.Fields{"port": cfg.Port})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("shutdown error", nil, err)
	}
	logger.Info("server exited", nil)
}
