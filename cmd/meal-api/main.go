package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/noah-isme/meal-reservation-api/api/swagger"
	"github.com/noah-isme/meal-reservation-api/internal/app"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	"github.com/noah-isme/meal-reservation-api/pkg/logger"
)

// @title Meal Reservation API
// @version 1.0.0
// @description Employee and visitor meal reservations with per-slot deadlines, change logs and reports.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("startup failed", "error", err)
	}
	if err := application.Run(ctx); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
