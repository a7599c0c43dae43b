package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/courtdesk/courtdesk/docs"
	"github.com/courtdesk/courtdesk/internal/app"
	"github.com/courtdesk/courtdesk/internal/config"
)

// @title CourtDesk API
// @version 1.0
// @description Court booking and front-desk management for a badminton facility.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
