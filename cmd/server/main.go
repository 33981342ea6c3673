package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"tenderly/internal/app"
	"tenderly/internal/config"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"ai_provider", cfg.ResolveAIProvider(),
		"auth_enabled", cfg.AuthEnabled(),
	)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		a.Close()
		log.Fatalf("Server error: %v", err)
	}
}
