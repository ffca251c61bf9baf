package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/api"
	"github.com/edustore/storefront/internal/config"
	"github.com/edustore/storefront/internal/gateway"
	"github.com/edustore/storefront/internal/session"
	"github.com/edustore/storefront/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Open local storage
	kv, err := storage.Open(cfg.StoragePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer kv.Close()

	// Payment provider client and sessions
	provider := gateway.NewClient(cfg.Payment, logger)
	sessions := session.NewManager(kv, provider, cfg.Payment.PollInterval, logger)
	defer sessions.Shutdown()

	// Router
	router := api.NewRouter(cfg, sessions, logger)

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
