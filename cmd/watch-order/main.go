package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/checkout"
	"github.com/edustore/storefront/internal/config"
	"github.com/edustore/storefront/internal/gateway"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/watch-order/main.go <order-id>")
		fmt.Println("Example: go run cmd/watch-order/main.go 7f8a1c9e-order")
		os.Exit(1)
	}

	orderID := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Watch the order until it confirms
	provider := gateway.NewClient(cfg.Payment, logger)
	watcher := checkout.NewWatcher(provider, cfg.Payment.PollInterval, logger)

	watcher.Start(orderID, nil)

	logger.Info("Watching order",
		zap.String("order_id", orderID),
		zap.Duration("interval", cfg.Payment.PollInterval),
	)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-interrupt:
		watcher.Stop()
		fmt.Printf("Stopped watching order %s (state: %s)\n", orderID, watcher.State())
		os.Exit(130)
	case <-watcher.Done():
		if watcher.State() == checkout.WatchConfirmed {
			fmt.Printf("Order %s confirmed\n", orderID)
			return
		}
		// terminal without confirmation (declined, cancelled or expired)
		fmt.Printf("Order %s settled without confirmation (state: %s)\n", orderID, watcher.State())
		os.Exit(1)
	}
}
