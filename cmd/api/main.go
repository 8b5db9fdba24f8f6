package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sheetgen/internal"
	"sheetgen/internal/api"
	"sheetgen/internal/config"
	"sheetgen/internal/container"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The API is stateless; only the generator is needed, so the
	// session store stays in memory whatever STORE_DRIVER says.
	cfg.Store.Driver = "memory"
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server := api.NewServer(c.Generation, container.WorkbookOptions(cfg), logger)
	if err := server.Start(ctx, ":"+cfg.Server.APIPort); err != nil {
		log.Fatal("Server failed:", err)
	}
}
