package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sheetgen/internal"
	"sheetgen/internal/config"
	"sheetgen/internal/container"
	"sheetgen/ui"
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

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Shutdown(context.Background())

	server, err := ui.NewServer(c.Sheets, cfg.Server.GinMode, logger)
	if err != nil {
		log.Fatal("Failed to create UI server:", err)
	}

	if err := server.Start(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
