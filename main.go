package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"sheetgen/internal"
	"sheetgen/internal/api"
	"sheetgen/internal/config"
	"sheetgen/internal/container"
	"sheetgen/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	webServer, err := ui.NewServer(appContainer.Sheets, appConfig.Server.GinMode, logger)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}
	apiServer := api.NewServer(appContainer.Generation, container.WorkbookOptions(appConfig), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webServer.Start(gctx, ":"+appConfig.Server.Port)
	})
	g.Go(func() error {
		return apiServer.Start(gctx, ":"+appConfig.Server.APIPort)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
