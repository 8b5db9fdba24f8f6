package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sheetgen/adapters/db"
	"sheetgen/internal"
	"sheetgen/internal/migration"
)

func main() {
	_ = godotenv.Load()

	driver := flag.String("driver", getEnvOrDefault("STORE_DRIVER", db.DriverPostgres), "database driver (postgres or sqlite)")
	url := flag.String("url", os.Getenv("DATABASE_URL"), "database URL")
	flag.Parse()

	if *url == "" {
		log.Fatal("Usage: migrate -driver <postgres|sqlite> -url <database_url> (or set DATABASE_URL)")
	}

	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, *driver, *url)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	runner := migration.NewRunner(logger)
	if err := runner.Run(ctx, conn); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Schema at version %s", runner.Version())
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
