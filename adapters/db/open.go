// Package db persists session snapshots in PostgreSQL or SQLite through sqlx.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"sheetgen/internal/errors"
)

// Supported store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database and checks it is reachable
func Open(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported store driver %q", driver))
	}

	db, err := sqlx.Open(driver, url)
	if err != nil {
		return nil, errors.DatabaseError("failed to open database", err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent saves
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}
