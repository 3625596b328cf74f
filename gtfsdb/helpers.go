package gtfsdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"metrograph.onebusaway.org/internal/appconf"
)

//go:embed schema.sql
var ddl string

const inMemory = ":memory:"

// createDB creates a new SQLite database with the catalog tables
func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != inMemory {
		return nil, errors.New("test database must use in-memory storage")
	}
	if config.DBPath == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, err
	}

	if config.DBPath == inMemory {
		// Every connection to ":memory:" opens a distinct database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	ctx := context.Background()
	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

// FileHash returns the hex SHA-256 of an archive, used to skip re-imports
// of unchanged data.
func FileHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
