package gtfsdb

import (
	"log/slog"

	"metrograph.onebusaway.org/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	// Database configuration
	DBPath  string              // Path to SQLite database file, or ":memory:"
	Env     appconf.Environment // Environment the database runs in
	verbose bool                // Verbose logging
	Logger  *slog.Logger
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
