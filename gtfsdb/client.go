package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/logging"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Client is the station catalog backed by SQLite.
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime time.Duration
}

// NewClient creates a new Client with the provided configuration
func NewClient(config Config) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	logger := logging.OrDefault(config.Logger)
	if config.verbose {
		logger.Debug("station catalog ready", slog.String("path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportMetadata describes the last successful import.
type ImportMetadata struct {
	FileHash     string
	FileSource   string
	ImportTime   int64 // unix milliseconds
	StationCount int
}

// ErrNoImport is returned by GetImportMetadata before the first import.
var ErrNoImport = errors.New("no stations imported")

// GetImportMetadata returns the metadata of the last import.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var m ImportMetadata
	err := c.DB.QueryRowContext(ctx,
		`SELECT file_hash, file_source, import_time, station_count FROM import_metadata WHERE id = 1`,
	).Scan(&m.FileHash, &m.FileSource, &m.ImportTime, &m.StationCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportMetadata{}, ErrNoImport
	}
	if err != nil {
		return ImportMetadata{}, fmt.Errorf("reading import metadata: %w", err)
	}
	return m, nil
}

// ImportStations replaces the catalog with stations. The import is skipped,
// and false returned, when hash matches the previous import.
func (c *Client) ImportStations(ctx context.Context, hash, source string, stations []graph.Station) (imported bool, err error) {
	startTime := time.Now()

	previous, err := c.GetImportMetadata(ctx)
	if err != nil && !errors.Is(err, ErrNoImport) {
		return false, err
	}
	if err == nil && previous.FileHash == hash {
		if c.config.verbose {
			c.logger.Info("station catalog unchanged, skipping import", slog.String("source", source))
		}
		return false, nil
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "import_stations")

	if _, err := tx.ExecContext(ctx, `DELETE FROM stations`); err != nil {
		return false, fmt.Errorf("error clearing stations: %w", err)
	}
	if err := bulkInsertStations(ctx, tx, stations); err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_metadata (id, file_hash, file_source, import_time, station_count)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_hash = excluded.file_hash,
			file_source = excluded.file_source,
			import_time = excluded.import_time,
			station_count = excluded.station_count`,
		hash, source, time.Now().UnixMilli(), len(stations))
	if err != nil {
		return false, fmt.Errorf("error storing import metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}

	c.importRuntime = time.Since(startTime)
	logging.LogOperation(c.logger, "station_catalog_imported",
		slog.String("source", source),
		slog.Int("stations", len(stations)),
		slog.Duration("duration", c.importRuntime))
	return true, nil
}

// ImportRuntime returns how long the last import took.
func (c *Client) ImportRuntime() time.Duration {
	return c.importRuntime
}
