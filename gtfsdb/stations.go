package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/utils"
)

// Station is a catalog row.
type Station struct {
	ID     string
	Name   string
	LineID string
	Lat    float64
	Lon    float64
	X      float64
	Y      float64
}

// StationWithDistance is a Station with its distance, in meters, from a
// query point.
type StationWithDistance struct {
	Station
	Distance float64
}

// batchSize keeps the number of bound parameters per statement well under
// SQLite's limit.
const batchSize = 100

const stationColumns = 7

func bulkInsertStations(ctx context.Context, tx *sql.Tx, stations []graph.Station) error {
	for start := 0; start < len(stations); start += batchSize {
		end := min(start+batchSize, len(stations))
		batch := stations[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*stationColumns)
		for i, s := range batch {
			placeholders[i] = "(?, ?, ?, ?, ?, ?, ?)"
			args = append(args, s.ID, s.Name, s.Line, s.Lat, s.Lon, s.X, s.Y)
		}

		query := `INSERT OR REPLACE INTO stations (id, name, line_id, lat, lon, x, y) VALUES ` +
			strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("error inserting stations: %w", err)
		}
	}
	return nil
}

func scanStations(rows *sql.Rows) ([]Station, error) {
	defer rows.Close() // nolint:errcheck

	var stations []Station
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Name, &s.LineID, &s.Lat, &s.Lon, &s.X, &s.Y); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// GetStation returns the station with the given ID.
func (c *Client) GetStation(ctx context.Context, id string) (Station, error) {
	var s Station
	err := c.DB.QueryRowContext(ctx,
		`SELECT id, name, line_id, lat, lon, x, y FROM stations WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.LineID, &s.Lat, &s.Lon, &s.X, &s.Y)
	return s, err
}

// ListStationsForLine returns the stations of a line ordered by name.
func (c *Client) ListStationsForLine(ctx context.Context, lineID string) ([]Station, error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT id, name, line_id, lat, lon, x, y FROM stations WHERE line_id = ? ORDER BY name, id`, lineID)
	if err != nil {
		return nil, err
	}
	return scanStations(rows)
}

// GetStationsWithinBounds returns the stations inside a latitude/longitude
// box, ordered by ID.
func (c *Client) GetStationsWithinBounds(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]Station, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, name, line_id, lat, lon, x, y FROM stations
		WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?
		ORDER BY id`,
		minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}
	return scanStations(rows)
}

// NearestStations returns up to maxCount stations within radius meters of
// lat,lon, nearest first. maxCount <= 0 means no limit.
func (c *Client) NearestStations(ctx context.Context, lat, lon, radius float64, maxCount int) ([]StationWithDistance, error) {
	minLat, minLon, maxLat, maxLon := utils.BoundingBox(lat, lon, radius)
	candidates, err := c.GetStationsWithinBounds(ctx, minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, err
	}

	results := make([]StationWithDistance, 0, len(candidates))
	for _, s := range candidates {
		d := utils.HaversineDistance(lat, lon, s.Lat, s.Lon)
		if d <= radius {
			results = append(results, StationWithDistance{Station: s, Distance: d})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if maxCount > 0 && len(results) > maxCount {
		results = results[:maxCount]
	}
	return results, nil
}

// CountStations returns the number of stations in the catalog.
func (c *Client) CountStations(ctx context.Context) (int, error) {
	var n int
	err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&n)
	return n, err
}
