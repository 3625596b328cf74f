package gtfsdb

import (
	"context"
	"fmt"

	"metrograph.onebusaway.org/internal/logging"
)

// TableCounts returns the row count of every table, for diagnostics.
func (c *Client) TableCounts(ctx context.Context) (counts map[string]int, err error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	var tables []string
	func() {
		defer logging.HandleDeferredError(&err, rows.Close, c.logger, "table_counts")
		for rows.Next() {
			var name string
			if err = rows.Scan(&name); err != nil {
				err = fmt.Errorf("failed to scan table name: %w", err)
				return
			}
			tables = append(tables, name)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, err
	}

	counts = make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		if err := c.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// Diagnostics summarizes the catalog for the debug pages.
type Diagnostics struct {
	Tables        map[string]int
	LastImport    ImportMetadata
	ImportRuntime string
}

func (c *Client) Diagnostics(ctx context.Context) (Diagnostics, error) {
	counts, err := c.TableCounts(ctx)
	if err != nil {
		return Diagnostics{}, err
	}
	meta, err := c.GetImportMetadata(ctx)
	if err != nil {
		return Diagnostics{}, err
	}
	return Diagnostics{
		Tables:        counts,
		LastImport:    meta,
		ImportRuntime: c.ImportRuntime().String(),
	}, nil
}
