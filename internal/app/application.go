package app

import (
	"log/slog"

	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/metrics"
	"metrograph.onebusaway.org/internal/presentation"
)

// Application holds the dependencies shared by HTTP handlers, helpers and
// middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Metrics     *metrics.Collector
	Palette     *presentation.Palette
}

// LinePalette returns the configured palette, or the default one.
func (app *Application) LinePalette() *presentation.Palette {
	if app.Palette == nil {
		return presentation.DefaultPalette()
	}
	return app.Palette
}
