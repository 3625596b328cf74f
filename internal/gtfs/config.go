package gtfs

import (
	"log/slog"
	"strings"
	"time"

	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/metrics"
)

const (
	// DefaultLinePattern selects the per-line feeds of an archive of
	// archives. The first capture group is the line ID.
	DefaultLinePattern = `.*(METRO_\d+b?|RER_\w)\.zip`

	// DefaultLine names the single line of a plain GTFS archive.
	DefaultLine = "LINE_1"

	// DefaultTransferTime is the walk time of transfers that declare none.
	DefaultTransferTime = 2 * time.Minute

	// DefaultRefreshInterval is how often remote sources are reloaded.
	DefaultRefreshInterval = 24 * time.Hour

	defaultDownloadTimeout = 60 * time.Second
)

type Config struct {
	// GtfsURL is an http(s) URL or a local path.
	GtfsURL string

	// GTFSDataPath is the station catalog database, ":memory:" when empty.
	GTFSDataPath string

	LinePattern         string
	DefaultLine         string
	Projection          string
	SymmetricTransfers  bool

	// DefaultTransferTime applies to transfers without min_transfer_time.
	// Nil selects DefaultTransferTime; zero links stops at no cost.
	DefaultTransferTime *time.Duration

	// RefreshInterval reloads remote sources periodically. Zero disables it.
	RefreshInterval time.Duration
	DownloadTimeout time.Duration

	MaxSpeed        float64
	TransferPenalty time.Duration

	Env     appconf.Environment
	Verbose bool
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

func (config Config) withDefaults() Config {
	if config.LinePattern == "" {
		config.LinePattern = DefaultLinePattern
	}
	if config.DefaultLine == "" {
		config.DefaultLine = DefaultLine
	}
	if config.DownloadTimeout == 0 {
		config.DownloadTimeout = defaultDownloadTimeout
	}
	if config.GTFSDataPath == "" {
		config.GTFSDataPath = ":memory:"
	}
	return config
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}
