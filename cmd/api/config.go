package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/logging"
)

// settings is everything main needs to start the server.
type settings struct {
	app     appconf.Config
	gtfs    gtfs.Config
	level   slog.Level
	logFile logging.FileOptions
	colors  map[string]string
}

// Environment variables, usually loaded from .env, provide flag defaults.
const (
	envGtfsURL  = "METROGRAPH_GTFS_URL"
	envDataPath = "METROGRAPH_DATA_PATH"
	envApiKeys  = "METROGRAPH_API_KEYS"
	envEnv      = "METROGRAPH_ENV"
	envLogLevel = "METROGRAPH_LOG_LEVEL"
	envLogFile  = "METROGRAPH_LOG_FILE"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// parseSettings reads the command line. Values from the optional -config
// file apply to every flag not given explicitly, and environment variables
// to everything neither sets.
func parseSettings(args []string, output io.Writer) (settings, error) {
	var s settings
	var apiKeysFlag, envFlag, levelFlag, configPath string
	var transferTime time.Duration

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&s.app.Port, "port", 4000, "API server port")
	fs.StringVar(&envFlag, "env", envOr(envEnv, "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", envOr(envApiKeys, "test"), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&s.app.RateLimit, "rate-limit", 100, "Requests per second per API key (negative disables limiting)")
	fs.IntVar(&s.app.ExpansionBudget, "expansion-budget", 0, "Default maximum number of stations a path query may expand (0 is unlimited)")
	fs.StringVar(&s.gtfs.GtfsURL, "gtfs-url", envOr(envGtfsURL, ""), "URL or path of the nested GTFS zip file")
	fs.StringVar(&s.gtfs.GTFSDataPath, "data-path", envOr(envDataPath, "./metrograph.db"), "Path of the SQLite station catalog (:memory: keeps it in memory)")
	fs.StringVar(&s.gtfs.LinePattern, "line-pattern", gtfs.DefaultLinePattern, "Regular expression selecting line feeds inside the archive")
	fs.StringVar(&s.gtfs.DefaultLine, "default-line", gtfs.DefaultLine, "Line name of a plain, non-nested feed")
	fs.StringVar(&s.gtfs.Projection, "projection", "lambert93", "Planar projection (lambert93|equirectangular)")
	fs.DurationVar(&transferTime, "default-transfer-time", gtfs.DefaultTransferTime, "Walking time of transfers without min_transfer_time")
	fs.BoolVar(&s.gtfs.SymmetricTransfers, "symmetric-transfers", false, "Add the reverse of every declared transfer")
	fs.DurationVar(&s.gtfs.RefreshInterval, "refresh-interval", gtfs.DefaultRefreshInterval, "How often a remote feed is downloaded again (0 disables)")
	fs.Float64Var(&s.gtfs.MaxSpeed, "max-speed", 0, "Heuristic speed bound in m/s (0 uses the default)")
	fs.DurationVar(&s.gtfs.TransferPenalty, "transfer-penalty", 0, "Extra cost charged for every transfer")
	fs.StringVar(&levelFlag, "log-level", envOr(envLogLevel, "info"), "Log level (debug|info|warn|error)")
	fs.StringVar(&s.logFile.Filename, "log-file", envOr(envLogFile, ""), "Also write logs to this rotating file")
	fs.StringVar(&configPath, "config", "", "Optional YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return s, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if configPath != "" {
		file, err := appconf.LoadFile(configPath)
		if err != nil {
			return s, err
		}
		applyFileConfig(&s, file, explicit, &apiKeysFlag, &envFlag, &levelFlag)
		if !explicit["default-transfer-time"] && file.Feed.DefaultTransferTime != nil {
			transferTime = *file.Feed.DefaultTransferTime
		}
	}
	s.gtfs.DefaultTransferTime = &transferTime

	if apiKeysFlag != "" {
		s.app.ApiKeys = strings.Split(apiKeysFlag, ",")
		for i := range s.app.ApiKeys {
			s.app.ApiKeys[i] = strings.TrimSpace(s.app.ApiKeys[i])
		}
	}
	s.app.Env = appconf.EnvFlagToEnvironment(envFlag)
	s.gtfs.Env = s.app.Env

	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		return s, err
	}
	s.level = level

	if s.gtfs.GtfsURL == "" {
		return s, fmt.Errorf("a GTFS source is required (-gtfs-url or feed.url)")
	}
	return s, nil
}

func applyFileConfig(s *settings, file *appconf.FileConfig, explicit map[string]bool, apiKeys, env, level *string) {
	setInt := func(name string, dst *int, v int) {
		if !explicit[name] && v != 0 {
			*dst = v
		}
	}
	setString := func(name string, dst *string, v string) {
		if !explicit[name] && v != "" {
			*dst = v
		}
	}
	setDuration := func(name string, dst *time.Duration, v time.Duration) {
		if !explicit[name] && v != 0 {
			*dst = v
		}
	}

	setInt("port", &s.app.Port, file.Server.Port)
	setString("env", env, file.Server.Env)
	setString("api-keys", apiKeys, strings.Join(file.Server.ApiKeys, ","))
	setInt("rate-limit", &s.app.RateLimit, file.Server.RateLimit)

	setString("gtfs-url", &s.gtfs.GtfsURL, file.Feed.URL)
	setString("data-path", &s.gtfs.GTFSDataPath, file.Feed.DataPath)
	setString("line-pattern", &s.gtfs.LinePattern, file.Feed.LinePattern)
	setString("default-line", &s.gtfs.DefaultLine, file.Feed.DefaultLine)
	setString("projection", &s.gtfs.Projection, file.Feed.Projection)
	setDuration("refresh-interval", &s.gtfs.RefreshInterval, file.Feed.RefreshInterval)
	if !explicit["symmetric-transfers"] && file.Feed.SymmetricTransfers {
		s.gtfs.SymmetricTransfers = true
	}

	if !explicit["max-speed"] && file.Routing.MaxSpeed != 0 {
		s.gtfs.MaxSpeed = file.Routing.MaxSpeed
	}
	setDuration("transfer-penalty", &s.gtfs.TransferPenalty, file.Routing.TransferPenalty)
	setInt("expansion-budget", &s.app.ExpansionBudget, file.Routing.ExpansionBudget)

	setString("log-level", level, file.Logging.Level)
	setString("log-file", &s.logFile.Filename, file.Logging.File)
	s.logFile.MaxSizeMB = file.Logging.MaxSizeMB
	s.logFile.MaxBackups = file.Logging.MaxBackups
	s.logFile.MaxAgeDays = file.Logging.MaxAgeDays

	s.colors = file.Colors
}
