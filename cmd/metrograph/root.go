package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/logging"
)

type rootOptions struct {
	config       gtfs.Config
	transferTime time.Duration
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "metrograph",
		Short:         "Query a transit network built from a GTFS archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.config.GtfsURL, "gtfs", "", "URL or path of the GTFS zip file")
	flags.StringVar(&opts.config.LinePattern, "line-pattern", gtfs.DefaultLinePattern, "Regular expression selecting line feeds inside the archive")
	flags.StringVar(&opts.config.DefaultLine, "default-line", gtfs.DefaultLine, "Line name of a plain, non-nested feed")
	flags.StringVar(&opts.config.Projection, "projection", "lambert93", "Planar projection (lambert93|equirectangular)")
	flags.DurationVar(&opts.transferTime, "default-transfer-time", gtfs.DefaultTransferTime, "Walking time of transfers without min_transfer_time")
	flags.BoolVar(&opts.config.SymmetricTransfers, "symmetric-transfers", false, "Add the reverse of every declared transfer")
	flags.Float64Var(&opts.config.MaxSpeed, "max-speed", 0, "Heuristic speed bound in m/s (0 uses the default)")
	flags.DurationVar(&opts.config.TransferPenalty, "transfer-penalty", 0, "Extra cost charged for every transfer")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	_ = cmd.MarkPersistentFlagRequired("gtfs")

	cmd.AddCommand(
		newStatsCmd(opts),
		newSearchCmd(opts),
		newPathCmd(opts),
		newReachableCmd(opts),
		newNetworkCmd(opts),
	)
	return cmd
}

// load builds the network once per invocation. The catalog stays in memory
// and the feed is never refreshed.
func (opts *rootOptions) load(cmd *cobra.Command) (*gtfs.Manager, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}

	config := opts.config
	config.DefaultTransferTime = &opts.transferTime
	config.GTFSDataPath = ":memory:"
	config.RefreshInterval = 0
	config.Env = appconf.Development
	config.Logger = logging.NewStructuredLogger(cmd.ErrOrStderr(), level)

	manager, err := gtfs.InitGTFSManager(config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", config.GtfsURL, err)
	}
	return manager, nil
}
