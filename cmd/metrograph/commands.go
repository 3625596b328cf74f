package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"metrograph.onebusaway.org/internal/presentation"
	"metrograph.onebusaway.org/internal/routing"
	"metrograph.onebusaway.org/internal/utils"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print a summary of the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			manager.WriteStatistics(cmd.OutOrStdout())
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search PATTERN",
		Short: "List the stations whose name starts with PATTERN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			stations, err := manager.SearchStations(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range stations {
				_, _ = fmt.Fprintf(out, "%s\t%s\n", s.ID, presentation.Label(s))
			}
			return nil
		},
	}
}

type pathOptions struct {
	departAt string
	budget   int
	trace    bool
	geojson  bool
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	var po pathOptions

	cmd := &cobra.Command{
		Use:   "path FROM TO",
		Short: "Find a minimum-cost path between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var queryOpts []routing.QueryOption
			if po.departAt != "" {
				departAt, err := utils.ParseClock(po.departAt)
				if err != nil {
					return err
				}
				queryOpts = append(queryOpts, routing.WithDepartAt(departAt))
			}
			queryOpts = append(queryOpts, routing.WithExpansionBudget(po.budget))
			if po.trace || po.geojson {
				queryOpts = append(queryOpts, routing.WithTrace())
			}

			manager, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			result, err := manager.FindPath(args[0], args[1], queryOpts...)
			if errors.Is(err, routing.ErrNotFound) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No path from %s to %s\n", args[0], args[1])
				return nil
			}
			if err != nil {
				return err
			}

			palette := presentation.DefaultPalette()
			if po.geojson {
				fc := presentation.PathFeatures(result, palette)
				fc.Features = append(fc.Features, presentation.TraceFeatures(result.Trace).Features...)
				return writeJSON(cmd.OutOrStdout(), fc)
			}
			writePath(cmd.OutOrStdout(), result, palette, po.trace)
			return nil
		},
	}

	cmd.Flags().StringVar(&po.departAt, "depart-at", "", "Departure time (HH:MM[:SS]); enables timetable waits")
	cmd.Flags().IntVar(&po.budget, "budget", 0, "Maximum number of stations to expand (0 is unlimited)")
	cmd.Flags().BoolVar(&po.trace, "trace", false, "Print the stations in expansion order")
	cmd.Flags().BoolVar(&po.geojson, "geojson", false, "Print the path as GeoJSON")
	return cmd
}

func writePath(w io.Writer, result *routing.PathResult, palette *presentation.Palette, trace bool) {
	for _, leg := range presentation.Legs(result, palette) {
		from, to := presentation.Label(leg.From()), presentation.Label(leg.To())
		switch {
		case leg.Transfer:
			_, _ = fmt.Fprintf(w, "walk     %s -> %s (%s)\n", from, to, leg.Cost)
		case result.Scheduled:
			_, _ = fmt.Fprintf(w, "%-8s %s -> %s (%s, %s at %s, wait %s)\n",
				leg.Line, from, to, leg.Cost, leg.TripID, utils.FormatClock(leg.Departure), leg.Wait)
		default:
			_, _ = fmt.Fprintf(w, "%-8s %s -> %s (%s, %d stops)\n", leg.Line, from, to, leg.Cost, len(leg.Stations)-1)
		}
	}
	_, _ = fmt.Fprintf(w, "Total: %s over %d stations, %d expanded\n", result.TotalCost, len(result.Stations), result.Expanded)
	if result.Scheduled {
		_, _ = fmt.Fprintf(w, "Arrive: %s\n", utils.FormatClock(result.DepartAt+result.TotalCost))
	}
	if trace {
		for i, s := range result.Trace {
			_, _ = fmt.Fprintf(w, "%4d %s\n", i, s.ID)
		}
	}
}

func newReachableCmd(opts *rootOptions) *cobra.Command {
	var maxCost time.Duration
	var departAt string

	cmd := &cobra.Command{
		Use:   "reachable STATION",
		Short: "List the stations reachable from STATION within --max-cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var queryOpts []routing.QueryOption
			if departAt != "" {
				d, err := utils.ParseClock(departAt)
				if err != nil {
					return err
				}
				queryOpts = append(queryOpts, routing.WithDepartAt(d))
			}

			manager, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			reaches, err := manager.Reachable(args[0], maxCost, queryOpts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range reaches {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", r.Cost, r.Station.ID, presentation.Label(r.Station))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxCost, "max-cost", 15*time.Minute, "Cost limit")
	cmd.Flags().StringVar(&departAt, "depart-at", "", "Departure time (HH:MM[:SS]); enables timetable waits")
	return cmd
}

func newNetworkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Print the network as GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			return writeJSON(cmd.OutOrStdout(), presentation.NetworkFeatures(manager.Graph(), presentation.DefaultPalette()))
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
