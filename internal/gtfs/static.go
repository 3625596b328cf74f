package gtfs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/utils"
)

// Feed holds the normalized records of every line of an archive.
type Feed struct {
	Lines           []string
	Stations        []graph.Station
	TripsByLine     map[string][]graph.Trip
	TransfersByLine map[string][]graph.Transfer
	Warnings        int
}

// ParseOptions controls how archive records are normalized.
type ParseOptions struct {
	LinePattern         *regexp.Regexp
	DefaultLine         string
	Projector           utils.Projector
	// DefaultTransferTime is the walk time of transfers without
	// min_transfer_time. Nil selects the package DefaultTransferTime; an
	// explicit zero is kept.
	DefaultTransferTime *time.Duration
}

func rawGtfsData(ctx context.Context, source string, isLocalFile bool) ([]byte, error) {
	if isLocalFile {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// ParseArchive normalizes a plain GTFS archive or an archive of per-line
// archives into graph records.
func ParseArchive(b []byte, options ParseOptions) (*Feed, error) {
	if options.LinePattern == nil {
		options.LinePattern = regexp.MustCompile(DefaultLinePattern)
	}
	if options.DefaultLine == "" {
		options.DefaultLine = DefaultLine
	}
	if options.Projector == nil {
		options.Projector = utils.NewLambert93()
	}
	defaultWalk := DefaultTransferTime
	if options.DefaultTransferTime != nil {
		defaultWalk = *options.DefaultTransferTime
	}

	lineFeeds, err := splitArchive(b, options.LinePattern, options.DefaultLine)
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		TripsByLine:     make(map[string][]graph.Trip, len(lineFeeds)),
		TransfersByLine: make(map[string][]graph.Transfer, len(lineFeeds)),
	}
	for _, lf := range lineFeeds {
		if err := feed.addLine(lf, options, defaultWalk); err != nil {
			return nil, err
		}
	}
	return feed, nil
}

func (feed *Feed) addLine(lf LineFeed, options ParseOptions, defaultWalk time.Duration) error {
	static, err := gtfs.ParseStatic(lf.Data, gtfs.ParseStaticOptions{})
	if err != nil {
		return &graph.MalformedFeedError{Line: lf.Line, Record: "archive", Reason: err.Error()}
	}
	feed.Lines = append(feed.Lines, lf.Line)
	feed.Warnings += len(static.Warnings)

	stopIDs := make(map[string]bool, len(static.Stops))
	for _, stop := range static.Stops {
		stopIDs[stop.Id] = true
		if stop.Latitude == nil || stop.Longitude == nil {
			return &graph.MalformedFeedError{Line: lf.Line, Record: "stop " + stop.Id, Reason: "missing coordinates"}
		}
		lat, lon := *stop.Latitude, *stop.Longitude
		x, y := options.Projector.Project(lat, lon)
		feed.Stations = append(feed.Stations, graph.Station{
			ID:   stop.Id,
			Name: stop.Name,
			Line: lf.Line,
			Lat:  lat,
			Lon:  lon,
			X:    x,
			Y:    y,
		})
	}

	if err := checkStopTimes(lf, stopIDs); err != nil {
		return err
	}

	trips := make([]graph.Trip, 0, len(static.Trips))
	for _, scheduled := range static.Trips {
		trip := graph.Trip{
			ID:        scheduled.ID,
			Line:      lf.Line,
			StopTimes: make([]graph.StopTime, 0, len(scheduled.StopTimes)),
		}
		if scheduled.Route != nil {
			trip.RouteID = scheduled.Route.Id
		}
		for _, st := range scheduled.StopTimes {
			if st.Stop == nil {
				return &graph.MalformedFeedError{Line: lf.Line, Record: "trip " + scheduled.ID, Reason: "stop time without a stop"}
			}
			trip.StopTimes = append(trip.StopTimes, graph.StopTime{
				StationID: st.Stop.Id,
				Sequence:  st.StopSequence,
				Arrival:   st.ArrivalTime,
				Departure: st.DepartureTime,
			})
		}
		trips = append(trips, trip)
	}
	feed.TripsByLine[lf.Line] = trips

	transfers, err := readTransfers(lf, defaultWalk)
	if err != nil {
		return err
	}
	feed.TransfersByLine[lf.Line] = transfers
	return nil
}

// csvRow reads one column of the current row of a CSV table, trimmed. A
// missing column reads as empty.
type csvRow func(column string) string

// scanTable calls fn for every data row of the named file of a line feed.
// A missing file is not an error. Rows are numbered from 2, after the header.
func scanTable(lf LineFeed, name string, required []string, fn func(row int, get csvRow) error) error {
	file, err := openZipEntry(lf.Data, name)
	if err != nil {
		return fmt.Errorf("error opening line feed %s: %w", lf.Line, err)
	}
	if file == nil {
		return nil
	}
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("error opening %s of line %s: %w", name, lf.Line, err)
	}
	defer rc.Close() // nolint

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &graph.MalformedFeedError{Line: lf.Line, Record: name, Reason: err.Error()}
	}
	headerMap := make(map[string]int, len(header))
	for i, column := range header {
		headerMap[strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))] = i
	}
	for _, column := range required {
		if _, ok := headerMap[column]; !ok {
			return &graph.MalformedFeedError{Line: lf.Line, Record: name, Reason: "missing column " + column}
		}
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &graph.MalformedFeedError{Line: lf.Line, Record: name, Reason: err.Error()}
		}
		get := func(column string) string {
			if i, ok := headerMap[column]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if err := fn(row, get); err != nil {
			return err
		}
	}
}

// checkStopTimes fails on the first stop_times.txt row whose stop is not in
// stops.txt. The parser library drops such rows, which would join the stops
// around the missing one into a ride the feed never declared.
func checkStopTimes(lf LineFeed, stops map[string]bool) error {
	return scanTable(lf, "stop_times.txt", []string{"trip_id", "stop_id"}, func(row int, get csvRow) error {
		if stopID := get("stop_id"); !stops[stopID] {
			return &graph.MalformedFeedError{
				Line:   lf.Line,
				Record: "trip " + get("trip_id"),
				Reason: fmt.Sprintf("stop_times.txt row %d references unknown stop %q", row, stopID),
			}
		}
		return nil
	})
}

const transferNotPossible = "3"

// readTransfers reads transfers.txt of a line feed. Rows may reference
// stations of other lines, which the parser library would discard, so the
// file is read as plain CSV and resolved later against the merged stations.
func readTransfers(lf LineFeed, defaultWalk time.Duration) ([]graph.Transfer, error) {
	var transfers []graph.Transfer
	err := scanTable(lf, "transfers.txt", []string{"from_stop_id", "to_stop_id"}, func(row int, get csvRow) error {
		if get("transfer_type") == transferNotPossible {
			return nil
		}
		walk := defaultWalk
		if raw := get("min_transfer_time"); raw != "" {
			seconds, err := strconv.Atoi(raw)
			if err != nil {
				return &graph.MalformedFeedError{
					Line:   lf.Line,
					Record: fmt.Sprintf("transfers.txt row %d", row),
					Reason: fmt.Sprintf("invalid min_transfer_time %q", raw),
				}
			}
			walk = time.Duration(seconds) * time.Second
		}
		transfers = append(transfers, graph.Transfer{
			FromID:   get("from_stop_id"),
			ToID:     get("to_stop_id"),
			WalkTime: walk,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// BuildGraph builds the graph of a parsed feed.
func (feed *Feed) BuildGraph(symmetricTransfers bool) (*graph.Graph, error) {
	var opts []graph.BuildOption
	if symmetricTransfers {
		opts = append(opts, graph.WithSymmetricTransfers())
	}
	return graph.Build(feed.Stations, feed.TripsByLine, feed.TransfersByLine, opts...)
}
