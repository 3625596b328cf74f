package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"metrograph.onebusaway.org/internal/utils"
)

// FixtureStop is a stop of a synthetic line feed. Stops flagged
// NoCoordinates are written with empty coordinates.
type FixtureStop struct {
	ID            string
	Name          string
	Lat           float64
	Lon           float64
	NoCoordinates bool
}

// FixtureTrip runs through Stops starting at Start, taking Hop between
// consecutive stops and dwelling Dwell at each intermediate stop.
type FixtureTrip struct {
	ID    string
	Stops []string
	Start time.Duration
	Hop   time.Duration
	Dwell time.Duration
}

// FixtureTransfer is a transfers.txt row. A negative MinTransferTime is
// written as an empty field.
type FixtureTransfer struct {
	From            string
	To              string
	MinTransferTime int
}

// FixtureLine is the content of a synthetic line feed.
type FixtureLine struct {
	Line      string
	Stops     []FixtureStop
	Trips     []FixtureTrip
	Transfers []FixtureTransfer
}

// BuildLineArchive writes a GTFS zip for a single line.
func BuildLineArchive(line FixtureLine) ([]byte, error) {
	routeID := line.Line + "-R"
	files := map[string][][]string{
		"agency.txt": {
			{"agency_id", "agency_name", "agency_url", "agency_timezone"},
			{"RATP", "RATP", "http://www.ratp.fr", "Europe/Paris"},
		},
		"routes.txt": {
			{"route_id", "agency_id", "route_short_name", "route_long_name", "route_type"},
			{routeID, "RATP", utils.ExtractLineNumber(line.Line), line.Line, "1"},
		},
		"calendar.txt": {
			{"service_id", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "start_date", "end_date"},
			{"ALL", "1", "1", "1", "1", "1", "1", "1", "20240101", "20351231"},
		},
	}

	stops := [][]string{{"stop_id", "stop_name", "stop_lat", "stop_lon", "location_type"}}
	for _, s := range line.Stops {
		lat, lon := formatCoordinate(s.Lat), formatCoordinate(s.Lon)
		if s.NoCoordinates {
			lat, lon = "", ""
		}
		stops = append(stops, []string{s.ID, s.Name, lat, lon, "0"})
	}
	files["stops.txt"] = stops

	trips := [][]string{{"route_id", "service_id", "trip_id", "direction_id"}}
	stopTimes := [][]string{{"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence"}}
	for _, trip := range line.Trips {
		trips = append(trips, []string{routeID, "ALL", trip.ID, "0"})
		clock := trip.Start
		for i, stopID := range trip.Stops {
			arrival := clock
			departure := arrival
			if i > 0 && i < len(trip.Stops)-1 {
				departure += trip.Dwell
			}
			stopTimes = append(stopTimes, []string{
				trip.ID,
				utils.FormatClock(arrival),
				utils.FormatClock(departure),
				stopID,
				strconv.Itoa(i + 1),
			})
			clock = departure + trip.Hop
		}
	}
	files["trips.txt"] = trips
	files["stop_times.txt"] = stopTimes

	if len(line.Transfers) > 0 {
		transfers := [][]string{{"from_stop_id", "to_stop_id", "transfer_type", "min_transfer_time"}}
		for _, tr := range line.Transfers {
			minTime := ""
			if tr.MinTransferTime >= 0 {
				minTime = strconv.Itoa(tr.MinTransferTime)
			}
			transfers = append(transfers, []string{tr.From, tr.To, "2", minTime})
		}
		files["transfers.txt"] = transfers
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"agency.txt", "routes.txt", "calendar.txt", "stops.txt", "trips.txt", "stop_times.txt", "transfers.txt"} {
		rows, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			return nil, fmt.Errorf("error writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildNestedArchive writes an archive holding one zip per line, named the
// way DefaultLinePattern expects.
func BuildNestedArchive(lines []FixtureLine) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, line := range lines {
		data, err := BuildLineArchive(line)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create("RATP_GTFS_" + line.Line + ".zip")
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// SampleNetwork returns two metro lines crossing at Charles de Gaulle -
// Etoile. Trains leave every ten minutes from 08:00 in both directions.
//
//	METRO_1: Etoile - George V - Franklin D. Roosevelt - Concorde - Chatelet
//	METRO_2: Etoile - Ternes - Courcelles - Monceau - Villiers
func SampleNetwork() []FixtureLine {
	m1 := []FixtureStop{
		{ID: "M1:ETOILE", Name: "Charles de Gaulle - Etoile", Lat: 48.8738, Lon: 2.2950},
		{ID: "M1:GEORGEV", Name: "George V", Lat: 48.8720, Lon: 2.3008},
		{ID: "M1:FDR", Name: "Franklin D. Roosevelt", Lat: 48.8689, Lon: 2.3097},
		{ID: "M1:CONCORDE", Name: "Concorde", Lat: 48.8656, Lon: 2.3212},
		{ID: "M1:CHATELET", Name: "Chatelet", Lat: 48.8587, Lon: 2.3470},
	}
	m2 := []FixtureStop{
		{ID: "M2:ETOILE", Name: "Charles de Gaulle - Etoile", Lat: 48.8744, Lon: 2.2945},
		{ID: "M2:TERNES", Name: "Ternes", Lat: 48.8781, Lon: 2.2981},
		{ID: "M2:COURCELLES", Name: "Courcelles", Lat: 48.8794, Lon: 2.3034},
		{ID: "M2:MONCEAU", Name: "Monceau", Lat: 48.8806, Lon: 2.3094},
		{ID: "M2:VILLIERS", Name: "Villiers", Lat: 48.8812, Lon: 2.3158},
	}
	return []FixtureLine{
		{
			Line:      "METRO_1",
			Stops:     m1,
			Trips:     fixtureTrips("M1", m1),
			Transfers: []FixtureTransfer{{From: "M1:ETOILE", To: "M2:ETOILE", MinTransferTime: 180}},
		},
		{
			Line:      "METRO_2",
			Stops:     m2,
			Trips:     fixtureTrips("M2", m2),
			Transfers: []FixtureTransfer{{From: "M2:ETOILE", To: "M1:ETOILE", MinTransferTime: -1}},
		},
	}
}

func fixtureTrips(prefix string, stops []FixtureStop) []FixtureTrip {
	forward := make([]string, len(stops))
	backward := make([]string, len(stops))
	for i, s := range stops {
		forward[i] = s.ID
		backward[len(stops)-1-i] = s.ID
	}

	var trips []FixtureTrip
	for k := 0; k < 3; k++ {
		start := 8*time.Hour + time.Duration(k)*10*time.Minute
		trips = append(trips,
			FixtureTrip{ID: fmt.Sprintf("%s-F%d", prefix, k), Stops: forward, Start: start, Hop: 2 * time.Minute, Dwell: 30 * time.Second},
			FixtureTrip{ID: fmt.Sprintf("%s-B%d", prefix, k), Stops: backward, Start: start, Hop: 2 * time.Minute, Dwell: 30 * time.Second},
		)
	}
	return trips
}

// SampleArchive is the nested archive of SampleNetwork.
func SampleArchive() ([]byte, error) {
	return BuildNestedArchive(SampleNetwork())
}
