package restapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	polyline "github.com/twpayne/go-polyline"

	"metrograph.onebusaway.org/internal/models"
)

// decodePathEntry extracts the typed entry of a path response.
func decodePathEntry(t *testing.T, body []byte) models.PathEntry {
	var response struct {
		Code int `json:"code"`
		Data struct {
			Entry models.PathEntry `json:"entry"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &response), string(body))
	return response.Data.Entry
}

func TestPathHandler(t *testing.T) {
	api := createTestApi(t)

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := decodePathEntry(t, body)
	assert.True(t, entry.Found)
	assert.False(t, entry.Scheduled)
	assert.Equal(t, int64(720), entry.TotalCost)
	assert.Empty(t, entry.DepartAt)
	assert.Equal(t, []string{
		"M2:TERNES", "M2:ETOILE", "M1:ETOILE", "M1:GEORGEV", "M1:FDR", "M1:CONCORDE", "M1:CHATELET",
	}, entry.StationIDs)
	assert.Positive(t, entry.Expanded)
	assert.Nil(t, entry.Trace)

	require.Len(t, entry.Legs, 3)
	assert.Equal(t, "METRO_2", entry.Legs[0].Line)
	assert.Equal(t, "#216eb4", entry.Legs[0].Color)
	assert.Equal(t, []string{"M2:TERNES", "M2:ETOILE"}, entry.Legs[0].StationIDs)
	assert.True(t, entry.Legs[1].Transfer)
	assert.Equal(t, int64(120), entry.Legs[1].Cost)
	assert.Equal(t, "METRO_1", entry.Legs[2].Line)
	assert.Len(t, entry.Legs[2].StationIDs, 5)
	assert.Equal(t, "M1:CHATELET", entry.Legs[2].ToStationID)

	var legTotal int64
	for _, leg := range entry.Legs {
		legTotal += leg.Cost
	}
	assert.Equal(t, entry.TotalCost, legTotal)

	assert.Equal(t, 7, entry.Polyline.Length)
	coords, _, err := polyline.DecodeCoords([]byte(entry.Polyline.Points))
	require.NoError(t, err)
	require.Len(t, coords, 7)
	assert.InDelta(t, 48.8781, coords[0][0], 1e-5)
}

func TestPathHandler_Scheduled(t *testing.T) {
	api := createTestApi(t)

	_, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET&departAt=08:00")
	entry := decodePathEntry(t, body)

	require.True(t, entry.Found)
	assert.True(t, entry.Scheduled)
	assert.Equal(t, int64(1770), entry.TotalCost)
	assert.Equal(t, "08:00:00", entry.DepartAt)
	assert.Equal(t, "08:29:30", entry.ArriveAt)

	last := entry.Legs[len(entry.Legs)-1]
	assert.Equal(t, "M1-F2", last.TripID)
	assert.NotEmpty(t, last.Departure)
}

func TestPathHandler_Trace(t *testing.T) {
	api := createTestApi(t)

	_, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET&trace=true")
	entry := decodePathEntry(t, body)

	require.NotEmpty(t, entry.Trace)
	assert.Equal(t, "M2:TERNES", entry.Trace[0])
	assert.Len(t, entry.Trace, entry.Expanded)
	assert.NotContains(t, entry.Trace, "M1:CHATELET")
}

func TestPathHandler_SameStation(t *testing.T) {
	api := createTestApi(t)

	_, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M1:FDR&to=M1:FDR")
	entry := decodePathEntry(t, body)

	assert.True(t, entry.Found)
	assert.Equal(t, int64(0), entry.TotalCost)
	assert.Equal(t, []string{"M1:FDR"}, entry.StationIDs)
	assert.Empty(t, entry.Legs)
}

func TestPathHandler_NotFound(t *testing.T) {
	api := createTestApiWithLines(t, withIsolatedLine())

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M1:ETOILE&to=M3:WAGRAM")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entry := decodePathEntry(t, body)
	assert.False(t, entry.Found)
	assert.Equal(t, "M1:ETOILE", entry.FromStationID)
	assert.Equal(t, "M3:WAGRAM", entry.ToStationID)
	assert.Empty(t, entry.StationIDs)
	assert.Empty(t, entry.Legs)

	resp, _ = serveApiAndRetrieveBody(t, api, "/api/where/path.geojson?key=TEST&from=M1:ETOILE&to=M3:WAGRAM")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPathHandler_UnknownStation(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/path.json?key=TEST&from=M1:ETOILE&to=M9:NOWHERE")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, model.Code)
	assert.Contains(t, model.Text, "M9:NOWHERE")
}

func TestPathHandler_Budget(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET&budget=1")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "expansion budget exhausted", model.Text)

	api.Config.ExpansionBudget = 1
	resp, _ = serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// An explicit zero lifts the configured budget.
	resp, _ = serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&from=M2:TERNES&to=M1:CHATELET&budget=0")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPathHandler_Validation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing origin", "to=M1:CHATELET", "from"},
		{"invalid destination", "from=M1:ETOILE&to=M1%3CCHATELET", "to"},
		{"invalid departure", "from=M1:ETOILE&to=M1:CHATELET&departAt=noon", "departAt"},
		{"negative budget", "from=M1:ETOILE&to=M1:CHATELET&budget=-1", "budget"},
		{"invalid trace flag", "from=M1:ETOILE&to=M1:CHATELET&trace=maybe", "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := serveApiAndRetrieveBody(t, api, "/api/where/path.json?key=TEST&"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var errs struct {
				FieldErrors map[string][]string `json:"fieldErrors"`
			}
			require.NoError(t, json.Unmarshal(body, &errs))
			assert.NotEmpty(t, errs.FieldErrors[tt.field])
		})
	}
}

func TestPathGeoJSONHandler(t *testing.T) {
	api := createTestApi(t)

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/path.geojson?key=TEST&from=M2:TERNES&to=M1:CHATELET&trace=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(body, &fc))

	kinds := make(map[string]int)
	var aligns []string
	for _, f := range fc.Features {
		kind := f.Properties["kind"].(string)
		kinds[kind]++
		switch kind {
		case "leg":
			assert.Equal(t, "LineString", f.Geometry.Type)
		case "annotation":
			aligns = append(aligns, f.Properties["align"].(string))
		}
	}
	assert.Equal(t, 3, kinds["leg"])
	assert.Equal(t, 4, kinds["annotation"])
	assert.Positive(t, kinds["expanded"])
	assert.Equal(t, []string{"right", "right", "left", "left"}, aligns)
}
