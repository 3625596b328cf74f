package restapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTimeHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/current-time.json?key=TEST")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, model.Version)
	entry := entryOf(t, model)
	assert.NotEmpty(t, entry["readableTime"])
	assert.InDelta(t, float64(model.CurrentTime), entry["time"].(float64), 5000)
}

func TestInvalidAPIKey(t *testing.T) {
	for _, endpoint := range []string{
		"/api/where/current-time.json",
		"/api/where/lines.json?key=WRONG",
		"/api/where/path.json?key=nope&from=M1:ETOILE&to=M1:CHATELET",
	} {
		t.Run(endpoint, func(t *testing.T) {
			_, resp, model := serveAndRetrieveEndpoint(t, endpoint)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, http.StatusUnauthorized, model.Code)
			assert.Equal(t, 1, model.Version)
			assert.Equal(t, "permission denied", model.Text)
		})
	}
}

func TestLinesHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/lines.json?key=TEST")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listOf(t, model)
	require.Len(t, list, 2)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "METRO_1", first["id"])
	assert.Equal(t, "1", first["shortName"])
	assert.Equal(t, "METRO", first["mode"])
	assert.Equal(t, "#f2c931", first["color"])
	assert.Equal(t, float64(5), first["stationCount"])
	assert.Equal(t, "#216eb4", list[1].(map[string]interface{})["color"])
}

func TestStationsHandler(t *testing.T) {
	api := createTestApi(t)

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/stations.json?key=TEST")
	assert.Len(t, listOf(t, model), 10)

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/where/stations.json?key=TEST&line=METRO_2")
	list := listOf(t, model)
	require.Len(t, list, 5)
	for _, s := range list {
		assert.Equal(t, "METRO_2", s.(map[string]interface{})["line"])
	}

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/stations.json?key=TEST&line=METRO_42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, model.Code)
}

func TestStationHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/station/M1:ETOILE.json?key=TEST")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "M1:ETOILE", entry["id"])
	assert.Equal(t, "Charles de Gaulle - Etoile (1)", entry["label"])

	outgoing := entry["outgoing"].([]interface{})
	// Three forward departures towards George V and the transfer.
	require.Len(t, outgoing, 4)
	var transfers int
	for _, e := range outgoing {
		edge := e.(map[string]interface{})
		if edge["type"] == "TRANSFER" {
			transfers++
			assert.Equal(t, "M2:ETOILE", edge["to"])
			assert.Equal(t, float64(180), edge["cost"])
			continue
		}
		assert.Equal(t, "M1:GEORGEV", edge["to"])
		assert.Equal(t, float64(120), edge["cost"])
		assert.NotEmpty(t, edge["departure"])
	}
	assert.Equal(t, 1, transfers)
	assert.ElementsMatch(t, []string{"M1:ETOILE", "M1:GEORGEV", "M2:ETOILE"}, referencedStationIDs(t, model))
}

func TestStationHandler_Errors(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/station/M9:NOWHERE.json?key=TEST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, model.Text, "M9:NOWHERE")

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/station/bad%20id?key=TEST")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "fieldErrors")
}

func TestSearchStationsHandler(t *testing.T) {
	api := createTestApi(t)

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/search-stations.json?key=TEST&pattern=char")
	list := listOf(t, model)
	require.Len(t, list, 2)
	assert.Equal(t, "M1:ETOILE", list[0].(map[string]interface{})["id"])
	assert.Equal(t, "M2:ETOILE", list[1].(map[string]interface{})["id"])

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/where/search-stations.json?key=TEST&pattern=zzz")
	assert.Empty(t, listOf(t, model))

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/search-stations.json?key=TEST&pattern=(unclosed")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errs struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(body, &errs))
	assert.NotEmpty(t, errs.FieldErrors["pattern"])
}

func TestStationsForLocationHandler(t *testing.T) {
	api := createTestApi(t)

	_, model := serveApiAndRetrieveEndpoint(t, api,
		"/api/where/stations-for-location.json?key=TEST&lat=48.8738&lon=2.2950&radius=200")
	list := listOf(t, model)
	require.Len(t, list, 2)
	nearest := list[0].(map[string]interface{})
	assert.Equal(t, "M1:ETOILE", nearest["id"])
	assert.InDelta(t, 0, nearest["distance"].(float64), 1)
	assert.Equal(t, "M2:ETOILE", list[1].(map[string]interface{})["id"])
	assert.False(t, dataOf(t, model)["limitExceeded"].(bool))

	_, model = serveApiAndRetrieveEndpoint(t, api,
		"/api/where/stations-for-location.json?key=TEST&lat=48.8738&lon=2.2950&radius=200&maxCount=1")
	assert.Len(t, listOf(t, model), 1)
	assert.True(t, dataOf(t, model)["limitExceeded"].(bool))
}

func TestStationsForLocationHandler_Validation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing lat", "lon=2.29", "lat"},
		{"latitude out of range", "lat=91&lon=2.29", "lat"},
		{"longitude not a number", "lat=48.8&lon=east", "lon"},
		{"radius too large", "lat=48.8&lon=2.29&radius=50000", "radius"},
		{"negative count", "lat=48.8&lon=2.29&maxCount=-1", "maxCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := serveApiAndRetrieveBody(t, api, "/api/where/stations-for-location.json?key=TEST&"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var errs struct {
				FieldErrors map[string][]string `json:"fieldErrors"`
			}
			require.NoError(t, json.Unmarshal(body, &errs))
			assert.NotEmpty(t, errs.FieldErrors[tt.field])
		})
	}
}

func TestReachableHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/reachable/M1:CONCORDE.json?key=TEST&maxCost=00:04")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listOf(t, model)
	require.Len(t, list, 4)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "M1:CONCORDE", first["stationId"])
	assert.Equal(t, float64(0), first["cost"])

	costs := make(map[string]float64)
	for _, item := range list {
		reach := item.(map[string]interface{})
		costs[reach["stationId"].(string)] = reach["cost"].(float64)
	}
	assert.Equal(t, map[string]float64{
		"M1:CONCORDE": 0,
		"M1:FDR":      120,
		"M1:CHATELET": 120,
		"M1:GEORGEV":  240,
	}, costs)
}

func TestReachableHandler_Errors(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiAndRetrieveBody(t, api, "/api/where/reachable/M1:CONCORDE.json?key=TEST")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = serveApiAndRetrieveBody(t, api, "/api/where/reachable/M1:CONCORDE.json?key=TEST&maxCost=soon")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/reachable/M9:NOWHERE.json?key=TEST&maxCost=60")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, model.Code)
}

func TestNetworkGeoJSONHandler(t *testing.T) {
	api := createTestApi(t)

	resp, body := serveApiAndRetrieveBody(t, api, "/api/where/network.geojson?key=TEST")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(body, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)

	kinds := make(map[string]int)
	for _, f := range fc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	// 8 ride segments per line (4 hops in each direction) and 2 transfers.
	assert.Equal(t, map[string]int{"station": 10, "edge": 18}, kinds)
}
