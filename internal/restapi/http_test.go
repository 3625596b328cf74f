package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"metrograph.onebusaway.org/internal/app"
	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/metrics"
	"metrograph.onebusaway.org/internal/models"
)

const testKey = "TEST"

// createTestApi serves the sample network of two crossing metro lines.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithLines(t, gtfs.SampleNetwork())
}

func createTestApiWithLines(t *testing.T, lines []gtfs.FixtureLine) *RestAPI {
	b, err := gtfs.BuildNestedArchive(lines)
	require.NoError(t, err)

	collector := metrics.New()
	gtfsConfig := gtfs.Config{
		GTFSDataPath: ":memory:",
		Env:          appconf.Test,
		Metrics:      collector,
	}
	gtfsManager, err := gtfs.NewManagerFromArchive(gtfsConfig, b)
	require.NoError(t, err)
	t.Cleanup(gtfsManager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{testKey},
			RateLimit: 100,
		},
		GtfsConfig:  gtfsConfig,
		GtfsManager: gtfsManager,
		Metrics:     collector,
	}
	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// withIsolatedLine adds METRO_3, which has no transfer to the other lines.
func withIsolatedLine() []gtfs.FixtureLine {
	stops := []gtfs.FixtureStop{
		{ID: "M3:PEREIRE", Name: "Pereire", Lat: 48.8849, Lon: 2.2978},
		{ID: "M3:WAGRAM", Name: "Wagram", Lat: 48.8838, Lon: 2.3045},
	}
	return append(gtfs.SampleNetwork(), gtfs.FixtureLine{
		Line:  "METRO_3",
		Stops: stops,
		Trips: []gtfs.FixtureTrip{{
			ID:    "M3-F0",
			Stops: []string{"M3:PEREIRE", "M3:WAGRAM"},
			Start: 8 * time.Hour,
			Hop:   2 * time.Minute,
		}},
	})
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	resp, body := serveApiAndRetrieveBody(t, api, endpoint)

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(body, &response), string(body))
	return resp, response
}

func serveApiAndRetrieveBody(t *testing.T, api *RestAPI, endpoint string) (*http.Response, []byte) {
	req := httptest.NewRequest(http.MethodGet, endpoint, nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	resp := rec.Result()
	return resp, rec.Body.Bytes()
}

func dataOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", model.Data)
	return data
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	list, ok := dataOf(t, model)["list"].([]interface{})
	require.True(t, ok)
	return list
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	entry, ok := dataOf(t, model)["entry"].(map[string]interface{})
	require.True(t, ok)
	return entry
}

func referencedStationIDs(t *testing.T, model models.ResponseModel) []string {
	refs, ok := dataOf(t, model)["references"].(map[string]interface{})
	require.True(t, ok)
	var ids []string
	for _, s := range refs["stations"].([]interface{}) {
		ids = append(ids, s.(map[string]interface{})["id"].(string))
	}
	return ids
}
