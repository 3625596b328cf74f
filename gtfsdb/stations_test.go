package gtfsdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedClient(t *testing.T) *Client {
	t.Helper()
	client := newTestClient(t)
	_, err := client.ImportStations(context.Background(), "h", "test", parisStations())
	require.NoError(t, err)
	return client
}

func ids(stations []Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}

func TestGetStationsWithinBounds(t *testing.T) {
	client := importedClient(t)

	stations, err := client.GetStationsWithinBounds(context.Background(), 48.855, 2.34, 48.862, 2.36)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(stations))

	stations, err = client.GetStationsWithinBounds(context.Background(), 10, 10, 11, 11)
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestNearestStations(t *testing.T) {
	client := importedClient(t)
	ctx := context.Background()

	// Standing next to Châtelet.
	results, err := client.NearestStations(ctx, 48.8585, 2.3472, 1000, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "1", results[0].ID)
	assert.Less(t, results[0].Distance, 50.0)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}

	limited, err := client.NearestStations(ctx, 48.8585, 2.3472, 1000, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := client.NearestStations(ctx, 48.8585, 2.3472, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListStationsForLine(t *testing.T) {
	client := importedClient(t)

	stations, err := client.ListStationsForLine(context.Background(), "METRO_2")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, ids(stations))

	stations, err = client.ListStationsForLine(context.Background(), "RER_B")
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestGetStation_Missing(t *testing.T) {
	client := importedClient(t)

	_, err := client.GetStation(context.Background(), "404")
	assert.Error(t, err)
}
