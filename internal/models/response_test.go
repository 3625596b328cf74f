package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func TestNewResponse(t *testing.T) {
	before := nowMillis()
	response := NewResponse(http.StatusUnprocessableEntity, nil, "expansion budget exhausted")
	after := nowMillis()

	assert.Equal(t, http.StatusUnprocessableEntity, response.Code)
	assert.Equal(t, "expansion budget exhausted", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewEntryResponse(t *testing.T) {
	entry := PathEntry{FromStationID: "A", ToStationID: "B", Found: true}
	references := NewEmptyReferences()

	response := NewEntryResponse(entry, references)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entry, data["entry"])
	assert.Equal(t, references, data["references"])
}

func TestNewListResponse(t *testing.T) {
	list := []ReachableStation{{StationID: "A", Cost: 0}}

	response := NewListResponse(list, NewEmptyReferences())
	data := response.Data.(map[string]interface{})
	assert.Equal(t, list, data["list"])
	assert.False(t, data["limitExceeded"].(bool))

	limited := NewListResponseWithLimit(list, NewEmptyReferences(), true)
	assert.True(t, limited.Data.(map[string]interface{})["limitExceeded"].(bool))
}

func TestPathEntryJSON(t *testing.T) {
	notFound := PathEntry{FromStationID: "A", ToStationID: "Z", StationIDs: []string{}, Legs: []Leg{}}

	b, err := json.Marshal(notFound)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fromStationId": "A",
		"toStationId": "Z",
		"found": false,
		"scheduled": false,
		"totalCost": 0,
		"expanded": 0,
		"stationIds": [],
		"legs": [],
		"polyline": {"length": 0, "levels": "", "points": ""}
	}`, string(b))
}
