package restapi

import (
	"net/http"

	"metrograph.onebusaway.org/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	g := api.GtfsManager.Graph()
	lines := api.lineModels(g)

	references := models.NewEmptyReferences()
	references.Lines = lines
	api.sendResponse(w, r, models.NewListResponse(lines, references))
}
