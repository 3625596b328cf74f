package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"metrograph.onebusaway.org/internal/models"
	"metrograph.onebusaway.org/internal/routing"
	"metrograph.onebusaway.org/internal/utils"
)

// reachableHandler lists the stations within ?maxCost= of a station. The
// limit is a clock value such as "00:15" or a number of seconds.
func (api *RestAPI) reachableHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	query := r.URL.Query()

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateID(id); err != nil {
		fieldErrors["id"] = append(fieldErrors["id"], err.Error())
	}
	maxCost, ok, fieldErrors := utils.ParseClockParameter(query, "maxCost", fieldErrors)
	if !ok && len(fieldErrors["maxCost"]) == 0 {
		fieldErrors["maxCost"] = append(fieldErrors["maxCost"], `Missing required field "maxCost".`)
	}
	departAt, scheduled, fieldErrors := utils.ParseClockParameter(query, "departAt", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	var opts []routing.QueryOption
	if scheduled {
		opts = append(opts, routing.WithDepartAt(departAt))
	}
	network := api.GtfsManager.Network()
	reaches, err := network.Reachable(id, maxCost, opts...)
	if err != nil {
		if errors.Is(err, routing.ErrUnknownStation) {
			api.sendNotFound(w, r, fmt.Sprintf("unknown station %q", id))
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.ReachableStation, 0, len(reaches))
	ids := make([]string, 0, len(reaches))
	for _, reach := range reaches {
		list = append(list, models.ReachableStation{
			StationID: reach.Station.ID,
			Cost:      seconds(reach.Cost),
		})
		ids = append(ids, reach.Station.ID)
	}
	api.sendResponse(w, r, models.NewListResponse(list, api.referencesFor(network.Graph, ids)))
}
