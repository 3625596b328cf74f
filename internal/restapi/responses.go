package restapi

import (
	"encoding/json"
	"net/http"

	"metrograph.onebusaway.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	if response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request, text string) {
	if text == "" {
		text = "resource not found"
	}
	api.sendResponse(w, r, models.NewResponse(http.StatusNotFound, nil, text))
}

func (api *RestAPI) sendGeoJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
