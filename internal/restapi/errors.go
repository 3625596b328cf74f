package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"metrograph.onebusaway.org/internal/logging"
	"metrograph.onebusaway.org/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// invalidAPIKeyResponse sends a 401 Unauthorized response. Version is 1 here,
// unlike successful responses, for compatibility with OneBusAway clients.
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied", 1)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("path", r.URL.Path))
	api.writeError(w, r, http.StatusInternalServerError, "internal server error", 1)
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, code int, text string, version int) {
	response := errorResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode error response", "error", err)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode validation error response", "error", err)
	}
}
