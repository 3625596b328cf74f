package app

import (
	"net/http"
	"slices"
)

// RequestHasInvalidAPIKey checks the key query parameter of r.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	return key == "" || !slices.Contains(app.Config.ApiKeys, key)
}
