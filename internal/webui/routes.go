package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// SetWebUIRoutes registers the debug pages. They are meant for development
// and are not mounted in production.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
