package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams returns the named route parameter of r without a
// trailing ".json", so "/station/M1:ETOILE.json" yields "M1:ETOILE".
func ExtractIDFromParams(r *http.Request, paramName string) string {
	id := httprouter.ParamsFromContext(r.Context()).ByName(paramName)
	return strings.TrimSuffix(id, ".json")
}
