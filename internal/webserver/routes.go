package webserver

import (
	"net/http"

	"github.com/spboyer/qagen/internal/webapi"
)

// registerRoutes sets up the mock backend routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	webapi.RegisterRoutes(mux, cfg.Logger)
	mux.HandleFunc("/", handleNotFound)
}

// handleNotFound answers unknown paths in plain text, like the backend does.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "No endpoint "+r.Method+" "+r.URL.Path, http.StatusNotFound)
}
