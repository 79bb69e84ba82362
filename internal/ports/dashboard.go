package ports

import (
	_ "embed"
	"net/http"
)

//go:embed dashboard.html
var dashboardHTML []byte

// MakeDashboardHandler serves the embedded single-page dashboard at /.
func MakeDashboardHandler(deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(dashboardHTML)
	})
}
