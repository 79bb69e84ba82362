package ports

import (
	"net/http"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeGetOpeningsHandler serves GET /v1/players/{username}/openings. The
// optional color query parameter restricts to games played as that color.
func MakeGetOpeningsHandler(getPlayerOpenings app.GetPlayerOpenings, deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		filter, err := parseGameFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		color, err := parseColor(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		report, err := getPlayerOpenings(r.Context(), username, filter, color)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, openingsReportToResponse(report))
	})
}
