package ports

import (
	"net/http"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeGetSeasonalityHandler serves GET /v1/players/{username}/seasonality.
// The tz query parameter picks the time zone the buckets are computed in.
func MakeGetSeasonalityHandler(getSeasonality app.GetPlayerSeasonality, deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		filter, err := parseGameFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		loc, err := parseLocation(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		seasonality, err := getSeasonality(r.Context(), username, filter, loc)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, seasonalityToResponse(seasonality))
	})
}
