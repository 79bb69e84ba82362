package ports

import (
	"net/http"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeGetRatingHistoryHandler serves GET /v1/players/{username}/rating-history.
func MakeGetRatingHistoryHandler(getRatingHistory app.GetPlayerRatingHistory, deps HandlerDeps) http.HandlerFunc {
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

		points, err := getRatingHistory(r.Context(), username, filter, loc)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ratingHistoryToResponse(points))
	})
}
