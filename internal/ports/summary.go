package ports

import (
	"net/http"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeGetSummaryHandler serves GET /v1/players/{username}/summary.
func MakeGetSummaryHandler(getPlayerSummary app.GetPlayerSummary, deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		filter, err := parseGameFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		summary, err := getPlayerSummary(r.Context(), username, filter)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, summaryToResponse(summary))
	})
}
