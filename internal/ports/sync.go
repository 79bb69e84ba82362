package ports

import (
	"net/http"
	"strconv"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeSyncPlayerHandler serves POST /v1/players/{username}/sync. The optional
// force=true query parameter re-checks every month against the API.
func MakeSyncPlayerHandler(syncPlayerGames app.SyncPlayerGames, deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		force := false
		if raw := r.URL.Query().Get("force"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid force"})
				return
			}
			force = parsed
		}

		report, err := syncPlayerGames(r.Context(), username, force)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, syncReportToResponse(report))
	})
}
