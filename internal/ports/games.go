package ports

import (
	"net/http"

	"github.com/madevisual/chessdash/internal/app"
)

// MakeGetGamesHandler serves GET /v1/players/{username}/games.
func MakeGetGamesHandler(getPlayerGames app.GetPlayerGames, deps HandlerDeps) http.HandlerFunc {
	return deps.wrap(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		filter, err := parseGameFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		games, err := getPlayerGames(r.Context(), username, filter)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, gamesToResponse(username, games))
	})
}
