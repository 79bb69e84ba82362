package ports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	marshalled, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(marshalled)
}

// writeDomainError maps known sentinel errors to status codes. Anything
// unrecognized is a 500 and gets reported.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid username"})
	case errors.Is(err, domain.ErrPlayerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
	case errors.Is(err, domain.ErrNoGames):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no games stored for player. sync first"})
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "chess.com api temporarily unavailable"})
	default:
		logging.FromContext(r.Context()).Error("Unhandled error in handler", "error", err.Error())
		reporting.Report(r.Context(), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}
