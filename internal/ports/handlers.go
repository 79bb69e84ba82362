package ports

import (
	"log/slog"
	"net/http"

	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/ratelimiting"
)

// HandlerDeps carries the cross-cutting pieces every endpoint handler wires
// into its middleware stack.
type HandlerDeps struct {
	Logger           *slog.Logger
	SentryMiddleware func(http.HandlerFunc) http.HandlerFunc
	AllowedOrigins   *DomainSuffixes
	IPRateLimiter    ratelimiting.RequestRateLimiter
}

func (deps HandlerDeps) wrap(handler http.HandlerFunc) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(deps.Logger),
		deps.SentryMiddleware,
		buildMetricsMiddleware(),
		BuildCORSMiddleware(deps.AllowedOrigins),
		NewRateLimitMiddleware(deps.IPRateLimiter, rateLimitExceeded),
	)
	return middleware(handler)
}
