package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/madevisual/chessdash/internal/adapters/cache"
	"github.com/madevisual/chessdash/internal/adapters/chesscom"
	"github.com/madevisual/chessdash/internal/adapters/gamerepository"
	"github.com/madevisual/chessdash/internal/app"
	"github.com/madevisual/chessdash/internal/config"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/ports"
	"github.com/madevisual/chessdash/internal/ratelimiting"
	"github.com/madevisual/chessdash/internal/reporting"
	"github.com/madevisual/chessdash/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "chessdash.net"

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	ctx := context.Background()

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, "chessdash")
	if err != nil {
		fail("Failed to initialize OpenTelemetry", "error", err.Error())
	}
	defer otelShutdown(context.Background())

	// Collapses concurrent and rapidly repeated syncs for the same player
	syncCache := cache.NewTTLCache[domain.SyncReport](1 * time.Minute)

	httpClient := &http.Client{
		Timeout:   60 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	// chess.com asks published-data API consumers to keep request rates modest
	upstreamLimiter := ratelimiting.NewWindowLimitRequestLimiter(10, 1*time.Second, time.Now, time.After)

	chessComAPI := chesscom.NewChessComAPI(httpClient, config.ContactEmail(), upstreamLimiter)
	gameProvider, err := chesscom.NewChessComGameProvider(chessComAPI)
	if err != nil {
		fail("Failed to initialize chess.com game provider", "error", err.Error())
	}
	logger.Info("Initialized chess.com game provider")

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	gameRepo, err := gamerepository.NewPostgresGameRepositoryOrFallback(ctx, config, logger)
	if err != nil {
		fail("Failed to initialize game repository", "error", err.Error())
	}
	logger.Info("Initialized game repository")

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	ipRateLimiter, stopRateLimiter := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(2),
		ratelimiting.BurstSize(30),
	)
	defer stopRateLimiter()
	requestRateLimiter := ratelimiting.NewRequestBasedRateLimiter(ipRateLimiter, ratelimiting.IPKeyFunc)

	syncPlayerGames := app.BuildSyncPlayerGames(syncCache, gameProvider, gameRepo, time.Now)
	getPlayerGames := app.BuildGetPlayerGames(gameRepo)
	getPlayerSummary := app.BuildGetPlayerSummary(gameRepo)
	getPlayerOpenings := app.BuildGetPlayerOpenings(gameRepo)
	getPlayerRatingHistory := app.BuildGetPlayerRatingHistory(gameRepo)
	getPlayerSeasonality := app.BuildGetPlayerSeasonality(gameRepo)

	deps := func(port string) ports.HandlerDeps {
		return ports.HandlerDeps{
			Logger:           logger.With("port", port),
			SentryMiddleware: ports.ComposeMiddlewares(reporting.NewAddMetaMiddleware(port), sentryMiddleware),
			AllowedOrigins:   allowedOrigins,
			IPRateLimiter:    requestRateLimiter,
		}
	}

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/sync",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/players/{username}/sync",
		ports.MakeSyncPlayerHandler(syncPlayerGames, deps("sync")),
	)

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/games",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/players/{username}/games",
		ports.MakeGetGamesHandler(getPlayerGames, deps("games")),
	)

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/summary",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/players/{username}/summary",
		ports.MakeGetSummaryHandler(getPlayerSummary, deps("summary")),
	)

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/openings",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/players/{username}/openings",
		ports.MakeGetOpeningsHandler(getPlayerOpenings, deps("openings")),
	)

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/rating-history",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/players/{username}/rating-history",
		ports.MakeGetRatingHistoryHandler(getPlayerRatingHistory, deps("ratinghistory")),
	)

	http.HandleFunc(
		"OPTIONS /v1/players/{username}/seasonality",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/players/{username}/seasonality",
		ports.MakeGetSeasonalityHandler(getPlayerSeasonality, deps("seasonality")),
	)

	http.HandleFunc(
		"GET /",
		ports.MakeDashboardHandler(deps("dashboard")),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
