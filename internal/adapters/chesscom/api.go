package chesscom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
)

const baseURL = "https://api.chess.com/pub"

// Upstream requests should comfortably finish within this bound.
const maxUpstreamRequestTime = 30 * time.Second

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestLimiter paces outbound requests to the chess.com API.
type RequestLimiter interface {
	Limit(ctx context.Context, maxOperationTime time.Duration, operation func()) bool
}

// ChessComAPI is the raw published-data API: bytes in, status codes out.
type ChessComAPI interface {
	// GetArchives fetches the list of monthly archive URLs for a player.
	GetArchives(ctx context.Context, username string) ([]byte, int, error)
	// GetMonthGames fetches one monthly archive. A non-empty etag is sent as
	// If-None-Match; a 304 response returns no data and an empty new etag.
	GetMonthGames(ctx context.Context, username string, month domain.ArchiveMonth, etag string) (data []byte, statusCode int, newETag string, err error)
}

type chessComAPIImpl struct {
	httpClient HttpClient
	userAgent  string
	limiter    RequestLimiter
}

func NewChessComAPI(httpClient HttpClient, contactEmail string, limiter RequestLimiter) ChessComAPI {
	userAgent := "chessdash"
	if contactEmail != "" {
		userAgent = fmt.Sprintf("chessdash (+mailto:%s)", contactEmail)
	}
	return &chessComAPIImpl{
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

func (api *chessComAPIImpl) GetArchives(ctx context.Context, username string) ([]byte, int, error) {
	url := fmt.Sprintf("%s/player/%s/games/archives", baseURL, username)
	data, statusCode, _, err := api.get(ctx, url, "")
	return data, statusCode, err
}

func (api *chessComAPIImpl) GetMonthGames(ctx context.Context, username string, month domain.ArchiveMonth, etag string) ([]byte, int, string, error) {
	url := fmt.Sprintf("%s/player/%s/games/%04d/%02d", baseURL, username, month.Year, int(month.Month))
	return api.get(ctx, url, etag)
}

func (api *chessComAPIImpl) get(ctx context.Context, url string, etag string) ([]byte, int, string, error) {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, "", err
	}

	req.Header.Set("User-Agent", api.userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	start := time.Now()
	var resp *http.Response
	var doErr error
	ran := api.limiter.Limit(ctx, maxUpstreamRequestTime, func() {
		resp, doErr = api.httpClient.Do(req)
	})
	if !ran {
		err := fmt.Errorf("request limiter refused request: %w", domain.ErrTemporarilyUnavailable)
		logger.Error(err.Error())
		return nil, -1, "", err
	}
	if doErr != nil {
		err := fmt.Errorf("failed to send request: %w", doErr)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, "", err
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read response body: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, -1, "", err
	}

	logger.Info("chess.com request completed", "url", url, "status", resp.StatusCode, "duration", time.Since(start).String())

	return data, resp.StatusCode, resp.Header.Get("ETag"), nil
}
