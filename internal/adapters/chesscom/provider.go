package chesscom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
	"github.com/madevisual/chessdash/internal/strutils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MonthGames is the result of fetching one monthly archive.
type MonthGames struct {
	Games []domain.Game
	ETag  string
	// NotModified is set when the API answered 304 for the etag we sent.
	// Games and ETag are empty in that case.
	NotModified bool
}

type GameProvider interface {
	// Raises domain.ErrPlayerNotFound if the username has no published archives.
	//
	// Raises domain.ErrTemporarilyUnavailable on errors believed to be intermittent. The call may be retried later.
	ListArchives(ctx context.Context, username string) ([]domain.ArchiveMonth, error)

	// GetMonthGames fetches one monthly archive, passing etag for a conditional request.
	GetMonthGames(ctx context.Context, username string, month domain.ArchiveMonth, etag string) (MonthGames, error)
}

type chessComGameProvider struct {
	api ChessComAPI

	metrics chessComGameProviderMetricsCollection
}

func NewChessComGameProvider(api ChessComAPI) (GameProvider, error) {
	meter := otel.Meter("chesscom/game_provider")
	metrics, err := setupChessComGameProviderMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &chessComGameProvider{
		api: api,

		metrics: metrics,
	}, nil
}

func (p *chessComGameProvider) ListArchives(ctx context.Context, username string) ([]domain.ArchiveMonth, error) {
	if !strutils.UsernameIsNormalized(username) {
		logging.FromContext(ctx).Error("Username is not normalized", "username", username)
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}

	data, statusCode, err := p.api.GetArchives(ctx, username)
	if err != nil {
		// NOTE: ChessComAPI implementations handle their own error reporting
		return nil, fmt.Errorf("failed to get archive index: %w", err)
	}

	months, err := ParseArchivesResponse(ctx, data, statusCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive index: %w", err)
	}

	p.metrics.archiveListCount.Add(ctx, 1, metric.WithAttributes(attribute.Int("months", len(months))))

	return months, nil
}

func (p *chessComGameProvider) GetMonthGames(ctx context.Context, username string, month domain.ArchiveMonth, etag string) (MonthGames, error) {
	if !strutils.UsernameIsNormalized(username) {
		logging.FromContext(ctx).Error("Username is not normalized", "username", username)
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return MonthGames{}, err
	}

	data, statusCode, newETag, err := p.api.GetMonthGames(ctx, username, month, etag)
	if err != nil {
		// NOTE: ChessComAPI implementations handle their own error reporting
		return MonthGames{}, fmt.Errorf("failed to get month archive: %w", err)
	}

	if statusCode == http.StatusNotModified {
		p.metrics.monthFetchCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "not_modified")))
		return MonthGames{NotModified: true}, nil
	}

	games, err := ParseMonthGames(ctx, username, data, statusCode)
	if err != nil {
		p.metrics.monthFetchCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return MonthGames{}, fmt.Errorf("failed to parse month archive: %w", err)
	}

	p.metrics.monthFetchCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "fetched")))

	return MonthGames{
		Games: games,
		ETag:  newETag,
	}, nil
}

type chessComGameProviderMetricsCollection struct {
	archiveListCount metric.Int64Counter
	monthFetchCount  metric.Int64Counter
}

func setupChessComGameProviderMetrics(meter metric.Meter) (chessComGameProviderMetricsCollection, error) {
	archiveListCount, err := meter.Int64Counter("chesscom/game_provider/archive_lists")
	if err != nil {
		return chessComGameProviderMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	monthFetchCount, err := meter.Int64Counter("chesscom/game_provider/month_fetches")
	if err != nil {
		return chessComGameProviderMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	return chessComGameProviderMetricsCollection{
		archiveListCount: archiveListCount,
		monthFetchCount:  monthFetchCount,
	}, nil
}
