package app

import (
	"context"
	"fmt"
	"time"

	"github.com/madevisual/chessdash/internal/adapters/gamerepository"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
	"github.com/madevisual/chessdash/internal/stats"
	"github.com/madevisual/chessdash/internal/strutils"
)

type GetPlayerGames func(ctx context.Context, username string, filter domain.GameFilter) ([]domain.Game, error)

// PlayerSummary is the headline view of a player's games.
type PlayerSummary struct {
	Summary     stats.Summary
	ByTimeClass []stats.ClassSummary
}

type GetPlayerSummary func(ctx context.Context, username string, filter domain.GameFilter) (PlayerSummary, error)

// OpeningsReport lists per-opening performance with the best and worst
// highlighted. Best and Worst are nil when no games have opening metadata.
type OpeningsReport struct {
	Openings []stats.OpeningPerformance
	Best     *stats.OpeningPerformance
	Worst    *stats.OpeningPerformance
}

type GetPlayerOpenings func(ctx context.Context, username string, filter domain.GameFilter, color *domain.Color) (OpeningsReport, error)

type GetPlayerRatingHistory func(ctx context.Context, username string, filter domain.GameFilter, loc *time.Location) ([]stats.RatingPoint, error)

type GetPlayerSeasonality func(ctx context.Context, username string, filter domain.GameFilter, loc *time.Location) (stats.Seasonality, error)

func normalizeOrReport(ctx context.Context, username string) (string, error) {
	normalized, err := strutils.NormalizeUsername(username)
	if err != nil {
		logging.FromContext(ctx).Error("Invalid username", "username", username)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidUsername, err.Error())
	}
	return normalized, nil
}

// loadGames fetches stored games for stats queries. An empty result is
// domain.ErrNoGames so callers can distinguish "never synced" from zero stats.
func loadGames(ctx context.Context, repo gamerepository.GameRepository, username string, filter domain.GameFilter) ([]domain.Game, error) {
	games, err := repo.GetGames(ctx, username, filter)
	if err != nil {
		// NOTE: GameRepository implementations handle their own error reporting
		return nil, fmt.Errorf("could not get games: %w", err)
	}
	if len(games) == 0 {
		return nil, domain.ErrNoGames
	}
	return games, nil
}

func BuildGetPlayerGames(repo gamerepository.GameRepository) GetPlayerGames {
	return func(ctx context.Context, username string, filter domain.GameFilter) ([]domain.Game, error) {
		normalized, err := normalizeOrReport(ctx, username)
		if err != nil {
			return nil, err
		}

		games, err := repo.GetGames(ctx, normalized, filter)
		if err != nil {
			// NOTE: GameRepository implementations handle their own error reporting
			return nil, fmt.Errorf("could not get games: %w", err)
		}

		return games, nil
	}
}

func BuildGetPlayerSummary(repo gamerepository.GameRepository) GetPlayerSummary {
	return func(ctx context.Context, username string, filter domain.GameFilter) (PlayerSummary, error) {
		normalized, err := normalizeOrReport(ctx, username)
		if err != nil {
			return PlayerSummary{}, err
		}

		games, err := loadGames(ctx, repo, normalized, filter)
		if err != nil {
			return PlayerSummary{}, err
		}

		return PlayerSummary{
			Summary:     stats.Summarize(games),
			ByTimeClass: stats.SummarizeByTimeClass(games),
		}, nil
	}
}

func BuildGetPlayerOpenings(repo gamerepository.GameRepository) GetPlayerOpenings {
	return func(ctx context.Context, username string, filter domain.GameFilter, color *domain.Color) (OpeningsReport, error) {
		normalized, err := normalizeOrReport(ctx, username)
		if err != nil {
			return OpeningsReport{}, err
		}

		games, err := loadGames(ctx, repo, normalized, filter)
		if err != nil {
			return OpeningsReport{}, err
		}

		report := OpeningsReport{
			Openings: stats.OpeningsByColor(games, color),
		}
		if best, worst, ok := stats.BestAndWorst(report.Openings); ok {
			report.Best = &best
			report.Worst = &worst
		}

		return report, nil
	}
}

func BuildGetPlayerRatingHistory(repo gamerepository.GameRepository) GetPlayerRatingHistory {
	return func(ctx context.Context, username string, filter domain.GameFilter, loc *time.Location) ([]stats.RatingPoint, error) {
		normalized, err := normalizeOrReport(ctx, username)
		if err != nil {
			return nil, err
		}

		games, err := loadGames(ctx, repo, normalized, filter)
		if err != nil {
			return nil, err
		}

		return stats.DailyRatings(games, loc), nil
	}
}

func BuildGetPlayerSeasonality(repo gamerepository.GameRepository) GetPlayerSeasonality {
	return func(ctx context.Context, username string, filter domain.GameFilter, loc *time.Location) (stats.Seasonality, error) {
		normalized, err := normalizeOrReport(ctx, username)
		if err != nil {
			return stats.Seasonality{}, err
		}

		games, err := loadGames(ctx, repo, normalized, filter)
		if err != nil {
			return stats.Seasonality{}, err
		}

		return stats.ComputeSeasonality(games, loc), nil
	}
}
