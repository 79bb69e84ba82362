package app

import (
	"context"
	"fmt"
	"time"

	"github.com/madevisual/chessdash/internal/adapters/cache"
	"github.com/madevisual/chessdash/internal/adapters/chesscom"
	"github.com/madevisual/chessdash/internal/adapters/gamerepository"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
	"github.com/madevisual/chessdash/internal/strutils"
)

// SyncPlayerGames brings the local cache of the player's games up to date with
// the chess.com published archives. With force set, every month is re-checked
// against the API regardless of local state.
type SyncPlayerGames func(ctx context.Context, username string, force bool) (domain.SyncReport, error)

// A finished month never changes, but the current month grows as the player
// plays. Re-check it against the API when the local copy is older than this.
const currentMonthRefreshInterval = 24 * time.Hour

func syncPlayerGamesWithoutCache(
	ctx context.Context,
	provider chesscom.GameProvider,
	repo gamerepository.GameRepository,
	username string,
	force bool,
	now time.Time,
) (domain.SyncReport, error) {
	logger := logging.FromContext(ctx)

	months, err := provider.ListArchives(ctx, username)
	if err != nil {
		// NOTE: GameProvider implementations handle their own error reporting
		return domain.SyncReport{}, fmt.Errorf("could not list archives: %w", err)
	}

	states, err := repo.GetArchiveStates(ctx, username)
	if err != nil {
		// NOTE: GameRepository implementations handle their own error reporting
		return domain.SyncReport{}, fmt.Errorf("could not get archive states: %w", err)
	}
	stateByMonth := make(map[domain.ArchiveMonth]domain.ArchiveState, len(states))
	for _, state := range states {
		stateByMonth[state.Month] = state
	}

	currentMonth := domain.ArchiveMonthOf(now)

	report := domain.SyncReport{
		Username:     username,
		MonthsListed: len(months),
	}

	for _, month := range months {
		state, stored := stateByMonth[month]

		if stored && !force {
			isCurrent := month.Compare(currentMonth) >= 0
			if !isCurrent {
				// Finished months are immutable once fetched
				report.MonthsSkipped++
				continue
			}
			if now.Sub(state.FetchedAt) < currentMonthRefreshInterval {
				report.MonthsSkipped++
				continue
			}
		}

		monthGames, err := provider.GetMonthGames(ctx, username, month, state.ETag)
		if err != nil {
			// NOTE: GameProvider implementations handle their own error reporting
			return report, fmt.Errorf("could not get games for %s: %w", month, err)
		}

		if monthGames.NotModified {
			if err := repo.TouchArchive(ctx, username, month, now); err != nil {
				// NOTE: GameRepository implementations handle their own error reporting
				return report, fmt.Errorf("could not touch archive for %s: %w", month, err)
			}
			report.MonthsSkipped++
			continue
		}

		if err := repo.ReplaceMonth(ctx, username, month, monthGames.ETag, monthGames.Games, now); err != nil {
			// NOTE: GameRepository implementations handle their own error reporting
			return report, fmt.Errorf("could not store games for %s: %w", month, err)
		}

		report.MonthsFetched++
		report.GamesFetched += len(monthGames.Games)
	}

	logger.Info(
		"Synced player games",
		"monthsListed", report.MonthsListed,
		"monthsFetched", report.MonthsFetched,
		"monthsSkipped", report.MonthsSkipped,
		"gamesFetched", report.GamesFetched,
	)

	return report, nil
}

func BuildSyncPlayerGames(
	syncCache cache.Cache[domain.SyncReport],
	provider chesscom.GameProvider,
	repo gamerepository.GameRepository,
	nowFunc func() time.Time,
) SyncPlayerGames {
	return func(ctx context.Context, username string, force bool) (domain.SyncReport, error) {
		normalized, err := strutils.NormalizeUsername(username)
		if err != nil {
			logging.FromContext(ctx).Error("Invalid username", "username", username)
			reporting.Report(ctx, err, map[string]string{
				"username": username,
			})
			return domain.SyncReport{}, fmt.Errorf("%w: %s", domain.ErrInvalidUsername, err.Error())
		}

		// Concurrent syncs for the same player collapse into one API pass.
		// Forced syncs get their own key so they can't be satisfied by a
		// recent unforced result.
		key := normalized
		if force {
			key = "force:" + normalized
		}

		report, _, err := cache.GetOrCreate(ctx, syncCache, key, func() (domain.SyncReport, error) {
			return syncPlayerGamesWithoutCache(ctx, provider, repo, normalized, force, nowFunc())
		})
		if err != nil {
			// NOTE: syncPlayerGamesWithoutCache handles its own error reporting
			return domain.SyncReport{}, fmt.Errorf("failed to sync player games: %w", err)
		}

		return report, nil
	}
}
