package app

import (
	"context"
	"testing"
	"time"

	"github.com/madevisual/chessdash/internal/adapters/cache"
	"github.com/madevisual/chessdash/internal/adapters/chesscom"
	"github.com/madevisual/chessdash/internal/adapters/gamerepository"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockedGameProvider struct {
	archives    []domain.ArchiveMonth
	archivesErr error

	months   map[domain.ArchiveMonth]chesscom.MonthGames
	monthErr error

	listCalls  int
	monthCalls []domain.ArchiveMonth
}

func (m *mockedGameProvider) ListArchives(ctx context.Context, username string) ([]domain.ArchiveMonth, error) {
	m.listCalls++
	if m.archivesErr != nil {
		return nil, m.archivesErr
	}
	return m.archives, nil
}

func (m *mockedGameProvider) GetMonthGames(ctx context.Context, username string, month domain.ArchiveMonth, etag string) (chesscom.MonthGames, error) {
	m.monthCalls = append(m.monthCalls, month)
	if m.monthErr != nil {
		return chesscom.MonthGames{}, m.monthErr
	}
	monthGames := m.months[month]
	if etag != "" && etag == monthGames.ETag {
		return chesscom.MonthGames{NotModified: true}, nil
	}
	return monthGames, nil
}

func monthOf(year int, month time.Month) domain.ArchiveMonth {
	return domain.ArchiveMonth{Year: year, Month: month}
}

func gamesEnding(username string, times ...time.Time) []domain.Game {
	games := make([]domain.Game, 0, len(times))
	for _, endedAt := range times {
		games = append(games, domaintest.NewGameBuilder(username, endedAt).Build())
	}
	return games
}

func TestSyncPlayerGames(t *testing.T) {
	t.Parallel()

	november := monthOf(2023, time.November)
	december := monthOf(2023, time.December)
	january := monthOf(2024, time.January)

	// Mid-January: november and december are finished, january is current
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

	newProvider := func() *mockedGameProvider {
		return &mockedGameProvider{
			archives: []domain.ArchiveMonth{november, december, january},
			months: map[domain.ArchiveMonth]chesscom.MonthGames{
				november: {
					Games: gamesEnding("alice",
						time.Date(2023, time.November, 5, 10, 0, 0, 0, time.UTC),
						time.Date(2023, time.November, 6, 10, 0, 0, 0, time.UTC),
					),
					ETag: `W/"nov"`,
				},
				december: {
					Games: gamesEnding("alice",
						time.Date(2023, time.December, 24, 10, 0, 0, 0, time.UTC),
					),
					ETag: `W/"dec"`,
				},
				january: {
					Games: gamesEnding("alice",
						time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
					),
					ETag: `W/"jan"`,
				},
			},
		}
	}

	t.Run("initial sync fetches every month", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()

		report, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now)
		require.NoError(t, err)

		assert.Equal(t, 3, report.MonthsListed)
		assert.Equal(t, 3, report.MonthsFetched)
		assert.Equal(t, 0, report.MonthsSkipped)
		assert.Equal(t, 4, report.GamesFetched)

		games, err := repo.GetGames(t.Context(), "alice", domain.GameFilter{})
		require.NoError(t, err)
		assert.Len(t, games, report.GamesFetched)

		// Total games match the sum of per-month counts
		states, err := repo.GetArchiveStates(t.Context(), "alice")
		require.NoError(t, err)
		sum := 0
		for _, state := range states {
			sum += state.GameCount
		}
		assert.Equal(t, len(games), sum)
	})

	t.Run("second sync does not re-fetch cached months", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()

		_, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now)
		require.NoError(t, err)
		provider.monthCalls = nil

		report, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now.Add(time.Hour))
		require.NoError(t, err)

		assert.Empty(t, provider.monthCalls, "no month should be fetched again within the refresh interval")
		assert.Equal(t, 0, report.MonthsFetched)
		assert.Equal(t, 3, report.MonthsSkipped)
	})

	t.Run("stale current month is re-checked with its etag", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()

		_, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now)
		require.NoError(t, err)
		provider.monthCalls = nil

		later := now.Add(25 * time.Hour)
		report, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, later)
		require.NoError(t, err)

		// Only the current month was checked, and the etag matched
		assert.Equal(t, []domain.ArchiveMonth{january}, provider.monthCalls)
		assert.Equal(t, 0, report.MonthsFetched)
		assert.Equal(t, 3, report.MonthsSkipped)

		states, err := repo.GetArchiveStates(t.Context(), "alice")
		require.NoError(t, err)
		for _, state := range states {
			if state.Month == january {
				assert.Equal(t, later, state.FetchedAt, "304 should refresh the fetch time")
			}
		}
	})

	t.Run("changed current month is replaced", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()

		_, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now)
		require.NoError(t, err)

		// The player played another game, giving the month a new etag
		provider.months[january] = chesscom.MonthGames{
			Games: gamesEnding("alice",
				time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
				time.Date(2024, time.January, 16, 10, 0, 0, 0, time.UTC),
			),
			ETag: `W/"jan2"`,
		}

		report, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now.Add(25*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, report.MonthsFetched)
		assert.Equal(t, 2, report.GamesFetched)

		games, err := repo.GetGames(t.Context(), "alice", domain.GameFilter{})
		require.NoError(t, err)
		assert.Len(t, games, 5)
	})

	t.Run("force re-checks every month", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()

		_, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", false, now)
		require.NoError(t, err)
		provider.monthCalls = nil

		report, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "alice", true, now.Add(time.Hour))
		require.NoError(t, err)

		assert.Len(t, provider.monthCalls, 3)
		// All etags matched, so nothing was re-downloaded
		assert.Equal(t, 0, report.MonthsFetched)
		assert.Equal(t, 3, report.MonthsSkipped)
	})

	t.Run("player not found propagates", func(t *testing.T) {
		t.Parallel()
		provider := &mockedGameProvider{archivesErr: domain.ErrPlayerNotFound}
		repo := gamerepository.NewInMemoryGameRepository()

		_, err := syncPlayerGamesWithoutCache(t.Context(), provider, repo, "ghost", false, now)
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("BuildSyncPlayerGames normalizes the username", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()
		sync := BuildSyncPlayerGames(cache.NewBasicCache[domain.SyncReport](), provider, repo, func() time.Time { return now })

		report, err := sync(t.Context(), "Alice", false)
		require.NoError(t, err)
		assert.Equal(t, "alice", report.Username)

		_, err = sync(t.Context(), "not a username!", false)
		require.ErrorIs(t, err, domain.ErrInvalidUsername)
	})

	t.Run("BuildSyncPlayerGames collapses repeated syncs", func(t *testing.T) {
		t.Parallel()
		provider := newProvider()
		repo := gamerepository.NewInMemoryGameRepository()
		sync := BuildSyncPlayerGames(cache.NewBasicCache[domain.SyncReport](), provider, repo, func() time.Time { return now })

		first, err := sync(t.Context(), "alice", false)
		require.NoError(t, err)
		second, err := sync(t.Context(), "alice", false)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, provider.listCalls)
	})
}
