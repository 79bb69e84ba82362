package stats_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/domaintest"
	"github.com/madevisual/chessdash/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openingGames(opening string, color domain.Color, wins, draws, losses int) []domain.Game {
	games := make([]domain.Game, 0, wins+draws+losses)
	add := func(count int, result domain.Result) {
		for i := 0; i < count; i++ {
			games = append(games, domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 1+len(games)%28, 12, 0, 0, 0, time.UTC)).
				WithOpening(fmt.Sprintf("X%02d", len(opening)), opening).
				WithColor(color).
				WithResult(result).
				Build())
		}
	}
	add(wins, domain.ResultWin)
	add(draws, domain.ResultDraw)
	add(losses, domain.ResultLoss)
	return games
}

func TestOpeningsByColor(t *testing.T) {
	t.Parallel()

	t.Run("aggregates per opening name", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Sicilian Defense", domain.ColorWhite, 3, 1, 1)
		games = append(games, openingGames("Caro Kann Defense", domain.ColorWhite, 1, 0, 1)...)

		performances := stats.OpeningsByColor(games, nil)
		require.Len(t, performances, 2)

		sicilian := performances[0]
		assert.Equal(t, "Sicilian Defense", sicilian.Opening)
		assert.Equal(t, 5, sicilian.Games)
		assert.Equal(t, 3, sicilian.Wins)
		assert.InDelta(t, 0.6, sicilian.WinRate, 1e-9)
		assert.InDelta(t, 0.7, sicilian.Score, 1e-9)
	})

	t.Run("filters by color", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Sicilian Defense", domain.ColorWhite, 2, 0, 0)
		games = append(games, openingGames("Caro Kann Defense", domain.ColorBlack, 0, 0, 2)...)

		white := domain.ColorWhite
		performances := stats.OpeningsByColor(games, &white)
		require.Len(t, performances, 1)
		assert.Equal(t, "Sicilian Defense", performances[0].Opening)
	})

	t.Run("missing opening metadata is grouped", func(t *testing.T) {
		t.Parallel()
		game := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 1, 12, 0, 0, 0, time.UTC)).Build()
		performances := stats.OpeningsByColor([]domain.Game{game}, nil)
		require.Len(t, performances, 1)
		assert.Equal(t, stats.UnknownOpening, performances[0].Opening)
	})
}

func TestBestAndWorst(t *testing.T) {
	t.Parallel()

	t.Run("prefers openings with at least 20 games", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Main Line", domain.ColorWhite, 12, 0, 8)       // 20 games, win rate 0.6
		games = append(games, openingGames("Other Line", domain.ColorWhite, 10, 0, 10)...) // 20 games, win rate 0.5
		games = append(games, openingGames("Lucky Line", domain.ColorWhite, 2, 0, 0)...)   // 2 games, win rate 1.0

		best, worst, ok := stats.BestAndWorst(stats.OpeningsByColor(games, nil))
		require.True(t, ok)
		assert.Equal(t, "Main Line", best.Opening)
		assert.Equal(t, "Other Line", worst.Opening)
	})

	t.Run("relaxes the threshold when no opening qualifies", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Rare Line", domain.ColorWhite, 1, 0, 0)
		games = append(games, openingGames("Rarer Line", domain.ColorWhite, 0, 0, 1)...)

		best, worst, ok := stats.BestAndWorst(stats.OpeningsByColor(games, nil))
		require.True(t, ok)
		assert.Equal(t, "Rare Line", best.Opening)
		assert.Equal(t, "Rarer Line", worst.Opening)
	})

	t.Run("mid threshold of 10 games", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Ten Games", domain.ColorWhite, 5, 0, 5)
		games = append(games, openingGames("Two Games", domain.ColorWhite, 2, 0, 0)...)

		best, worst, ok := stats.BestAndWorst(stats.OpeningsByColor(games, nil))
		require.True(t, ok)
		assert.Equal(t, "Ten Games", best.Opening)
		assert.Equal(t, "Ten Games", worst.Opening)
	})

	t.Run("ranks by win rate, not draw-adjusted score", func(t *testing.T) {
		t.Parallel()
		// Decisive Line: 10W/10L, win rate 0.50. Drawish Line: 9W/11D,
		// win rate 0.45 despite never losing.
		games := openingGames("Decisive Line", domain.ColorWhite, 10, 0, 10)
		games = append(games, openingGames("Drawish Line", domain.ColorWhite, 9, 11, 0)...)

		best, worst, ok := stats.BestAndWorst(stats.OpeningsByColor(games, nil))
		require.True(t, ok)
		assert.Equal(t, "Decisive Line", best.Opening)
		assert.Equal(t, "Drawish Line", worst.Opening)
	})

	t.Run("equal win rates break on game count", func(t *testing.T) {
		t.Parallel()
		games := openingGames("Big Sample", domain.ColorWhite, 15, 0, 15)
		games = append(games, openingGames("Small Sample", domain.ColorWhite, 10, 0, 10)...)

		best, worst, ok := stats.BestAndWorst(stats.OpeningsByColor(games, nil))
		require.True(t, ok)
		assert.Equal(t, "Big Sample", best.Opening)
		assert.Equal(t, "Small Sample", worst.Opening)
	})

	t.Run("no openings at all", func(t *testing.T) {
		t.Parallel()
		_, _, ok := stats.BestAndWorst(nil)
		assert.False(t, ok)
	})
}
