package stats_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/domaintest"
	"github.com/madevisual/chessdash/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameAt(day int, result domain.Result) domain.Game {
	return domaintest.NewGameBuilder("alice", time.Date(2023, time.November, day, 12, 0, 0, 0, time.UTC)).
		WithResult(result).
		Build()
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty input gives a zero summary", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, stats.Summary{}, stats.Summarize(nil))
	})

	t.Run("counts and rates", func(t *testing.T) {
		t.Parallel()
		games := []domain.Game{
			gameAt(1, domain.ResultWin),
			gameAt(2, domain.ResultWin),
			gameAt(3, domain.ResultDraw),
			gameAt(4, domain.ResultLoss),
		}

		summary := stats.Summarize(games)
		assert.Equal(t, 4, summary.TotalGames)
		assert.Equal(t, 2, summary.Wins)
		assert.Equal(t, 1, summary.Draws)
		assert.Equal(t, 1, summary.Losses)
		assert.InDelta(t, 0.5, summary.WinRate, 1e-9)
		assert.InDelta(t, 0.25, summary.DrawRate, 1e-9)
		assert.InDelta(t, 0.25, summary.LossRate, 1e-9)
		assert.Equal(t, games[0].EndedAt, summary.FirstGameAt)
		assert.Equal(t, games[3].EndedAt, summary.LastGameAt)
	})

	t.Run("win draw and loss always sum to the total", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(42))
		results := []domain.Result{domain.ResultWin, domain.ResultDraw, domain.ResultLoss}

		games := make([]domain.Game, 0, 200)
		for i := range 200 {
			games = append(games, gameAt(1+i%28, results[rng.Intn(len(results))]))
		}

		summary := stats.Summarize(games)
		assert.Equal(t, summary.TotalGames, summary.Wins+summary.Draws+summary.Losses)
		assert.GreaterOrEqual(t, summary.WinRate, 0.0)
		assert.LessOrEqual(t, summary.WinRate, 1.0)
		assert.InDelta(t, 1.0, summary.WinRate+summary.DrawRate+summary.LossRate, 1e-9)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		t.Parallel()
		games := []domain.Game{
			gameAt(1, domain.ResultWin),
			gameAt(5, domain.ResultLoss),
			gameAt(9, domain.ResultDraw),
			gameAt(14, domain.ResultWin),
		}

		expected := stats.Summarize(games)

		rng := rand.New(rand.NewSource(7))
		for range 10 {
			rng.Shuffle(len(games), func(i, j int) {
				games[i], games[j] = games[j], games[i]
			})
			assert.Equal(t, expected, stats.Summarize(games))
		}
	})

	t.Run("rated rating delta spans first to last rated game", func(t *testing.T) {
		t.Parallel()
		first := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 1, 12, 0, 0, 0, time.UTC)).
			WithRatings(1500, 1500).Build()
		unrated := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 2, 12, 0, 0, 0, time.UTC)).
			WithRatings(9999, 1500).WithRated(false).Build()
		last := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 3, 12, 0, 0, 0, time.UTC)).
			WithRatings(1563, 1500).Build()

		summary := stats.Summarize([]domain.Game{last, unrated, first})
		assert.Equal(t, 2, summary.RatedGames)
		assert.Equal(t, 63, summary.RatedRatingDelta)
	})

	t.Run("single rated game has no delta", func(t *testing.T) {
		t.Parallel()
		summary := stats.Summarize([]domain.Game{gameAt(1, domain.ResultWin)})
		assert.Equal(t, 1, summary.RatedGames)
		assert.Equal(t, 0, summary.RatedRatingDelta)
	})

	t.Run("average opponent rating", func(t *testing.T) {
		t.Parallel()
		games := []domain.Game{
			domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 1, 12, 0, 0, 0, time.UTC)).
				WithRatings(1500, 1400).Build(),
			domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 2, 12, 0, 0, 0, time.UTC)).
				WithRatings(1500, 1600).Build(),
		}
		summary := stats.Summarize(games)
		assert.InDelta(t, 1500.0, summary.AvgOpponentRating, 1e-9)
	})
}

func TestSummarizeByTimeClass(t *testing.T) {
	t.Parallel()

	blitzWin := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 1, 12, 0, 0, 0, time.UTC)).
		WithTimeClass(domain.TimeClassBlitz).WithResult(domain.ResultWin).Build()
	blitzLoss := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 2, 12, 0, 0, 0, time.UTC)).
		WithTimeClass(domain.TimeClassBlitz).WithResult(domain.ResultLoss).Build()
	rapidDraw := domaintest.NewGameBuilder("alice", time.Date(2023, time.November, 3, 12, 0, 0, 0, time.UTC)).
		WithTimeClass(domain.TimeClassRapid).WithResult(domain.ResultDraw).Build()

	summaries := stats.SummarizeByTimeClass([]domain.Game{rapidDraw, blitzWin, blitzLoss})
	require.Len(t, summaries, 2)

	assert.Equal(t, domain.TimeClassBlitz, summaries[0].TimeClass)
	assert.Equal(t, 2, summaries[0].Games)
	assert.InDelta(t, 0.5, summaries[0].WinRate, 1e-9)

	assert.Equal(t, domain.TimeClassRapid, summaries[1].TimeClass)
	assert.Equal(t, 1, summaries[1].Games)
	assert.InDelta(t, 0.0, summaries[1].WinRate, 1e-9)
}
