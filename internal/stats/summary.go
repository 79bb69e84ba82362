// Package stats computes aggregate statistics over a player's stored games.
// All functions are pure and insensitive to the order of the input games.
package stats

import (
	"slices"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

// Summary holds the headline numbers for a set of games.
type Summary struct {
	TotalGames int
	Wins       int
	Draws      int
	Losses     int

	WinRate  float64
	DrawRate float64
	LossRate float64

	AvgOpponentRating float64

	// RatedRatingDelta is the last rated rating minus the first, in end-time
	// order. Zero when the player has fewer than two rated games.
	RatedGames       int
	RatedRatingDelta int

	FirstGameAt time.Time
	LastGameAt  time.Time
}

// ClassSummary breaks down results for one time class.
type ClassSummary struct {
	TimeClass domain.TimeClass

	Games   int
	Wins    int
	Draws   int
	Losses  int
	WinRate float64
}

func sortedByEndTime(games []domain.Game) []domain.Game {
	sorted := slices.Clone(games)
	slices.SortFunc(sorted, func(a, b domain.Game) int {
		if c := a.EndedAt.Compare(b.EndedAt); c != 0 {
			return c
		}
		// URLs break ties so equal timestamps still give a stable order
		if a.URL < b.URL {
			return -1
		}
		if a.URL > b.URL {
			return 1
		}
		return 0
	})
	return sorted
}

// Summarize computes the headline numbers. An empty input gives a zero summary.
func Summarize(games []domain.Game) Summary {
	if len(games) == 0 {
		return Summary{}
	}

	sorted := sortedByEndTime(games)

	summary := Summary{
		TotalGames:  len(sorted),
		FirstGameAt: sorted[0].EndedAt,
		LastGameAt:  sorted[len(sorted)-1].EndedAt,
	}

	opponentRatingSum := 0
	firstRatedRating := 0
	lastRatedRating := 0
	for _, game := range sorted {
		switch game.Result {
		case domain.ResultWin:
			summary.Wins++
		case domain.ResultDraw:
			summary.Draws++
		case domain.ResultLoss:
			summary.Losses++
		}

		opponentRatingSum += game.OpponentRating

		if game.Rated {
			if summary.RatedGames == 0 {
				firstRatedRating = game.PlayerRating
			}
			lastRatedRating = game.PlayerRating
			summary.RatedGames++
		}
	}

	total := float64(summary.TotalGames)
	summary.WinRate = float64(summary.Wins) / total
	summary.DrawRate = float64(summary.Draws) / total
	summary.LossRate = float64(summary.Losses) / total
	summary.AvgOpponentRating = float64(opponentRatingSum) / total

	if summary.RatedGames >= 2 {
		summary.RatedRatingDelta = lastRatedRating - firstRatedRating
	}

	return summary
}

// SummarizeByTimeClass breaks down results per time class, ordered by game
// count descending.
func SummarizeByTimeClass(games []domain.Game) []ClassSummary {
	byClass := make(map[domain.TimeClass]*ClassSummary)
	for _, game := range games {
		summary, ok := byClass[game.TimeClass]
		if !ok {
			summary = &ClassSummary{TimeClass: game.TimeClass}
			byClass[game.TimeClass] = summary
		}
		summary.Games++
		switch game.Result {
		case domain.ResultWin:
			summary.Wins++
		case domain.ResultDraw:
			summary.Draws++
		case domain.ResultLoss:
			summary.Losses++
		}
	}

	summaries := make([]ClassSummary, 0, len(byClass))
	for _, summary := range byClass {
		summary.WinRate = float64(summary.Wins) / float64(summary.Games)
		summaries = append(summaries, *summary)
	}

	slices.SortFunc(summaries, func(a, b ClassSummary) int {
		if a.Games != b.Games {
			return b.Games - a.Games
		}
		if a.TimeClass < b.TimeClass {
			return -1
		}
		if a.TimeClass > b.TimeClass {
			return 1
		}
		return 0
	})

	return summaries
}
