package stats

import (
	"slices"

	"github.com/madevisual/chessdash/internal/domain"
)

// OpeningPerformance aggregates results for one opening name.
type OpeningPerformance struct {
	Opening string
	ECO     string

	Games  int
	Wins   int
	Draws  int
	Losses int

	WinRate float64
	// Score counts a draw as half a win, in [0, 1].
	Score float64
}

// Games without opening metadata are grouped under this name.
const UnknownOpening = "Unknown opening"

// OpeningsByColor aggregates per-opening results, optionally restricted to
// games played as one color. Ordered by game count descending.
func OpeningsByColor(games []domain.Game, color *domain.Color) []OpeningPerformance {
	byOpening := make(map[string]*OpeningPerformance)
	for _, game := range games {
		if color != nil && game.Color != *color {
			continue
		}

		name := game.Opening
		if name == "" {
			name = UnknownOpening
		}

		performance, ok := byOpening[name]
		if !ok {
			performance = &OpeningPerformance{Opening: name, ECO: game.ECO}
			byOpening[name] = performance
		}
		performance.Games++
		switch game.Result {
		case domain.ResultWin:
			performance.Wins++
		case domain.ResultDraw:
			performance.Draws++
		case domain.ResultLoss:
			performance.Losses++
		}
	}

	performances := make([]OpeningPerformance, 0, len(byOpening))
	for _, performance := range byOpening {
		total := float64(performance.Games)
		performance.WinRate = float64(performance.Wins) / total
		performance.Score = (float64(performance.Wins) + 0.5*float64(performance.Draws)) / total
		performances = append(performances, *performance)
	}

	slices.SortFunc(performances, compareOpenings)

	return performances
}

func compareOpenings(a, b OpeningPerformance) int {
	if a.Games != b.Games {
		return b.Games - a.Games
	}
	if a.Opening < b.Opening {
		return -1
	}
	if a.Opening > b.Opening {
		return 1
	}
	return 0
}

// Openings with few games give meaningless extremes, so best/worst considers
// only openings with at least 20 games, relaxing to 10 and then 1 until any
// opening qualifies.
var minGamesThresholds = []int{20, 10, 1}

// BestAndWorst picks the openings with the highest and lowest win rate among
// those with enough games. Equal win rates are broken by game count: best
// prefers the larger sample, worst the smaller. Returns ok=false when there
// are no openings at all.
func BestAndWorst(performances []OpeningPerformance) (best, worst OpeningPerformance, ok bool) {
	for _, minGames := range minGamesThresholds {
		var qualified []OpeningPerformance
		for _, performance := range performances {
			if performance.Games >= minGames {
				qualified = append(qualified, performance)
			}
		}
		if len(qualified) == 0 {
			continue
		}

		best, worst = qualified[0], qualified[0]
		for _, performance := range qualified[1:] {
			if higherWinRate(performance, best) {
				best = performance
			}
			if higherWinRate(worst, performance) {
				worst = performance
			}
		}
		return best, worst, true
	}

	return OpeningPerformance{}, OpeningPerformance{}, false
}

func higherWinRate(a, b OpeningPerformance) bool {
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	if a.Games != b.Games {
		return a.Games > b.Games
	}
	// Name as the final tiebreak so the pick is deterministic
	return a.Opening < b.Opening
}
