package stats

import (
	"slices"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

// SeasonalityBucket aggregates games falling into one calendar bucket.
type SeasonalityBucket struct {
	Games  int
	Wins   int
	Draws  int
	Losses int

	WinRate float64
	// Share is this bucket's fraction of all games, in [0, 1].
	Share float64
}

// YearBucket is a seasonality bucket for one calendar year.
type YearBucket struct {
	Year int
	SeasonalityBucket
}

// Seasonality breaks down when the player plays and how well, in a caller
// chosen time zone. Hours run 0-23, weekdays follow time.Weekday (Sunday = 0),
// months are 1-indexed at position month-1.
type Seasonality struct {
	ByHour    [24]SeasonalityBucket
	ByWeekday [7]SeasonalityBucket
	ByMonth   [12]SeasonalityBucket
	ByYear    []YearBucket
}

// ComputeSeasonality buckets games by local hour, weekday, month and year.
func ComputeSeasonality(games []domain.Game, loc *time.Location) Seasonality {
	var seasonality Seasonality
	byYear := make(map[int]*SeasonalityBucket)

	for _, game := range games {
		local := game.EndedAt.In(loc)

		addToBucket(&seasonality.ByHour[local.Hour()], game.Result)
		addToBucket(&seasonality.ByWeekday[int(local.Weekday())], game.Result)
		addToBucket(&seasonality.ByMonth[int(local.Month())-1], game.Result)

		yearBucket, ok := byYear[local.Year()]
		if !ok {
			yearBucket = &SeasonalityBucket{}
			byYear[local.Year()] = yearBucket
		}
		addToBucket(yearBucket, game.Result)
	}

	total := len(games)
	for i := range seasonality.ByHour {
		finalizeBucket(&seasonality.ByHour[i], total)
	}
	for i := range seasonality.ByWeekday {
		finalizeBucket(&seasonality.ByWeekday[i], total)
	}
	for i := range seasonality.ByMonth {
		finalizeBucket(&seasonality.ByMonth[i], total)
	}

	for year, bucket := range byYear {
		finalizeBucket(bucket, total)
		seasonality.ByYear = append(seasonality.ByYear, YearBucket{
			Year:              year,
			SeasonalityBucket: *bucket,
		})
	}
	slices.SortFunc(seasonality.ByYear, func(a, b YearBucket) int {
		return a.Year - b.Year
	})

	return seasonality
}

func addToBucket(bucket *SeasonalityBucket, result domain.Result) {
	bucket.Games++
	switch result {
	case domain.ResultWin:
		bucket.Wins++
	case domain.ResultDraw:
		bucket.Draws++
	case domain.ResultLoss:
		bucket.Losses++
	}
}

func finalizeBucket(bucket *SeasonalityBucket, total int) {
	if bucket.Games > 0 {
		bucket.WinRate = float64(bucket.Wins) / float64(bucket.Games)
	}
	if total > 0 {
		bucket.Share = float64(bucket.Games) / float64(total)
	}
}
