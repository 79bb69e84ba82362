package stats

import (
	"slices"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

// RatingPoint is the player's rating at the end of one local day.
type RatingPoint struct {
	TimeClass domain.TimeClass
	// Date is midnight of the local day in loc.
	Date   time.Time
	Rating int
}

// DailyRatings computes the rating trend per time class: for each local day
// with at least one rated game, the rating after the day's last game. Points
// are ordered by time class, then date.
func DailyRatings(games []domain.Game, loc *time.Location) []RatingPoint {
	type dayKey struct {
		timeClass domain.TimeClass
		date      time.Time
	}

	// Last game per day wins, so process in end-time order
	lastOfDay := make(map[dayKey]int)
	for _, game := range sortedByEndTime(games) {
		if !game.Rated {
			continue
		}
		local := game.EndedAt.In(loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		lastOfDay[dayKey{timeClass: game.TimeClass, date: date}] = game.PlayerRating
	}

	points := make([]RatingPoint, 0, len(lastOfDay))
	for key, rating := range lastOfDay {
		points = append(points, RatingPoint{
			TimeClass: key.timeClass,
			Date:      key.date,
			Rating:    rating,
		})
	}

	slices.SortFunc(points, func(a, b RatingPoint) int {
		if a.TimeClass != b.TimeClass {
			if a.TimeClass < b.TimeClass {
				return -1
			}
			return 1
		}
		return a.Date.Compare(b.Date)
	})

	return points
}
