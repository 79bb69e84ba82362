package ports

import (
	"time"

	"github.com/madevisual/chessdash/internal/app"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/stats"
)

type syncReportResponse struct {
	Username      string `json:"username"`
	MonthsListed  int    `json:"monthsListed"`
	MonthsFetched int    `json:"monthsFetched"`
	MonthsSkipped int    `json:"monthsSkipped"`
	GamesFetched  int    `json:"gamesFetched"`
}

func syncReportToResponse(report domain.SyncReport) syncReportResponse {
	return syncReportResponse{
		Username:      report.Username,
		MonthsListed:  report.MonthsListed,
		MonthsFetched: report.MonthsFetched,
		MonthsSkipped: report.MonthsSkipped,
		GamesFetched:  report.GamesFetched,
	}
}

type gameResponse struct {
	URL            string    `json:"url"`
	Opponent       string    `json:"opponent"`
	Color          string    `json:"color"`
	Result         string    `json:"result"`
	PlayerRating   int       `json:"playerRating"`
	OpponentRating int       `json:"opponentRating"`
	TimeClass      string    `json:"timeClass"`
	TimeControl    string    `json:"timeControl"`
	Rated          bool      `json:"rated"`
	ECO            string    `json:"eco,omitempty"`
	Opening        string    `json:"opening,omitempty"`
	Termination    string    `json:"termination,omitempty"`
	EndedAt        time.Time `json:"endedAt"`
}

type gamesResponse struct {
	Username string         `json:"username"`
	Games    []gameResponse `json:"games"`
}

func gamesToResponse(username string, games []domain.Game) gamesResponse {
	response := gamesResponse{
		Username: username,
		Games:    make([]gameResponse, 0, len(games)),
	}
	for _, game := range games {
		response.Games = append(response.Games, gameResponse{
			URL:            game.URL,
			Opponent:       game.Opponent,
			Color:          string(game.Color),
			Result:         string(game.Result),
			PlayerRating:   game.PlayerRating,
			OpponentRating: game.OpponentRating,
			TimeClass:      string(game.TimeClass),
			TimeControl:    game.TimeControl,
			Rated:          game.Rated,
			ECO:            game.ECO,
			Opening:        game.Opening,
			Termination:    game.Termination,
			EndedAt:        game.EndedAt,
		})
	}
	return response
}

type classSummaryResponse struct {
	TimeClass string  `json:"timeClass"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Draws     int     `json:"draws"`
	Losses    int     `json:"losses"`
	WinRate   float64 `json:"winRate"`
}

type summaryResponse struct {
	TotalGames int `json:"totalGames"`
	Wins       int `json:"wins"`
	Draws      int `json:"draws"`
	Losses     int `json:"losses"`

	WinRate  float64 `json:"winRate"`
	DrawRate float64 `json:"drawRate"`
	LossRate float64 `json:"lossRate"`

	AvgOpponentRating float64 `json:"avgOpponentRating"`

	RatedGames       int `json:"ratedGames"`
	RatedRatingDelta int `json:"ratedRatingDelta"`

	FirstGameAt time.Time `json:"firstGameAt"`
	LastGameAt  time.Time `json:"lastGameAt"`

	ByTimeClass []classSummaryResponse `json:"byTimeClass"`
}

func summaryToResponse(summary app.PlayerSummary) summaryResponse {
	response := summaryResponse{
		TotalGames: summary.Summary.TotalGames,
		Wins:       summary.Summary.Wins,
		Draws:      summary.Summary.Draws,
		Losses:     summary.Summary.Losses,

		WinRate:  summary.Summary.WinRate,
		DrawRate: summary.Summary.DrawRate,
		LossRate: summary.Summary.LossRate,

		AvgOpponentRating: summary.Summary.AvgOpponentRating,

		RatedGames:       summary.Summary.RatedGames,
		RatedRatingDelta: summary.Summary.RatedRatingDelta,

		FirstGameAt: summary.Summary.FirstGameAt,
		LastGameAt:  summary.Summary.LastGameAt,

		ByTimeClass: make([]classSummaryResponse, 0, len(summary.ByTimeClass)),
	}
	for _, class := range summary.ByTimeClass {
		response.ByTimeClass = append(response.ByTimeClass, classSummaryResponse{
			TimeClass: string(class.TimeClass),
			Games:     class.Games,
			Wins:      class.Wins,
			Draws:     class.Draws,
			Losses:    class.Losses,
			WinRate:   class.WinRate,
		})
	}
	return response
}

type openingResponse struct {
	Opening string `json:"opening"`
	ECO     string `json:"eco,omitempty"`

	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	WinRate float64 `json:"winRate"`
	Score   float64 `json:"score"`
}

type openingsResponse struct {
	Openings []openingResponse `json:"openings"`
	Best     *openingResponse  `json:"best,omitempty"`
	Worst    *openingResponse  `json:"worst,omitempty"`
}

func openingToResponse(performance stats.OpeningPerformance) openingResponse {
	return openingResponse{
		Opening: performance.Opening,
		ECO:     performance.ECO,
		Games:   performance.Games,
		Wins:    performance.Wins,
		Draws:   performance.Draws,
		Losses:  performance.Losses,
		WinRate: performance.WinRate,
		Score:   performance.Score,
	}
}

func openingsReportToResponse(report app.OpeningsReport) openingsResponse {
	response := openingsResponse{
		Openings: make([]openingResponse, 0, len(report.Openings)),
	}
	for _, performance := range report.Openings {
		response.Openings = append(response.Openings, openingToResponse(performance))
	}
	if report.Best != nil {
		best := openingToResponse(*report.Best)
		response.Best = &best
	}
	if report.Worst != nil {
		worst := openingToResponse(*report.Worst)
		response.Worst = &worst
	}
	return response
}

type ratingPointResponse struct {
	TimeClass string `json:"timeClass"`
	Date      string `json:"date"`
	Rating    int    `json:"rating"`
}

type ratingHistoryResponse struct {
	Points []ratingPointResponse `json:"points"`
}

func ratingHistoryToResponse(points []stats.RatingPoint) ratingHistoryResponse {
	response := ratingHistoryResponse{
		Points: make([]ratingPointResponse, 0, len(points)),
	}
	for _, point := range points {
		response.Points = append(response.Points, ratingPointResponse{
			TimeClass: string(point.TimeClass),
			Date:      point.Date.Format(time.DateOnly),
			Rating:    point.Rating,
		})
	}
	return response
}

type seasonalityBucketResponse struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
	Share   float64 `json:"share"`
}

type yearBucketResponse struct {
	Year int `json:"year"`
	seasonalityBucketResponse
}

type seasonalityResponse struct {
	ByHour    []seasonalityBucketResponse `json:"byHour"`
	ByWeekday []seasonalityBucketResponse `json:"byWeekday"`
	ByMonth   []seasonalityBucketResponse `json:"byMonth"`
	ByYear    []yearBucketResponse        `json:"byYear"`
}

func seasonalityBucketToResponse(bucket stats.SeasonalityBucket) seasonalityBucketResponse {
	return seasonalityBucketResponse{
		Games:   bucket.Games,
		Wins:    bucket.Wins,
		Draws:   bucket.Draws,
		Losses:  bucket.Losses,
		WinRate: bucket.WinRate,
		Share:   bucket.Share,
	}
}

func seasonalityToResponse(seasonality stats.Seasonality) seasonalityResponse {
	response := seasonalityResponse{
		ByHour:    make([]seasonalityBucketResponse, 0, len(seasonality.ByHour)),
		ByWeekday: make([]seasonalityBucketResponse, 0, len(seasonality.ByWeekday)),
		ByMonth:   make([]seasonalityBucketResponse, 0, len(seasonality.ByMonth)),
		ByYear:    make([]yearBucketResponse, 0, len(seasonality.ByYear)),
	}
	for _, bucket := range seasonality.ByHour {
		response.ByHour = append(response.ByHour, seasonalityBucketToResponse(bucket))
	}
	for _, bucket := range seasonality.ByWeekday {
		response.ByWeekday = append(response.ByWeekday, seasonalityBucketToResponse(bucket))
	}
	for _, bucket := range seasonality.ByMonth {
		response.ByMonth = append(response.ByMonth, seasonalityBucketToResponse(bucket))
	}
	for _, bucket := range seasonality.ByYear {
		response.ByYear = append(response.ByYear, yearBucketResponse{
			Year:                      bucket.Year,
			seasonalityBucketResponse: seasonalityBucketToResponse(bucket.SeasonalityBucket),
		})
	}
	return response
}
