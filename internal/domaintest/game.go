package domaintest

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

type gameBuilder struct {
	game *domain.Game
}

func (gb *gameBuilder) WithURL(url string) *gameBuilder {
	gb.game.URL = url
	return gb
}

func (gb *gameBuilder) WithOpponent(opponent string) *gameBuilder {
	gb.game.Opponent = opponent
	return gb
}

func (gb *gameBuilder) WithColor(color domain.Color) *gameBuilder {
	gb.game.Color = color
	return gb
}

func (gb *gameBuilder) WithResult(result domain.Result) *gameBuilder {
	gb.game.Result = result
	switch result {
	case domain.ResultWin:
		gb.game.RawResult = "win"
	case domain.ResultDraw:
		gb.game.RawResult = "agreed"
	case domain.ResultLoss:
		gb.game.RawResult = "resigned"
	}
	return gb
}

func (gb *gameBuilder) WithRatings(player, opponent int) *gameBuilder {
	gb.game.PlayerRating = player
	gb.game.OpponentRating = opponent
	return gb
}

func (gb *gameBuilder) WithTimeClass(timeClass domain.TimeClass) *gameBuilder {
	gb.game.TimeClass = timeClass
	return gb
}

func (gb *gameBuilder) WithRated(rated bool) *gameBuilder {
	gb.game.Rated = rated
	return gb
}

func (gb *gameBuilder) WithOpening(eco, opening string) *gameBuilder {
	gb.game.ECO = eco
	gb.game.Opening = opening
	return gb
}

func (gb *gameBuilder) Build() domain.Game {
	return *gb.game
}

var gameSequence atomic.Int64

// NewGameBuilder builds a plausible rated blitz win ended at endedAt.
// Each call gets a unique url so repositories treat the games as distinct.
func NewGameBuilder(username string, endedAt time.Time) *gameBuilder {
	game := &domain.Game{
		URL:      fmt.Sprintf("https://www.chess.com/game/live/%d", gameSequence.Add(1)),
		Username: username,
		Opponent: "opponent",

		Color:     domain.ColorWhite,
		Result:    domain.ResultWin,
		RawResult: "win",

		PlayerRating:   1500,
		OpponentRating: 1500,

		TimeClass:   domain.TimeClassBlitz,
		TimeControl: "180",
		Rated:       true,
		Rules:       "chess",

		Termination: "resigned",
		EndedAt:     endedAt,
	}
	return &gameBuilder{
		game: game,
	}
}
