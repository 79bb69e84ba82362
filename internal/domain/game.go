package domain

import (
	"fmt"
	"time"
)

type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

type TimeClass string

const (
	TimeClassBullet TimeClass = "bullet"
	TimeClassBlitz  TimeClass = "blitz"
	TimeClassRapid  TimeClass = "rapid"
	TimeClassDaily  TimeClass = "daily"
)

// Game is one completed game's metadata from the perspective of Username.
// Records are immutable once fetched.
type Game struct {
	URL      string
	Username string
	Opponent string

	Color     Color
	Result    Result
	RawResult string

	PlayerRating   int
	OpponentRating int

	TimeClass   TimeClass
	TimeControl string
	Rated       bool
	Rules       string

	ECO     string
	Opening string

	Termination string
	EndedAt     time.Time
}

// ResultFromRaw maps a chess.com result code to the three-way outcome.
// The winning side always gets "win"; the other side gets the reason it lost,
// and draw reasons are shared by both sides.
func ResultFromRaw(raw string) (Result, error) {
	switch raw {
	case "win":
		return ResultWin, nil
	case "checkmated", "timeout", "resigned", "lose", "abandoned", "kingofthehill", "threecheck", "bughousepartnerlose":
		return ResultLoss, nil
	case "agreed", "repetition", "stalemate", "insufficient", "50move", "timevsinsufficient":
		return ResultDraw, nil
	}
	return "", fmt.Errorf("unknown result code: %q", raw)
}
