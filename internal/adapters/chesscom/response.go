package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
)

type archivesResponse struct {
	Archives []string `json:"archives"`
}

type apiPlayer struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

type apiGame struct {
	URL         string    `json:"url"`
	PGN         string    `json:"pgn"`
	TimeControl string    `json:"time_control"`
	TimeClass   string    `json:"time_class"`
	Rules       string    `json:"rules"`
	Rated       bool      `json:"rated"`
	EndTime     int64     `json:"end_time"`
	ECO         string    `json:"eco"`
	White       apiPlayer `json:"white"`
	Black       apiPlayer `json:"black"`
}

type monthResponse struct {
	Games []apiGame `json:"games"`
}

var archiveURLRx = regexp.MustCompile(`/games/(\d{4})/(\d{2})$`)

// PGN tag pairs carry the ECO metadata the JSON body sometimes lacks.
// This is a header scan, not a PGN parser.
var ecoTagRx = regexp.MustCompile(`(?m)^\[ECO "([^"]+)"\]`)
var ecoURLTagRx = regexp.MustCompile(`(?m)^\[ECOUrl "([^"]+)"\]`)

func checkForChessComError(statusCode int, data []byte) error {
	if statusCode == 200 {
		// The API occasionally serves an HTML error page with a 200
		if len(data) > 0 && data[0] == '<' {
			return fmt.Errorf("chess.com API returned HTML (%w)", domain.ErrTemporarilyUnavailable)
		}
		return nil
	}

	// Error for unknown status code
	err := fmt.Errorf("chess.com API returned unsupported status code: %d", statusCode)

	// Errors for known status codes
	switch statusCode {
	case 404:
		err = fmt.Errorf("chess.com API returned 404 (%w)", domain.ErrPlayerNotFound)
	case 410:
		err = fmt.Errorf("chess.com API returned 410 Gone (%w)", domain.ErrPlayerNotFound)
	case 429:
		err = fmt.Errorf("chess.com ratelimit exceeded (%w)", domain.ErrTemporarilyUnavailable)
	case 500, 502, 503, 504, 520, 521, 522, 523, 524, 525, 526, 527, 530:
		err = fmt.Errorf("chess.com returned status code %d (%s) (%w)", statusCode, http.StatusText(statusCode), domain.ErrTemporarilyUnavailable)
	}

	return err
}

// ParseArchivesResponse converts the archive index payload to archive months.
func ParseArchivesResponse(ctx context.Context, data []byte, statusCode int) ([]domain.ArchiveMonth, error) {
	logger := logging.FromContext(ctx)

	if err := checkForChessComError(statusCode, data); err != nil {
		logger.Error(
			"Got response from chess.com",
			"status", "error",
			"error", err.Error(),
			"statusCode", statusCode,
			"contentLength", len(data),
		)
		return nil, err
	}

	var response archivesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		err := fmt.Errorf("failed to unmarshal archives response: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, err
	}

	months := make([]domain.ArchiveMonth, 0, len(response.Archives))
	for _, archiveURL := range response.Archives {
		match := archiveURLRx.FindStringSubmatch(archiveURL)
		if match == nil {
			err := fmt.Errorf("unrecognized archive url format: %s", archiveURL)
			reporting.Report(ctx, err)
			return nil, err
		}
		year, _ := strconv.Atoi(match[1])
		monthNumber, _ := strconv.Atoi(match[2])
		month, err := domain.NewArchiveMonth(year, time.Month(monthNumber))
		if err != nil {
			err := fmt.Errorf("invalid archive month in url %s: %w", archiveURL, err)
			reporting.Report(ctx, err)
			return nil, err
		}
		months = append(months, month)
	}

	return months, nil
}

// ParseMonthGames converts one monthly archive payload into game records from
// the perspective of username. Games the player did not take part in, or with
// metadata we cannot classify, are skipped with a log line.
func ParseMonthGames(ctx context.Context, username string, data []byte, statusCode int) ([]domain.Game, error) {
	logger := logging.FromContext(ctx)

	if err := checkForChessComError(statusCode, data); err != nil {
		logger.Error(
			"Got response from chess.com",
			"status", "error",
			"error", err.Error(),
			"statusCode", statusCode,
			"contentLength", len(data),
		)
		return nil, err
	}

	var response monthResponse
	if err := json.Unmarshal(data, &response); err != nil {
		err := fmt.Errorf("failed to unmarshal month archive: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, err
	}

	games := make([]domain.Game, 0, len(response.Games))
	for _, apiGame := range response.Games {
		game, err := apiGameToDomain(username, apiGame)
		if err != nil {
			logger.Warn("Skipping game", "url", apiGame.URL, "error", err.Error())
			continue
		}
		games = append(games, game)
	}

	return games, nil
}

func apiGameToDomain(username string, g apiGame) (domain.Game, error) {
	var me, opponent apiPlayer
	var color domain.Color
	switch {
	case strings.EqualFold(g.White.Username, username):
		me, opponent, color = g.White, g.Black, domain.ColorWhite
	case strings.EqualFold(g.Black.Username, username):
		me, opponent, color = g.Black, g.White, domain.ColorBlack
	default:
		return domain.Game{}, fmt.Errorf("player %q is neither side of game", username)
	}

	result, err := domain.ResultFromRaw(me.Result)
	if err != nil {
		return domain.Game{}, err
	}

	if g.EndTime == 0 {
		return domain.Game{}, fmt.Errorf("game has no end time")
	}
	if g.URL == "" {
		return domain.Game{}, fmt.Errorf("game has no url")
	}

	eco, opening := openingMetadata(g)

	return domain.Game{
		URL:      g.URL,
		Username: username,
		Opponent: opponent.Username,

		Color:     color,
		Result:    result,
		RawResult: me.Result,

		PlayerRating:   me.Rating,
		OpponentRating: opponent.Rating,

		TimeClass:   domain.TimeClass(g.TimeClass),
		TimeControl: g.TimeControl,
		Rated:       g.Rated,
		Rules:       g.Rules,

		ECO:     eco,
		Opening: opening,

		Termination: opponentTermination(me.Result, opponent.Result),
		EndedAt:     time.Unix(g.EndTime, 0).UTC(),
	}, nil
}

// The termination detail is the loser's result code; for a draw both codes match.
func opponentTermination(myResult, opponentResult string) string {
	if myResult == "win" {
		return opponentResult
	}
	return myResult
}

func openingMetadata(g apiGame) (eco string, opening string) {
	if match := ecoTagRx.FindStringSubmatch(g.PGN); match != nil {
		eco = match[1]
	}

	ecoURL := g.ECO
	if !strings.HasPrefix(ecoURL, "http") {
		// Some payloads carry the bare code in the eco field instead of a url
		if eco == "" {
			eco = ecoURL
		}
		ecoURL = ""
	}
	if ecoURL == "" {
		if match := ecoURLTagRx.FindStringSubmatch(g.PGN); match != nil {
			ecoURL = match[1]
		}
	}

	opening = openingNameFromURL(ecoURL)
	return eco, opening
}

// openingNameFromURL turns e.g.
// https://www.chess.com/openings/Sicilian-Defense-Najdorf-Variation-6.Be2
// into "Sicilian Defense Najdorf Variation", dropping the trailing move list.
func openingNameFromURL(ecoURL string) string {
	if ecoURL == "" {
		return ""
	}

	slash := strings.LastIndexByte(ecoURL, '/')
	slug := ecoURL[slash+1:]
	if slug == "" {
		return ""
	}

	parts := strings.Split(slug, "-")
	var nameParts []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if part[0] >= '0' && part[0] <= '9' {
			// Move numbers mark the end of the opening name
			break
		}
		nameParts = append(nameParts, part)
	}

	return strings.Join(nameParts, " ")
}
