// get-games fetches a player's archive index and one month of games straight
// from the chess.com API and prints them. Handy for inspecting payloads
// without running the server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/madevisual/chessdash/internal/adapters/chesscom"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/ratelimiting"
	"github.com/madevisual/chessdash/internal/strutils"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: get-games <username> [YYYY-MM]")
	}

	username, err := strutils.NormalizeUsername(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid username: %v", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	limiter := ratelimiting.NewWindowLimitRequestLimiter(2, 1*time.Second, time.Now, time.After)
	api := chesscom.NewChessComAPI(httpClient, os.Getenv("CHESSCOM_CONTACT_EMAIL"), limiter)

	provider, err := chesscom.NewChessComGameProvider(api)
	if err != nil {
		log.Fatalf("Failed to initialize game provider: %v", err)
	}

	ctx := context.Background()

	months, err := provider.ListArchives(ctx, username)
	if err != nil {
		log.Fatalf("Failed to list archives: %v", err)
	}

	fmt.Printf("%s has %d monthly archives:\n", username, len(months))
	for _, month := range months {
		fmt.Printf("  %s\n", month)
	}

	if len(months) == 0 {
		return
	}

	month := months[len(months)-1]
	if len(os.Args) >= 3 {
		month, err = domain.ParseArchiveMonth(os.Args[2])
		if err != nil {
			log.Fatalf("Invalid month: %v", err)
		}
	}

	monthGames, err := provider.GetMonthGames(ctx, username, month, "")
	if err != nil {
		log.Fatalf("Failed to get games for %s: %v", month, err)
	}

	fmt.Printf("\n%d games in %s (etag %q):\n", len(monthGames.Games), month, monthGames.ETag)
	for _, game := range monthGames.Games {
		opening := game.Opening
		if opening == "" {
			opening = "?"
		}
		fmt.Printf(
			"  %s  %-5s as %-5s vs %-25s (%4d)  %-7s  %s\n",
			game.EndedAt.Format(time.DateTime),
			game.Result,
			game.Color,
			game.Opponent,
			game.OpponentRating,
			game.TimeClass,
			opening,
		)
	}
}
