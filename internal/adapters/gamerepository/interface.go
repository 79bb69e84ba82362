package gamerepository

import (
	"context"
	"time"

	"github.com/madevisual/chessdash/internal/domain"
)

// GameRepository is the local cache of fetched games, keyed by username + month.
type GameRepository interface {
	// ReplaceMonth atomically swaps the stored games for one month and records
	// the archive state (etag, game count, fetch time).
	ReplaceMonth(ctx context.Context, username string, month domain.ArchiveMonth, etag string, games []domain.Game, fetchedAt time.Time) error

	// GetGames returns the player's stored games matching the filter, ordered
	// by end time.
	GetGames(ctx context.Context, username string, filter domain.GameFilter) ([]domain.Game, error)

	// GetArchiveStates returns the state of every month stored for the player.
	GetArchiveStates(ctx context.Context, username string) ([]domain.ArchiveState, error)

	// TouchArchive marks a month as freshly checked without changing its games.
	// Used when the API answers 304 Not Modified.
	TouchArchive(ctx context.Context, username string, month domain.ArchiveMonth, fetchedAt time.Time) error
}
