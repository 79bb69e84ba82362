package gamerepository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/madevisual/chessdash/internal/adapters/database"
	"github.com/madevisual/chessdash/internal/config"
	"github.com/madevisual/chessdash/internal/domain"
)

type monthKey struct {
	username string
	month    domain.ArchiveMonth
}

// InMemoryGameRepository keeps games in process memory. Used in tests and as
// a development fallback when no database is available.
type InMemoryGameRepository struct {
	mutex    sync.RWMutex
	games    map[monthKey][]domain.Game
	archives map[monthKey]domain.ArchiveState
}

func NewInMemoryGameRepository() *InMemoryGameRepository {
	return &InMemoryGameRepository{
		games:    make(map[monthKey][]domain.Game),
		archives: make(map[monthKey]domain.ArchiveState),
	}
}

func (r *InMemoryGameRepository) ReplaceMonth(ctx context.Context, username string, month domain.ArchiveMonth, etag string, games []domain.Game, fetchedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := monthKey{username: username, month: month}
	r.games[key] = slices.Clone(games)
	r.archives[key] = domain.ArchiveState{
		Username:  username,
		Month:     month,
		ETag:      etag,
		GameCount: len(games),
		FetchedAt: fetchedAt,
	}
	return nil
}

func (r *InMemoryGameRepository) GetGames(ctx context.Context, username string, filter domain.GameFilter) ([]domain.Game, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	games := []domain.Game{}
	for key, monthGames := range r.games {
		if key.username != username {
			continue
		}
		if filter.From != nil && key.month.Before(*filter.From) {
			continue
		}
		if filter.To != nil && filter.To.Before(key.month) {
			continue
		}
		for _, game := range monthGames {
			if filter.TimeClass != nil && game.TimeClass != *filter.TimeClass {
				continue
			}
			if filter.Rated != nil && game.Rated != *filter.Rated {
				continue
			}
			games = append(games, game)
		}
	}

	slices.SortFunc(games, func(a, b domain.Game) int {
		if c := a.EndedAt.Compare(b.EndedAt); c != 0 {
			return c
		}
		if a.URL < b.URL {
			return -1
		}
		if a.URL > b.URL {
			return 1
		}
		return 0
	})

	return games, nil
}

func (r *InMemoryGameRepository) GetArchiveStates(ctx context.Context, username string) ([]domain.ArchiveState, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	states := []domain.ArchiveState{}
	for key, state := range r.archives {
		if key.username != username {
			continue
		}
		states = append(states, state)
	}

	slices.SortFunc(states, func(a, b domain.ArchiveState) int {
		return a.Month.Compare(b.Month)
	})

	return states, nil
}

func (r *InMemoryGameRepository) TouchArchive(ctx context.Context, username string, month domain.ArchiveMonth, fetchedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := monthKey{username: username, month: month}
	state, ok := r.archives[key]
	if !ok {
		return fmt.Errorf("touched unknown archive")
	}
	state.FetchedAt = fetchedAt
	r.archives[key] = state
	return nil
}

// NewPostgresGameRepositoryOrFallback connects to postgres and migrates the
// schema. In development a missing database falls back to the in-memory
// repository so the server can run standalone.
func NewPostgresGameRepositoryOrFallback(ctx context.Context, conf config.Config, logger *slog.Logger) (GameRepository, error) {
	schemaName := database.GetSchemaName(!conf.IsProduction())

	logger.Info("Initializing database connection")
	db, err := database.NewConfiguredPostgresDatabase(conf)
	if err == nil {
		err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return NewPostgresGameRepository(db, schemaName), nil
	}

	if conf.IsDevelopment() {
		logger.Warn("Failed to connect to database. Falling back to in-memory repository.", "error", err.Error())
		return NewInMemoryGameRepository(), nil
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
