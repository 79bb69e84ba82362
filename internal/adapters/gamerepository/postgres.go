package gamerepository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/madevisual/chessdash/internal/domain"
	"github.com/madevisual/chessdash/internal/logging"
	"github.com/madevisual/chessdash/internal/reporting"
	"github.com/madevisual/chessdash/internal/strutils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type PostgresGameRepository struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgresGameRepository(db *sqlx.DB, schema string) *PostgresGameRepository {
	tracer := otel.Tracer("chessdash/gamerepository/postgres")
	return &PostgresGameRepository{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbGame struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Month          string    `db:"month"`
	URL            string    `db:"url"`
	Opponent       string    `db:"opponent"`
	Color          string    `db:"color"`
	Result         string    `db:"result"`
	RawResult      string    `db:"raw_result"`
	PlayerRating   int       `db:"player_rating"`
	OpponentRating int       `db:"opponent_rating"`
	TimeClass      string    `db:"time_class"`
	TimeControl    string    `db:"time_control"`
	Rated          bool      `db:"rated"`
	Rules          string    `db:"rules"`
	ECO            string    `db:"eco"`
	Opening        string    `db:"opening"`
	Termination    string    `db:"termination"`
	EndedAt        time.Time `db:"ended_at"`
}

type dbArchive struct {
	Username  string    `db:"username"`
	Month     string    `db:"month"`
	ETag      string    `db:"etag"`
	GameCount int       `db:"game_count"`
	FetchedAt time.Time `db:"fetched_at"`
}

func gameToDB(game domain.Game, month domain.ArchiveMonth) (dbGame, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return dbGame{}, fmt.Errorf("failed to generate db id: %w", err)
	}

	return dbGame{
		ID:             id.String(),
		Username:       game.Username,
		Month:          month.String(),
		URL:            game.URL,
		Opponent:       game.Opponent,
		Color:          string(game.Color),
		Result:         string(game.Result),
		RawResult:      game.RawResult,
		PlayerRating:   game.PlayerRating,
		OpponentRating: game.OpponentRating,
		TimeClass:      string(game.TimeClass),
		TimeControl:    game.TimeControl,
		Rated:          game.Rated,
		Rules:          game.Rules,
		ECO:            game.ECO,
		Opening:        game.Opening,
		Termination:    game.Termination,
		EndedAt:        game.EndedAt,
	}, nil
}

func dbGameToDomain(g dbGame) domain.Game {
	return domain.Game{
		URL:      g.URL,
		Username: g.Username,
		Opponent: g.Opponent,

		Color:     domain.Color(g.Color),
		Result:    domain.Result(g.Result),
		RawResult: g.RawResult,

		PlayerRating:   g.PlayerRating,
		OpponentRating: g.OpponentRating,

		TimeClass:   domain.TimeClass(g.TimeClass),
		TimeControl: g.TimeControl,
		Rated:       g.Rated,
		Rules:       g.Rules,

		ECO:     g.ECO,
		Opening: g.Opening,

		Termination: g.Termination,
		EndedAt:     g.EndedAt.UTC(),
	}
}

func (r *PostgresGameRepository) ReplaceMonth(ctx context.Context, username string, month domain.ArchiveMonth, etag string, games []domain.Game, fetchedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "PostgresGameRepository.ReplaceMonth")
	defer span.End()

	if !strutils.UsernameIsNormalized(username) {
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return err
	}

	txx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(r.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	_, err = txx.ExecContext(
		ctx,
		"DELETE FROM games WHERE username = $1 AND month = $2",
		username,
		month.String(),
	)
	if err != nil {
		err := fmt.Errorf("failed to delete old month games: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	for _, game := range games {
		db, err := gameToDB(game, month)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"username": username,
				"month":    month.String(),
			})
			return err
		}

		_, err = txx.NamedExecContext(
			ctx,
			`INSERT INTO games
			(id, username, month, url, opponent, color, result, raw_result,
			 player_rating, opponent_rating, time_class, time_control, rated,
			 rules, eco, opening, termination, ended_at)
			VALUES (:id, :username, :month, :url, :opponent, :color, :result, :raw_result,
			 :player_rating, :opponent_rating, :time_class, :time_control, :rated,
			 :rules, :eco, :opening, :termination, :ended_at)
			ON CONFLICT (username, url) DO NOTHING`,
			db,
		)
		if err != nil {
			err := fmt.Errorf("failed to insert game: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"username": username,
				"month":    month.String(),
				"gameURL":  game.URL,
			})
			return err
		}
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO archives (username, month, etag, game_count, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username, month) DO UPDATE
		SET etag = EXCLUDED.etag, game_count = EXCLUDED.game_count, fetched_at = EXCLUDED.fetched_at`,
		username,
		month.String(),
		etag,
		len(games),
		fetchedAt,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert archive state: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	logging.FromContext(ctx).Info("Replaced month games", "month", month.String(), "games", len(games))

	return nil
}

func (r *PostgresGameRepository) GetGames(ctx context.Context, username string, filter domain.GameFilter) ([]domain.Game, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresGameRepository.GetGames")
	defer span.End()

	if !strutils.UsernameIsNormalized(username) {
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}

	// Month strings compare lexicographically in chronological order
	conditions := []string{"username = $1"}
	args := []interface{}{username}
	if filter.From != nil {
		args = append(args, filter.From.String())
		conditions = append(conditions, fmt.Sprintf("month >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, filter.To.String())
		conditions = append(conditions, fmt.Sprintf("month <= $%d", len(args)))
	}
	if filter.TimeClass != nil {
		args = append(args, string(*filter.TimeClass))
		conditions = append(conditions, fmt.Sprintf("time_class = $%d", len(args)))
	}
	if filter.Rated != nil {
		args = append(args, *filter.Rated)
		conditions = append(conditions, fmt.Sprintf("rated = $%d", len(args)))
	}

	query := fmt.Sprintf(
		`SELECT
			id, username, month, url, opponent, color, result, raw_result,
			player_rating, opponent_rating, time_class, time_control, rated,
			rules, eco, opening, termination, ended_at
		FROM games
		WHERE %s
		ORDER BY ended_at ASC, url ASC`,
		strings.Join(conditions, " AND "),
	)

	conn, err := r.db.Connx(ctx)
	if err != nil {
		err := fmt.Errorf("failed to get connection: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(r.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"schema":   r.schema,
		})
		return nil, err
	}

	dbGames := []dbGame{}
	err = conn.SelectContext(ctx, &dbGames, query, args...)
	if err != nil {
		err := fmt.Errorf("failed to select games: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}

	games := make([]domain.Game, 0, len(dbGames))
	for _, g := range dbGames {
		games = append(games, dbGameToDomain(g))
	}

	return games, nil
}

func (r *PostgresGameRepository) GetArchiveStates(ctx context.Context, username string) ([]domain.ArchiveState, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresGameRepository.GetArchiveStates")
	defer span.End()

	if !strutils.UsernameIsNormalized(username) {
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}

	conn, err := r.db.Connx(ctx)
	if err != nil {
		err := fmt.Errorf("failed to get connection: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(r.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"schema":   r.schema,
		})
		return nil, err
	}

	dbArchives := []dbArchive{}
	err = conn.SelectContext(
		ctx,
		&dbArchives,
		`SELECT username, month, etag, game_count, fetched_at
		FROM archives
		WHERE username = $1
		ORDER BY month ASC`,
		username,
	)
	if err != nil {
		err := fmt.Errorf("failed to select archive states: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return nil, err
	}

	states := make([]domain.ArchiveState, 0, len(dbArchives))
	for _, a := range dbArchives {
		month, err := domain.ParseArchiveMonth(a.Month)
		if err != nil {
			err := fmt.Errorf("failed to parse stored archive month: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"username": username,
				"month":    a.Month,
			})
			return nil, err
		}
		states = append(states, domain.ArchiveState{
			Username:  a.Username,
			Month:     month,
			ETag:      a.ETag,
			GameCount: a.GameCount,
			FetchedAt: a.FetchedAt.UTC(),
		})
	}

	return states, nil
}

func (r *PostgresGameRepository) TouchArchive(ctx context.Context, username string, month domain.ArchiveMonth, fetchedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "PostgresGameRepository.TouchArchive")
	defer span.End()

	if !strutils.UsernameIsNormalized(username) {
		err := fmt.Errorf("username is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return err
	}

	conn, err := r.db.Connx(ctx)
	if err != nil {
		err := fmt.Errorf("failed to get connection: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(r.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
			"schema":   r.schema,
		})
		return err
	}

	result, err := conn.ExecContext(
		ctx,
		"UPDATE archives SET fetched_at = $1 WHERE username = $2 AND month = $3",
		fetchedAt,
		username,
		month.String(),
	)
	if err != nil {
		err := fmt.Errorf("failed to touch archive: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		// A 304 for a month we never stored should not happen
		err := fmt.Errorf("touched unknown archive")
		reporting.Report(ctx, err, map[string]string{
			"username": username,
			"month":    month.String(),
		})
		return err
	}

	return nil
}
