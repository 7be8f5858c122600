package repository

import (
	"context"
	"fmt"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `
	id, game_id, season, season_type, home_team_id, away_team_id,
	home_tricode, away_tricode, game_date, status, period, game_clock,
	home_score, away_score,
	home_score_q1, home_score_q2, home_score_q3, home_score_q4, home_score_ot,
	away_score_q1, away_score_q2, away_score_q3, away_score_q4, away_score_ot,
	total_score, margin, created_at, updated_at
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GameID, &game.Season, &game.SeasonType,
		&game.HomeTeamID, &game.AwayTeamID,
		&game.HomeTriCode, &game.AwayTriCode,
		&game.GameDate, &game.Status, &game.Period, &game.GameClock,
		&game.HomeScore, &game.AwayScore,
		&game.HomeScoreQ1, &game.HomeScoreQ2, &game.HomeScoreQ3, &game.HomeScoreQ4, &game.HomeScoreOT,
		&game.AwayScoreQ1, &game.AwayScoreQ2, &game.AwayScoreQ3, &game.AwayScoreQ4, &game.AwayScoreOT,
		&game.TotalScore, &game.Margin,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Upsert inserts or updates a game keyed on the stats API game id.
// total_score and margin are generated columns, never written.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_id, season, season_type, home_team_id, away_team_id,
			home_tricode, away_tricode, game_date, status, period, game_clock,
			home_score, away_score,
			home_score_q1, home_score_q2, home_score_q3, home_score_q4, home_score_ot,
			away_score_q1, away_score_q2, away_score_q3, away_score_q4, away_score_ot
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
		ON CONFLICT (game_id) DO UPDATE SET
			status = EXCLUDED.status,
			period = EXCLUDED.period,
			game_clock = EXCLUDED.game_clock,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_score_q1 = EXCLUDED.home_score_q1,
			home_score_q2 = EXCLUDED.home_score_q2,
			home_score_q3 = EXCLUDED.home_score_q3,
			home_score_q4 = EXCLUDED.home_score_q4,
			home_score_ot = EXCLUDED.home_score_ot,
			away_score_q1 = EXCLUDED.away_score_q1,
			away_score_q2 = EXCLUDED.away_score_q2,
			away_score_q3 = EXCLUDED.away_score_q3,
			away_score_q4 = EXCLUDED.away_score_q4,
			away_score_ot = EXCLUDED.away_score_ot,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameID, game.Season, game.SeasonType,
		game.HomeTeamID, game.AwayTeamID,
		game.HomeTriCode, game.AwayTriCode,
		game.GameDate, game.Status, game.Period, game.GameClock,
		game.HomeScore, game.AwayScore,
		game.HomeScoreQ1, game.HomeScoreQ2, game.HomeScoreQ3, game.HomeScoreQ4, game.HomeScoreOT,
		game.AwayScoreQ1, game.AwayScoreQ2, game.AwayScoreQ3, game.AwayScoreQ4, game.AwayScoreOT,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByGameID retrieves a game by the stats API game id
func (r *GameRepository) GetByGameID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, gameID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetActiveGames retrieves all games currently in progress
func (r *GameRepository) GetActiveGames(ctx context.Context) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE status = $1 ORDER BY game_date`
	return r.queryGames(ctx, query, models.StatusInProgress)
}

// GetByDate retrieves all games on a calendar date (UTC)
func (r *GameRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_date::date = $1::date ORDER BY game_date`
	return r.queryGames(ctx, query, date)
}

// GetUpcoming retrieves scheduled games starting within the window
func (r *GameRepository) GetUpcoming(ctx context.Context, window time.Duration) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1 AND game_date BETWEEN NOW() AND NOW() + $2
		ORDER BY game_date
	`
	return r.queryGames(ctx, query, models.StatusScheduled, window)
}

// GetFinalsByTeam retrieves completed games for a team in a season,
// most recent first, limited to n (0 means no limit)
func (r *GameRepository) GetFinalsByTeam(ctx context.Context, teamID int, season string, n int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1 AND season = $2 AND (home_team_id = $3 OR away_team_id = $3)
		ORDER BY game_date DESC
	`
	args := []interface{}{models.StatusFinal, season, teamID}
	if n > 0 {
		query += ` LIMIT $4`
		args = append(args, n)
	}
	return r.queryGames(ctx, query, args...)
}

// GetFinalsBySeason retrieves all completed games in a season ordered by
// date, for model training and season aggregate recomputation
func (r *GameRepository) GetFinalsBySeason(ctx context.Context, season string) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = $1 AND season = $2
		ORDER BY game_date
	`
	return r.queryGames(ctx, query, models.StatusFinal, season)
}

// ListUnpredicted retrieves scheduled games starting within the window
// that have no prediction row yet
func (r *GameRepository) ListUnpredicted(ctx context.Context, window time.Duration) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		WHERE g.status = $1
		  AND g.game_date BETWEEN NOW() AND NOW() + $2
		  AND NOT EXISTS (SELECT 1 FROM predictions p WHERE p.game_id = g.game_id)
		ORDER BY g.game_date
	`
	return r.queryGames(ctx, query, models.StatusScheduled, window)
}

// UpdateStatus transitions a game's status without touching scores
func (r *GameRepository) UpdateStatus(ctx context.Context, gameID, status string) error {
	query := `UPDATE games SET status = $2, updated_at = NOW() WHERE game_id = $1`

	result, err := r.db.Pool.Exec(ctx, query, gameID, status)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: game_id=%s", gameID)
	}

	log.Debug().Str("game_id", gameID).Str("status", status).Msg("Game status updated")
	return nil
}

// CountBySeason returns the number of games stored for a season
func (r *GameRepository) CountBySeason(ctx context.Context, season string) (int, error) {
	query := `SELECT COUNT(*) FROM games WHERE season = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}

func (r *GameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}
