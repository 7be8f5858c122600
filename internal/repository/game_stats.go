package repository

import (
	"context"
	"fmt"

	"nba_edge/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// StatsRepository handles box score and season aggregate operations
type StatsRepository struct {
	db *Database
}

// UpsertTeamGameStats inserts or updates one team's box score line
func (r *StatsRepository) UpsertTeamGameStats(ctx context.Context, stats *models.TeamGameStats) error {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, minutes, points,
			fgm, fga, fg3m, fg3a, ftm, fta,
			oreb, dreb, assists, steals, blocks, turnovers, fouls, plus_minus
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			minutes = EXCLUDED.minutes,
			points = EXCLUDED.points,
			fgm = EXCLUDED.fgm,
			fga = EXCLUDED.fga,
			fg3m = EXCLUDED.fg3m,
			fg3a = EXCLUDED.fg3a,
			ftm = EXCLUDED.ftm,
			fta = EXCLUDED.fta,
			oreb = EXCLUDED.oreb,
			dreb = EXCLUDED.dreb,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			fouls = EXCLUDED.fouls,
			plus_minus = EXCLUDED.plus_minus,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stats.GameID, stats.TeamID, stats.Minutes, stats.Points,
		stats.FieldGoalsMade, stats.FieldGoalsAttempted,
		stats.ThreesMade, stats.ThreesAttempted,
		stats.FreeThrowsMade, stats.FreeThrowsAttempted,
		stats.OffensiveRebounds, stats.DefensiveRebounds,
		stats.Assists, stats.Steals, stats.Blocks,
		stats.Turnovers, stats.PersonalFouls, stats.PlusMinus,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team game stats: %w", err)
	}

	return nil
}

// UpsertPlayerGameStats inserts or updates one player's box score line
func (r *StatsRepository) UpsertPlayerGameStats(ctx context.Context, stats *models.PlayerGameStats) error {
	query := `
		INSERT INTO player_game_stats (
			game_id, team_id, player_id, seconds, points,
			fgm, fga, fg3m, fg3a, ftm, fta,
			oreb, dreb, assists, steals, blocks, turnovers, fouls, plus_minus
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19
		)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			seconds = EXCLUDED.seconds,
			points = EXCLUDED.points,
			fgm = EXCLUDED.fgm,
			fga = EXCLUDED.fga,
			fg3m = EXCLUDED.fg3m,
			fg3a = EXCLUDED.fg3a,
			ftm = EXCLUDED.ftm,
			fta = EXCLUDED.fta,
			oreb = EXCLUDED.oreb,
			dreb = EXCLUDED.dreb,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			fouls = EXCLUDED.fouls,
			plus_minus = EXCLUDED.plus_minus,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stats.GameID, stats.TeamID, stats.PlayerID, stats.Seconds, stats.Points,
		stats.FieldGoalsMade, stats.FieldGoalsAttempted,
		stats.ThreesMade, stats.ThreesAttempted,
		stats.FreeThrowsMade, stats.FreeThrowsAttempted,
		stats.OffensiveRebounds, stats.DefensiveRebounds,
		stats.Assists, stats.Steals, stats.Blocks,
		stats.Turnovers, stats.PersonalFouls, stats.PlusMinus,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert player game stats: %w", err)
	}

	return nil
}

// GetTeamGameStats retrieves both team lines for a game keyed by team id
func (r *StatsRepository) GetTeamGameStats(ctx context.Context, gameID string) (map[int]*models.TeamGameStats, error) {
	query := `
		SELECT id, game_id, team_id, minutes, points,
		       fgm, fga, fg3m, fg3a, ftm, fta,
		       oreb, dreb, assists, steals, blocks, turnovers, fouls, plus_minus,
		       created_at, updated_at
		FROM team_game_stats
		WHERE game_id = $1
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team game stats: %w", err)
	}
	defer rows.Close()

	byTeam := make(map[int]*models.TeamGameStats)
	for rows.Next() {
		var s models.TeamGameStats
		err := rows.Scan(
			&s.ID, &s.GameID, &s.TeamID, &s.Minutes, &s.Points,
			&s.FieldGoalsMade, &s.FieldGoalsAttempted,
			&s.ThreesMade, &s.ThreesAttempted,
			&s.FreeThrowsMade, &s.FreeThrowsAttempted,
			&s.OffensiveRebounds, &s.DefensiveRebounds,
			&s.Assists, &s.Steals, &s.Blocks,
			&s.Turnovers, &s.PersonalFouls, &s.PlusMinus,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team game stats: %w", err)
		}
		byTeam[s.TeamID] = &s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team game stats: %w", err)
	}

	return byTeam, nil
}

// GetTeamSeasonLines retrieves all of a team's box score lines for a season,
// used by the aggregate recomputation
func (r *StatsRepository) GetTeamSeasonLines(ctx context.Context, teamID int, season string) ([]*models.TeamGameStats, error) {
	query := `
		SELECT s.id, s.game_id, s.team_id, s.minutes, s.points,
		       s.fgm, s.fga, s.fg3m, s.fg3a, s.ftm, s.fta,
		       s.oreb, s.dreb, s.assists, s.steals, s.blocks, s.turnovers, s.fouls, s.plus_minus,
		       s.created_at, s.updated_at
		FROM team_game_stats s
		JOIN games g ON g.game_id = s.game_id
		WHERE s.team_id = $1 AND g.season = $2 AND g.status = $3
		ORDER BY g.game_date
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID, season, models.StatusFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to query season lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.TeamGameStats
	for rows.Next() {
		var s models.TeamGameStats
		err := rows.Scan(
			&s.ID, &s.GameID, &s.TeamID, &s.Minutes, &s.Points,
			&s.FieldGoalsMade, &s.FieldGoalsAttempted,
			&s.ThreesMade, &s.ThreesAttempted,
			&s.FreeThrowsMade, &s.FreeThrowsAttempted,
			&s.OffensiveRebounds, &s.DefensiveRebounds,
			&s.Assists, &s.Steals, &s.Blocks,
			&s.Turnovers, &s.PersonalFouls, &s.PlusMinus,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan season line: %w", err)
		}
		lines = append(lines, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season lines: %w", err)
	}

	return lines, nil
}

// GetOpponentSeasonLines retrieves the box score lines of a team's
// opponents in a season, paired by game. Needed for pace and ratings.
func (r *StatsRepository) GetOpponentSeasonLines(ctx context.Context, teamID int, season string) ([]*models.TeamGameStats, error) {
	query := `
		SELECT o.id, o.game_id, o.team_id, o.minutes, o.points,
		       o.fgm, o.fga, o.fg3m, o.fg3a, o.ftm, o.fta,
		       o.oreb, o.dreb, o.assists, o.steals, o.blocks, o.turnovers, o.fouls, o.plus_minus,
		       o.created_at, o.updated_at
		FROM team_game_stats s
		JOIN team_game_stats o ON o.game_id = s.game_id AND o.team_id <> s.team_id
		JOIN games g ON g.game_id = s.game_id
		WHERE s.team_id = $1 AND g.season = $2 AND g.status = $3
		ORDER BY g.game_date
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID, season, models.StatusFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to query opponent lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.TeamGameStats
	for rows.Next() {
		var s models.TeamGameStats
		err := rows.Scan(
			&s.ID, &s.GameID, &s.TeamID, &s.Minutes, &s.Points,
			&s.FieldGoalsMade, &s.FieldGoalsAttempted,
			&s.ThreesMade, &s.ThreesAttempted,
			&s.FreeThrowsMade, &s.FreeThrowsAttempted,
			&s.OffensiveRebounds, &s.DefensiveRebounds,
			&s.Assists, &s.Steals, &s.Blocks,
			&s.Turnovers, &s.PersonalFouls, &s.PlusMinus,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opponent line: %w", err)
		}
		lines = append(lines, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opponent lines: %w", err)
	}

	return lines, nil
}

// UpsertTeamSeasonStats writes the recomputed season aggregates for one team
func (r *StatsRepository) UpsertTeamSeasonStats(ctx context.Context, stats *models.TeamSeasonStats) error {
	query := `
		INSERT INTO team_season_stats (
			team_id, season, games_played, wins, losses,
			points_per_game, opponent_points_per_game,
			field_goal_pct, three_pct, free_throw_pct,
			rebounds_per_game, assists_per_game, turnovers_per_game,
			pace, offensive_rating, defensive_rating, net_rating,
			true_shooting_pct, effective_fg_pct, pythagorean_wins
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		ON CONFLICT (team_id, season) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			points_per_game = EXCLUDED.points_per_game,
			opponent_points_per_game = EXCLUDED.opponent_points_per_game,
			field_goal_pct = EXCLUDED.field_goal_pct,
			three_pct = EXCLUDED.three_pct,
			free_throw_pct = EXCLUDED.free_throw_pct,
			rebounds_per_game = EXCLUDED.rebounds_per_game,
			assists_per_game = EXCLUDED.assists_per_game,
			turnovers_per_game = EXCLUDED.turnovers_per_game,
			pace = EXCLUDED.pace,
			offensive_rating = EXCLUDED.offensive_rating,
			defensive_rating = EXCLUDED.defensive_rating,
			net_rating = EXCLUDED.net_rating,
			true_shooting_pct = EXCLUDED.true_shooting_pct,
			effective_fg_pct = EXCLUDED.effective_fg_pct,
			pythagorean_wins = EXCLUDED.pythagorean_wins,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stats.TeamID, stats.Season, stats.GamesPlayed, stats.Wins, stats.Losses,
		stats.PointsPerGame, stats.OpponentPointsPerGame,
		stats.FieldGoalPct, stats.ThreePct, stats.FreeThrowPct,
		stats.ReboundsPerGame, stats.AssistsPerGame, stats.TurnoversPerGame,
		stats.Pace, stats.OffensiveRating, stats.DefensiveRating, stats.NetRating,
		stats.TrueShootingPct, stats.EffectiveFGPct, stats.PythagoreanWins,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team season stats: %w", err)
	}

	log.Debug().
		Int("team_id", stats.TeamID).
		Str("season", stats.Season).
		Int("games", stats.GamesPlayed).
		Msg("Season aggregates updated")

	return nil
}

// GetTeamSeasonStats retrieves one team's season aggregates, nil if not yet computed
func (r *StatsRepository) GetTeamSeasonStats(ctx context.Context, teamID int, season string) (*models.TeamSeasonStats, error) {
	query := `
		SELECT id, team_id, season, games_played, wins, losses,
		       points_per_game, opponent_points_per_game,
		       field_goal_pct, three_pct, free_throw_pct,
		       rebounds_per_game, assists_per_game, turnovers_per_game,
		       pace, offensive_rating, defensive_rating, net_rating,
		       true_shooting_pct, effective_fg_pct, pythagorean_wins,
		       created_at, updated_at
		FROM team_season_stats
		WHERE team_id = $1 AND season = $2
	`

	var s models.TeamSeasonStats
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&s.ID, &s.TeamID, &s.Season, &s.GamesPlayed, &s.Wins, &s.Losses,
		&s.PointsPerGame, &s.OpponentPointsPerGame,
		&s.FieldGoalPct, &s.ThreePct, &s.FreeThrowPct,
		&s.ReboundsPerGame, &s.AssistsPerGame, &s.TurnoversPerGame,
		&s.Pace, &s.OffensiveRating, &s.DefensiveRating, &s.NetRating,
		&s.TrueShootingPct, &s.EffectiveFGPct, &s.PythagoreanWins,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team season stats: %w", err)
	}

	return &s, nil
}
