package repository

import (
	"context"
	"fmt"

	"nba_edge/pipeline/internal/models"
)

// StandingsRepository handles league standings operations
type StandingsRepository struct {
	db *Database
}

// Upsert inserts or updates one team's standings row for a season
func (r *StandingsRepository) Upsert(ctx context.Context, standing *models.Standing) error {
	query := `
		INSERT INTO standings (
			team_id, season, wins, losses, win_pct, conference_rank,
			home_record, road_record, last_ten, streak
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id, season) DO UPDATE SET
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			win_pct = EXCLUDED.win_pct,
			conference_rank = EXCLUDED.conference_rank,
			home_record = EXCLUDED.home_record,
			road_record = EXCLUDED.road_record,
			last_ten = EXCLUDED.last_ten,
			streak = EXCLUDED.streak,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		standing.TeamID, standing.Season, standing.Wins, standing.Losses,
		standing.WinPct, standing.ConferenceRank,
		standing.HomeRecord, standing.RoadRecord, standing.LastTen, standing.Streak,
	).Scan(&standing.ID, &standing.CreatedAt, &standing.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert standing: %w", err)
	}

	return nil
}

// GetByTeam retrieves one team's standings row for a season
func (r *StandingsRepository) GetByTeam(ctx context.Context, teamID int, season string) (*models.Standing, error) {
	query := `
		SELECT id, team_id, season, wins, losses, win_pct, conference_rank,
		       home_record, road_record, last_ten, streak, created_at, updated_at
		FROM standings
		WHERE team_id = $1 AND season = $2
	`

	var s models.Standing
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&s.ID, &s.TeamID, &s.Season, &s.Wins, &s.Losses,
		&s.WinPct, &s.ConferenceRank,
		&s.HomeRecord, &s.RoadRecord, &s.LastTen, &s.Streak,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get standing: %w", err)
	}

	return &s, nil
}

// ListBySeason retrieves the full standings table for a season
func (r *StandingsRepository) ListBySeason(ctx context.Context, season string) ([]*models.Standing, error) {
	query := `
		SELECT id, team_id, season, wins, losses, win_pct, conference_rank,
		       home_record, road_record, last_ten, streak, created_at, updated_at
		FROM standings
		WHERE season = $1
		ORDER BY win_pct DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var standings []*models.Standing
	for rows.Next() {
		var s models.Standing
		err := rows.Scan(
			&s.ID, &s.TeamID, &s.Season, &s.Wins, &s.Losses,
			&s.WinPct, &s.ConferenceRank,
			&s.HomeRecord, &s.RoadRecord, &s.LastTen, &s.Streak,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return standings, nil
}
