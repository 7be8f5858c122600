package repository

import (
	"context"
	"fmt"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// OddsRepository handles odds snapshot and line movement operations
type OddsRepository struct {
	db *Database
}

const oddsColumns = `
	id, game_id, sportsbook, market_type, period,
	home_spread, away_spread, total, home_moneyline, away_moneyline,
	home_spread_juice, away_spread_juice, over_juice, under_juice,
	fetched_at, created_at
`

func scanOdds(row pgx.Row) (*models.Odds, error) {
	var o models.Odds
	err := row.Scan(
		&o.ID, &o.GameID, &o.Sportsbook, &o.MarketType, &o.Period,
		&o.HomeSpread, &o.AwaySpread, &o.Total,
		&o.HomeMoneyline, &o.AwayMoneyline,
		&o.HomeSpreadJuice, &o.AwaySpreadJuice,
		&o.OverJuice, &o.UnderJuice,
		&o.FetchedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOdds stores a new snapshot. Snapshots are append-only.
func (r *OddsRepository) CreateOdds(ctx context.Context, odds *models.Odds) error {
	query := `
		INSERT INTO odds (
			game_id, sportsbook, market_type, period,
			home_spread, away_spread, total, home_moneyline, away_moneyline,
			home_spread_juice, away_spread_juice, over_juice, under_juice,
			fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	if odds.FetchedAt.IsZero() {
		odds.FetchedAt = time.Now()
	}

	err := r.db.Pool.QueryRow(
		ctx, query,
		odds.GameID, odds.Sportsbook, odds.MarketType, odds.Period,
		odds.HomeSpread, odds.AwaySpread, odds.Total,
		odds.HomeMoneyline, odds.AwayMoneyline,
		odds.HomeSpreadJuice, odds.AwaySpreadJuice,
		odds.OverJuice, odds.UnderJuice,
		odds.FetchedAt,
	).Scan(&odds.ID, &odds.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create odds: %w", err)
	}

	return nil
}

// GetLatestOdds retrieves the most recent snapshot for a game/book/market,
// nil if none exists yet
func (r *OddsRepository) GetLatestOdds(ctx context.Context, gameID, sportsbook, marketType string) (*models.Odds, error) {
	query := `
		SELECT ` + oddsColumns + `
		FROM odds
		WHERE game_id = $1 AND sportsbook = $2 AND market_type = $3
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	odds, err := scanOdds(r.db.Pool.QueryRow(ctx, query, gameID, sportsbook, marketType))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest odds: %w", err)
	}

	return odds, nil
}

// GetLatestByGame retrieves the most recent snapshot per book/market for a game
func (r *OddsRepository) GetLatestByGame(ctx context.Context, gameID string) ([]*models.Odds, error) {
	query := `
		SELECT DISTINCT ON (sportsbook, market_type) ` + oddsColumns + `
		FROM odds
		WHERE game_id = $1
		ORDER BY sportsbook, market_type, fetched_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest odds: %w", err)
	}
	defer rows.Close()

	var all []*models.Odds
	for rows.Next() {
		odds, err := scanOdds(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		all = append(all, odds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds: %w", err)
	}

	return all, nil
}

// GetHistory retrieves every snapshot for a game/book/market in fetch order
func (r *OddsRepository) GetHistory(ctx context.Context, gameID, sportsbook, marketType string) ([]*models.Odds, error) {
	query := `
		SELECT ` + oddsColumns + `
		FROM odds
		WHERE game_id = $1 AND sportsbook = $2 AND market_type = $3
		ORDER BY fetched_at
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID, sportsbook, marketType)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds history: %w", err)
	}
	defer rows.Close()

	var history []*models.Odds
	for rows.Next() {
		odds, err := scanOdds(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		history = append(history, odds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds history: %w", err)
	}

	return history, nil
}

// TrackAndSaveOdds stores a new snapshot and, if the line moved since the
// previous snapshot, records the movement. A failed movement insert is
// logged but does not fail the snapshot.
func (r *OddsRepository) TrackAndSaveOdds(ctx context.Context, odds *models.Odds) (*models.LineMovement, error) {
	prev, err := r.GetLatestOdds(ctx, odds.GameID, odds.Sportsbook, odds.MarketType)
	if err != nil {
		return nil, err
	}

	if err := r.CreateOdds(ctx, odds); err != nil {
		return nil, err
	}

	if prev == nil {
		return nil, nil
	}

	movement := models.DetectLineMovement(prev, odds)
	if movement == nil {
		return nil, nil
	}

	if err := r.CreateLineMovement(ctx, movement); err != nil {
		log.Error().
			Err(err).
			Str("game_id", odds.GameID).
			Str("sportsbook", odds.Sportsbook).
			Str("market_type", odds.MarketType).
			Msg("Failed to record line movement")
		return nil, nil
	}

	log.Info().
		Str("game_id", odds.GameID).
		Str("sportsbook", odds.Sportsbook).
		Str("market_type", odds.MarketType).
		Str("direction", movement.Direction.String).
		Float64("magnitude", movement.Magnitude.Float64).
		Msg("Line movement detected")

	return movement, nil
}

// CreateLineMovement stores a detected line movement
func (r *OddsRepository) CreateLineMovement(ctx context.Context, m *models.LineMovement) error {
	query := `
		INSERT INTO line_movements (
			game_id, sportsbook, market_type, period,
			prev_home_spread, prev_total, prev_home_moneyline,
			new_home_spread, new_total, new_home_moneyline,
			moved_at, direction, magnitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		m.GameID, m.Sportsbook, m.MarketType, m.Period,
		m.PrevHomeSpread, m.PrevTotal, m.PrevHomeMoneyline,
		m.NewHomeSpread, m.NewTotal, m.NewHomeMoneyline,
		m.MovedAt, m.Direction, m.Magnitude,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create line movement: %w", err)
	}

	return nil
}

// GetLineMovements retrieves the movement history for a game in time order
func (r *OddsRepository) GetLineMovements(ctx context.Context, gameID string) ([]*models.LineMovement, error) {
	query := `
		SELECT id, game_id, sportsbook, market_type, period,
		       prev_home_spread, prev_total, prev_home_moneyline,
		       new_home_spread, new_total, new_home_moneyline,
		       moved_at, direction, magnitude, created_at
		FROM line_movements
		WHERE game_id = $1
		ORDER BY moved_at
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.LineMovement
	for rows.Next() {
		var m models.LineMovement
		err := rows.Scan(
			&m.ID, &m.GameID, &m.Sportsbook, &m.MarketType, &m.Period,
			&m.PrevHomeSpread, &m.PrevTotal, &m.PrevHomeMoneyline,
			&m.NewHomeSpread, &m.NewTotal, &m.NewHomeMoneyline,
			&m.MovedAt, &m.Direction, &m.Magnitude, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line movement: %w", err)
		}
		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line movements: %w", err)
	}

	return movements, nil
}
