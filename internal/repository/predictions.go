package repository

import (
	"context"
	"fmt"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PredictionRepository handles advisor pick persistence
type PredictionRepository struct {
	db *Database
}

const predictionColumns = `
	id, game_id, model_name, model_version,
	home_win_probability, predicted_margin, predicted_total, confidence_score,
	market_spread, market_total, market_probability, edge,
	recommend_bet, bet_type, bet_side, kelly_fraction,
	rationale, predicted_at, created_at
`

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var p models.Prediction
	err := row.Scan(
		&p.ID, &p.GameID, &p.ModelName, &p.ModelVersion,
		&p.HomeWinProbability, &p.PredictedMargin, &p.PredictedTotal, &p.ConfidenceScore,
		&p.MarketSpread, &p.MarketTotal, &p.MarketProbability, &p.Edge,
		&p.RecommendBet, &p.BetType, &p.BetSide, &p.KellyFraction,
		&p.Rationale, &p.PredictedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create stores an advisor pick. One pick per game and model; reruns replace it.
func (r *PredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	if p.GameID == "" {
		return fmt.Errorf("prediction missing game_id")
	}
	if p.ModelName == "" {
		return fmt.Errorf("prediction missing model_name")
	}
	if p.HomeWinProbability.Valid &&
		(p.HomeWinProbability.Float64 < 0 || p.HomeWinProbability.Float64 > 1) {
		return fmt.Errorf("home_win_probability out of range: %f", p.HomeWinProbability.Float64)
	}

	query := `
		INSERT INTO predictions (
			game_id, model_name, model_version,
			home_win_probability, predicted_margin, predicted_total, confidence_score,
			market_spread, market_total, market_probability, edge,
			recommend_bet, bet_type, bet_side, kelly_fraction,
			rationale, predicted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (game_id, model_name) DO UPDATE SET
			model_version = EXCLUDED.model_version,
			home_win_probability = EXCLUDED.home_win_probability,
			predicted_margin = EXCLUDED.predicted_margin,
			predicted_total = EXCLUDED.predicted_total,
			confidence_score = EXCLUDED.confidence_score,
			market_spread = EXCLUDED.market_spread,
			market_total = EXCLUDED.market_total,
			market_probability = EXCLUDED.market_probability,
			edge = EXCLUDED.edge,
			recommend_bet = EXCLUDED.recommend_bet,
			bet_type = EXCLUDED.bet_type,
			bet_side = EXCLUDED.bet_side,
			kelly_fraction = EXCLUDED.kelly_fraction,
			rationale = EXCLUDED.rationale,
			predicted_at = EXCLUDED.predicted_at
		RETURNING id, created_at
	`

	if p.PredictedAt.IsZero() {
		p.PredictedAt = time.Now()
	}

	err := r.db.Pool.QueryRow(
		ctx, query,
		p.GameID, p.ModelName, p.ModelVersion,
		p.HomeWinProbability, p.PredictedMargin, p.PredictedTotal, p.ConfidenceScore,
		p.MarketSpread, p.MarketTotal, p.MarketProbability, p.Edge,
		p.RecommendBet, p.BetType, p.BetSide, p.KellyFraction,
		p.Rationale, p.PredictedAt,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetByGameID retrieves the pick for a game, nil if the advisor has not run
func (r *PredictionRepository) GetByGameID(ctx context.Context, gameID, modelName string) (*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE game_id = $1 AND model_name = $2
	`

	p, err := scanPrediction(r.db.Pool.QueryRow(ctx, query, gameID, modelName))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return p, nil
}

// ListRecommended retrieves picks with recommend_bet set, predicted since
// the cutoff, strongest edge first
func (r *PredictionRepository) ListRecommended(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE recommend_bet = TRUE AND predicted_at >= $1
		ORDER BY edge DESC NULLS LAST
	`

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommended picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		picks = append(picks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return picks, nil
}

// Delete removes a pick, used when a game is postponed
func (r *PredictionRepository) Delete(ctx context.Context, gameID, modelName string) error {
	query := `DELETE FROM predictions WHERE game_id = $1 AND model_name = $2`

	result, err := r.db.Pool.Exec(ctx, query, gameID, modelName)
	if err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prediction not found: game_id=%s model=%s", gameID, modelName)
	}

	log.Debug().Str("game_id", gameID).Str("model", modelName).Msg("Prediction deleted")
	return nil
}
