package advisor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// Model identity persisted with every pick
const (
	ModelName    = "edge_v1"
	ModelVersion = "1.0.0"
)

// ErrAbandoned marks a pick the supervisor gave up on after retries.
// Nothing is persisted for an abandoned pick.
var ErrAbandoned = errors.New("pick abandoned")

// Advisor wires the five analysis stages together
type Advisor struct {
	Scout     *DataScout
	Quant     *QuantAnalyst
	Narrative *Narrative
	Debate    *DebateRoom
	Judge     *Judge
}

// New assembles an advisor from its stages
func New(scout *DataScout, quant *QuantAnalyst, judge *Judge) *Advisor {
	return &Advisor{
		Scout:     scout,
		Quant:     quant,
		Narrative: &Narrative{},
		Debate:    &DebateRoom{},
		Judge:     judge,
	}
}

// Supervisor drives the advisor stages with bounded retries per stage
type Supervisor struct {
	advisor    *Advisor
	maxRetries int
}

// NewSupervisor creates a supervisor allowing maxRetries extra attempts
// per stage
func NewSupervisor(advisor *Advisor, maxRetries int) *Supervisor {
	return &Supervisor{advisor: advisor, maxRetries: maxRetries}
}

// Run executes the full pipeline for one game and returns the pick ready
// to persist. A stage that keeps failing abandons the pick.
func (s *Supervisor) Run(ctx context.Context, game *models.Game) (*models.Prediction, error) {
	var gc *GameContext
	err := s.runStage(ctx, game.GameID, "data_scout", func() error {
		var err error
		gc, err = s.advisor.Scout.Gather(ctx, game)
		return err
	})
	if err != nil {
		return nil, err
	}

	var quant *QuantResult
	err = s.runStage(ctx, game.GameID, "quant_analyst", func() error {
		var err error
		quant, err = s.advisor.Quant.Predict(gc)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Narrative and debate are pure, no retry path needed
	signals := s.advisor.Narrative.Analyze(gc)
	debate := s.advisor.Debate.Argue(gc, quant, signals)

	var verdict *Verdict
	err = s.runStage(ctx, game.GameID, "judge", func() error {
		var err error
		verdict, err = s.advisor.Judge.Decide(gc, quant, debate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return buildPrediction(gc, quant, debate, verdict)
}

// runStage retries a stage with a short pause between attempts
func (s *Supervisor) runStage(ctx context.Context, gameID, stage string, fn func() error) error {
	attempts := s.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("game_id", gameID).
			Str("stage", stage).
			Int("attempt", attempt).
			Msg("Advisor stage failed")

		if attempt < attempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("%w: stage %s for game %s: %v", ErrAbandoned, stage, gameID, lastErr)
}

func buildPrediction(gc *GameContext, quant *QuantResult, debate *Debate, verdict *Verdict) (*models.Prediction, error) {
	rationale, err := json.Marshal(models.PredictionRationale{
		BullCase:   debate.BullTexts(),
		BearCase:   debate.BearTexts(),
		KeyFactors: verdict.KeyFactors,
		Inputs: map[string]float64{
			"logistic_probability":    quant.LogisticProbability,
			"pythagorean_probability": quant.PythagoreanProbability,
			"debate_net":              debate.Net(),
			"trained_games":           float64(quant.TrainedGames),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rationale: %w", err)
	}

	p := &models.Prediction{
		GameID:       gc.Game.GameID,
		ModelName:    ModelName,
		ModelVersion: sql.NullString{String: ModelVersion, Valid: true},

		HomeWinProbability: sql.NullFloat64{Float64: quant.HomeWinProbability, Valid: true},
		PredictedMargin:    sql.NullFloat64{Float64: quant.PredictedMargin, Valid: true},
		PredictedTotal:     sql.NullFloat64{Float64: quant.PredictedTotal, Valid: true},
		ConfidenceScore:    sql.NullFloat64{Float64: verdict.Confidence, Valid: true},

		RecommendBet: verdict.RecommendBet,
		Rationale:    rationale,
		PredictedAt:  time.Now(),
	}

	if verdict.MarketProbability > 0 {
		p.MarketProbability = sql.NullFloat64{Float64: verdict.MarketProbability, Valid: true}
		p.Edge = sql.NullFloat64{Float64: verdict.Edge, Valid: true}
	}
	if gc.SpreadOdds != nil {
		p.MarketSpread = gc.SpreadOdds.HomeSpread
	}
	if gc.TotalOdds != nil {
		p.MarketTotal = gc.TotalOdds.Total
	}

	if verdict.RecommendBet {
		p.BetType = sql.NullString{String: models.MarketMoneyline, Valid: true}
		p.BetSide = sql.NullString{String: verdict.Side, Valid: true}
		p.KellyFraction = sql.NullFloat64{Float64: verdict.KellyFraction, Valid: true}
	}

	return p, nil
}
