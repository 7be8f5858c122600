package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Prediction represents an advisor pick for a game
type Prediction struct {
	ID     int    `db:"id"`
	GameID string `db:"game_id"`

	ModelName    string         `db:"model_name"`
	ModelVersion sql.NullString `db:"model_version"`

	// Model outputs
	HomeWinProbability sql.NullFloat64 `db:"home_win_probability"`
	PredictedMargin    sql.NullFloat64 `db:"predicted_margin"`
	PredictedTotal     sql.NullFloat64 `db:"predicted_total"`

	// Calibrated confidence after the debate/judge stages
	ConfidenceScore sql.NullFloat64 `db:"confidence_score"`

	// Market comparison
	MarketSpread      sql.NullFloat64 `db:"market_spread"`
	MarketTotal       sql.NullFloat64 `db:"market_total"`
	MarketProbability sql.NullFloat64 `db:"market_probability"`
	Edge              sql.NullFloat64 `db:"edge"`

	// Recommendation
	RecommendBet  bool            `db:"recommend_bet"`
	BetType       sql.NullString  `db:"bet_type"`
	BetSide       sql.NullString  `db:"bet_side"`
	KellyFraction sql.NullFloat64 `db:"kelly_fraction"`

	// Rationale (JSONB)
	Rationale json.RawMessage `db:"rationale"`

	PredictedAt time.Time `db:"predicted_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// PredictionRationale is the JSONB payload persisted with each pick
type PredictionRationale struct {
	BullCase   []string           `json:"bull_case"`
	BearCase   []string           `json:"bear_case"`
	KeyFactors []string           `json:"key_factors"`
	Inputs     map[string]float64 `json:"inputs,omitempty"`
}
