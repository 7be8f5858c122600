package models

import (
	"database/sql"
	"time"
)

// Sportsbook identifies the source of a line
type Sportsbook string

const (
	BookPinnacle   Sportsbook = "pinnacle"
	BookDraftKings Sportsbook = "draftkings"
)

// Market types stored per odds row
const (
	MarketSpread    = "spread"
	MarketTotal     = "total"
	MarketMoneyline = "moneyline"
)

// PeriodFullGame is the only period the pipeline currently ingests
const PeriodFullGame = "FG"

// Odds represents one snapshot of a game's line at a sportsbook
type Odds struct {
	ID         int    `db:"id"`
	GameID     string `db:"game_id"`
	Sportsbook string `db:"sportsbook"`
	MarketType string `db:"market_type"`
	Period     string `db:"period"`

	// Line values
	HomeSpread    sql.NullFloat64 `db:"home_spread"`
	AwaySpread    sql.NullFloat64 `db:"away_spread"`
	Total         sql.NullFloat64 `db:"total"`
	HomeMoneyline sql.NullInt32   `db:"home_moneyline"`
	AwayMoneyline sql.NullInt32   `db:"away_moneyline"`

	// Juice (vig), american
	HomeSpreadJuice sql.NullInt32 `db:"home_spread_juice"`
	AwaySpreadJuice sql.NullInt32 `db:"away_spread_juice"`
	OverJuice       sql.NullInt32 `db:"over_juice"`
	UnderJuice      sql.NullInt32 `db:"under_juice"`

	FetchedAt time.Time `db:"fetched_at"`
	CreatedAt time.Time `db:"created_at"`
}

// LineMovement records a detected change between two snapshots of the same line
type LineMovement struct {
	ID         int    `db:"id"`
	GameID     string `db:"game_id"`
	Sportsbook string `db:"sportsbook"`
	MarketType string `db:"market_type"`
	Period     string `db:"period"`

	PrevHomeSpread    sql.NullFloat64 `db:"prev_home_spread"`
	PrevTotal         sql.NullFloat64 `db:"prev_total"`
	PrevHomeMoneyline sql.NullInt32   `db:"prev_home_moneyline"`

	NewHomeSpread    sql.NullFloat64 `db:"new_home_spread"`
	NewTotal         sql.NullFloat64 `db:"new_total"`
	NewHomeMoneyline sql.NullInt32   `db:"new_home_moneyline"`

	MovedAt   time.Time       `db:"moved_at"`
	Direction sql.NullString  `db:"direction"`
	Magnitude sql.NullFloat64 `db:"magnitude"`

	CreatedAt time.Time `db:"created_at"`
}

// DetectLineMovement compares two snapshots and returns a movement record,
// or nil if the line did not move
func DetectLineMovement(prev, next *Odds) *LineMovement {
	hasMovement := false

	if prev.HomeSpread.Valid && next.HomeSpread.Valid &&
		prev.HomeSpread.Float64 != next.HomeSpread.Float64 {
		hasMovement = true
	}
	if prev.Total.Valid && next.Total.Valid &&
		prev.Total.Float64 != next.Total.Float64 {
		hasMovement = true
	}
	if prev.HomeMoneyline.Valid && next.HomeMoneyline.Valid &&
		prev.HomeMoneyline.Int32 != next.HomeMoneyline.Int32 {
		hasMovement = true
	}

	if !hasMovement {
		return nil
	}

	movement := &LineMovement{
		GameID:     next.GameID,
		Sportsbook: next.Sportsbook,
		MarketType: next.MarketType,
		Period:     next.Period,
		MovedAt:    time.Now(),

		PrevHomeSpread:    prev.HomeSpread,
		PrevTotal:         prev.Total,
		PrevHomeMoneyline: prev.HomeMoneyline,

		NewHomeSpread:    next.HomeSpread,
		NewTotal:         next.Total,
		NewHomeMoneyline: next.HomeMoneyline,
	}

	if prev.HomeSpread.Valid && next.HomeSpread.Valid {
		diff := next.HomeSpread.Float64 - prev.HomeSpread.Float64
		if diff > 0 {
			movement.Direction = sql.NullString{String: "toward_away", Valid: true}
		} else if diff < 0 {
			movement.Direction = sql.NullString{String: "toward_home", Valid: true}
		}
		if diff != 0 {
			movement.Magnitude = sql.NullFloat64{Float64: abs(diff), Valid: true}
		}
	}

	return movement
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
