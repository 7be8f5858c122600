package scheduler

import (
	"database/sql"

	"nba_edge/pipeline/internal/books/draftkings"
	"nba_edge/pipeline/internal/books/pinnacle"
	"nba_edge/pipeline/internal/models"
	"nba_edge/pipeline/internal/oddsmath"
)

// pinnacleSnapshots converts one Pinnacle event into odds rows, one per
// market present on the event. Pinnacle prices are decimal and are stored
// as american.
func pinnacleSnapshots(e *pinnacle.EventOdds, gameID string) []*models.Odds {
	var snapshots []*models.Odds

	if e.HomeSpreadPrice > 1 && e.AwaySpreadPrice > 1 {
		snapshots = append(snapshots, &models.Odds{
			GameID:          gameID,
			Sportsbook:      string(models.BookPinnacle),
			MarketType:      models.MarketSpread,
			Period:          models.PeriodFullGame,
			HomeSpread:      sql.NullFloat64{Float64: e.HomeSpread, Valid: true},
			AwaySpread:      sql.NullFloat64{Float64: -e.HomeSpread, Valid: true},
			HomeSpreadJuice: decimalJuice(e.HomeSpreadPrice),
			AwaySpreadJuice: decimalJuice(e.AwaySpreadPrice),
		})
	}

	if e.Total > 0 && e.OverPrice > 1 && e.UnderPrice > 1 {
		snapshots = append(snapshots, &models.Odds{
			GameID:     gameID,
			Sportsbook: string(models.BookPinnacle),
			MarketType: models.MarketTotal,
			Period:     models.PeriodFullGame,
			Total:      sql.NullFloat64{Float64: e.Total, Valid: true},
			OverJuice:  decimalJuice(e.OverPrice),
			UnderJuice: decimalJuice(e.UnderPrice),
		})
	}

	if e.HomeMoneyline > 1 && e.AwayMoneyline > 1 {
		snapshots = append(snapshots, &models.Odds{
			GameID:        gameID,
			Sportsbook:    string(models.BookPinnacle),
			MarketType:    models.MarketMoneyline,
			Period:        models.PeriodFullGame,
			HomeMoneyline: decimalJuice(e.HomeMoneyline),
			AwayMoneyline: decimalJuice(e.AwayMoneyline),
		})
	}

	return snapshots
}

// draftKingsSnapshots converts one DraftKings event. Prices arrive
// american already.
func draftKingsSnapshots(e *draftkings.EventOdds, gameID string) []*models.Odds {
	var snapshots []*models.Odds

	if e.HomeSpreadPrice != 0 && e.AwaySpreadPrice != 0 {
		snapshots = append(snapshots, &models.Odds{
			GameID:          gameID,
			Sportsbook:      string(models.BookDraftKings),
			MarketType:      models.MarketSpread,
			Period:          models.PeriodFullGame,
			HomeSpread:      sql.NullFloat64{Float64: e.HomeSpread, Valid: true},
			AwaySpread:      sql.NullFloat64{Float64: -e.HomeSpread, Valid: true},
			HomeSpreadJuice: americanJuice(e.HomeSpreadPrice),
			AwaySpreadJuice: americanJuice(e.AwaySpreadPrice),
		})
	}

	if e.Total > 0 && e.OverPrice != 0 && e.UnderPrice != 0 {
		snapshots = append(snapshots, &models.Odds{
			GameID:     gameID,
			Sportsbook: string(models.BookDraftKings),
			MarketType: models.MarketTotal,
			Period:     models.PeriodFullGame,
			Total:      sql.NullFloat64{Float64: e.Total, Valid: true},
			OverJuice:  americanJuice(e.OverPrice),
			UnderJuice: americanJuice(e.UnderPrice),
		})
	}

	if e.HomeMoneyline != 0 && e.AwayMoneyline != 0 {
		snapshots = append(snapshots, &models.Odds{
			GameID:        gameID,
			Sportsbook:    string(models.BookDraftKings),
			MarketType:    models.MarketMoneyline,
			Period:        models.PeriodFullGame,
			HomeMoneyline: americanJuice(e.HomeMoneyline),
			AwayMoneyline: americanJuice(e.AwayMoneyline),
		})
	}

	return snapshots
}

func decimalJuice(decimal float64) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(oddsmath.DecimalToAmerican(decimal)), Valid: true}
}

func americanJuice(american int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(american), Valid: true}
}
