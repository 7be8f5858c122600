//go:build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOddsGame(t *testing.T, ctx context.Context, db *Database) string {
	t.Helper()

	home := upsertTestTeam(t, ctx, db, 1610612749, "MIL", "Milwaukee Bucks")
	away := upsertTestTeam(t, ctx, db, 1610612752, "NYK", "New York Knicks")

	game := &models.Game{
		GameID: "0022500501", Season: "2024-25", SeasonType: "Regular Season",
		HomeTeamID: home.ID, AwayTeamID: away.ID,
		Status: models.StatusScheduled, GameDate: time.Now().Add(6 * time.Hour),
	}
	require.NoError(t, db.Games.Upsert(ctx, game))
	return game.GameID
}

func TestOddsRepository_TrackAndSaveOdds(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	gameID := seedOddsGame(t, ctx, db)

	first := &models.Odds{
		GameID:     gameID,
		Sportsbook: string(models.BookPinnacle),
		MarketType: models.MarketSpread,
		Period:     models.PeriodFullGame,
		HomeSpread: sql.NullFloat64{Float64: -4.5, Valid: true},
		AwaySpread: sql.NullFloat64{Float64: 4.5, Valid: true},
	}

	// First snapshot has nothing to compare against
	movement, err := db.Odds.TrackAndSaveOdds(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, movement, "First snapshot should produce no movement")

	// Same line again: snapshot stored, still no movement
	second := &models.Odds{
		GameID:     gameID,
		Sportsbook: string(models.BookPinnacle),
		MarketType: models.MarketSpread,
		Period:     models.PeriodFullGame,
		HomeSpread: sql.NullFloat64{Float64: -4.5, Valid: true},
		AwaySpread: sql.NullFloat64{Float64: 4.5, Valid: true},
	}
	movement, err = db.Odds.TrackAndSaveOdds(ctx, second)
	require.NoError(t, err)
	assert.Nil(t, movement, "Unchanged line should produce no movement")

	// Line moves toward the home team
	third := &models.Odds{
		GameID:     gameID,
		Sportsbook: string(models.BookPinnacle),
		MarketType: models.MarketSpread,
		Period:     models.PeriodFullGame,
		HomeSpread: sql.NullFloat64{Float64: -5.5, Valid: true},
		AwaySpread: sql.NullFloat64{Float64: 5.5, Valid: true},
	}
	movement, err = db.Odds.TrackAndSaveOdds(ctx, third)
	require.NoError(t, err)
	require.NotNil(t, movement, "Moved line should produce a movement record")
	assert.Equal(t, "toward_home", movement.Direction.String)
	assert.InDelta(t, 1.0, movement.Magnitude.Float64, 1e-9)
	assert.Equal(t, -4.5, movement.PrevHomeSpread.Float64)
	assert.Equal(t, -5.5, movement.NewHomeSpread.Float64)

	// Movement is queryable
	movements, err := db.Odds.GetLineMovements(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestOddsRepository_GetLatestOdds(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	gameID := seedOddsGame(t, ctx, db)

	// Nothing stored yet
	latest, err := db.Odds.GetLatestOdds(ctx, gameID, string(models.BookDraftKings), models.MarketTotal)
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := &models.Odds{
		GameID:     gameID,
		Sportsbook: string(models.BookDraftKings),
		MarketType: models.MarketTotal,
		Period:     models.PeriodFullGame,
		Total:      sql.NullFloat64{Float64: 221.5, Valid: true},
		FetchedAt:  time.Now().Add(-time.Hour),
	}
	newer := &models.Odds{
		GameID:     gameID,
		Sportsbook: string(models.BookDraftKings),
		MarketType: models.MarketTotal,
		Period:     models.PeriodFullGame,
		Total:      sql.NullFloat64{Float64: 223.0, Valid: true},
		FetchedAt:  time.Now(),
	}
	require.NoError(t, db.Odds.CreateOdds(ctx, older))
	require.NoError(t, db.Odds.CreateOdds(ctx, newer))

	latest, err = db.Odds.GetLatestOdds(ctx, gameID, string(models.BookDraftKings), models.MarketTotal)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 223.0, latest.Total.Float64, "Should return the most recent snapshot")

	history, err := db.Odds.GetHistory(ctx, gameID, string(models.BookDraftKings), models.MarketTotal)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 221.5, history[0].Total.Float64, "History should be in fetch order")
}
