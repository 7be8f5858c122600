//go:build integration

package repository

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRepository_Create(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := upsertTestTeam(t, ctx, db, 1610612739, "CLE", "Cleveland Cavaliers")
	away := upsertTestTeam(t, ctx, db, 1610612754, "IND", "Indiana Pacers")

	game := &models.Game{
		GameID: "0022500701", Season: "2024-25", SeasonType: "Regular Season",
		HomeTeamID: home.ID, AwayTeamID: away.ID,
		Status: models.StatusScheduled, GameDate: time.Now().Add(8 * time.Hour),
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	rationale, err := json.Marshal(models.PredictionRationale{
		BullCase:   []string{"Home team rested, opponent on a back-to-back"},
		BearCase:   []string{"Line has moved against the pick"},
		KeyFactors: []string{"rest", "net rating gap"},
	})
	require.NoError(t, err)

	pick := &models.Prediction{
		GameID:       game.GameID,
		ModelName:    "edge_v1",
		ModelVersion: sql.NullString{String: "1.0.0", Valid: true},

		HomeWinProbability: sql.NullFloat64{Float64: 0.62, Valid: true},
		PredictedMargin:    sql.NullFloat64{Float64: 4.8, Valid: true},
		ConfidenceScore:    sql.NullFloat64{Float64: 0.64, Valid: true},

		MarketProbability: sql.NullFloat64{Float64: 0.55, Valid: true},
		Edge:              sql.NullFloat64{Float64: 0.07, Valid: true},

		RecommendBet:  true,
		BetType:       sql.NullString{String: models.MarketMoneyline, Valid: true},
		BetSide:       sql.NullString{String: "home", Valid: true},
		KellyFraction: sql.NullFloat64{Float64: 0.03, Valid: true},

		Rationale: rationale,
	}

	require.NoError(t, db.Predictions.Create(ctx, pick))

	retrieved, err := db.Predictions.GetByGameID(ctx, game.GameID, "edge_v1")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.InDelta(t, 0.62, retrieved.HomeWinProbability.Float64, 1e-9)
	assert.True(t, retrieved.RecommendBet)
	assert.Equal(t, "home", retrieved.BetSide.String)

	var stored models.PredictionRationale
	require.NoError(t, json.Unmarshal(retrieved.Rationale, &stored))
	assert.Len(t, stored.BullCase, 1)

	// Rerun replaces the pick
	pick.ConfidenceScore = sql.NullFloat64{Float64: 0.58, Valid: true}
	pick.RecommendBet = false
	require.NoError(t, db.Predictions.Create(ctx, pick))

	updated, err := db.Predictions.GetByGameID(ctx, game.GameID, "edge_v1")
	require.NoError(t, err)
	assert.InDelta(t, 0.58, updated.ConfidenceScore.Float64, 1e-9)
	assert.False(t, updated.RecommendBet)
}

func TestPredictionRepository_Validation(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Predictions.Create(ctx, &models.Prediction{ModelName: "edge_v1"})
	assert.Error(t, err, "Missing game_id should be rejected")

	err = db.Predictions.Create(ctx, &models.Prediction{GameID: "0022500702"})
	assert.Error(t, err, "Missing model_name should be rejected")

	err = db.Predictions.Create(ctx, &models.Prediction{
		GameID:             "0022500702",
		ModelName:          "edge_v1",
		HomeWinProbability: sql.NullFloat64{Float64: 1.4, Valid: true},
	})
	assert.Error(t, err, "Probability above 1 should be rejected")
}

func TestPredictionRepository_GetMissing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	p, err := db.Predictions.GetByGameID(ctx, "no-such-game", "edge_v1")
	require.NoError(t, err)
	assert.Nil(t, p, "Missing pick should return nil, not error")
}
