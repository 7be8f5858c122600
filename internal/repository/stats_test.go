//go:build integration

package repository

import (
	"testing"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_UpsertTeamGameStats(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := upsertTestTeam(t, ctx, db, 1610612755, "PHI", "Philadelphia 76ers")
	away := upsertTestTeam(t, ctx, db, 1610612751, "BKN", "Brooklyn Nets")

	game := &models.Game{
		GameID: "0022500601", Season: "2024-25", SeasonType: "Regular Season",
		HomeTeamID: home.ID, AwayTeamID: away.ID,
		Status: models.StatusFinal, GameDate: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	line := &models.TeamGameStats{
		GameID:  game.GameID,
		TeamID:  home.ID,
		Minutes: 240,
		Points:  112,

		FieldGoalsMade:      42,
		FieldGoalsAttempted: 88,
		ThreesMade:          14,
		ThreesAttempted:     36,
		FreeThrowsMade:      14,
		FreeThrowsAttempted: 18,

		OffensiveRebounds: 10,
		DefensiveRebounds: 33,
		Assists:           26,
		Turnovers:         13,
	}

	err := db.Stats.UpsertTeamGameStats(ctx, line)
	require.NoError(t, err, "Should insert team box score")

	// Corrected box score replaces the row
	line.Points = 114
	line.FieldGoalsMade = 43
	err = db.Stats.UpsertTeamGameStats(ctx, line)
	require.NoError(t, err, "Should update team box score")

	byTeam, err := db.Stats.GetTeamGameStats(ctx, game.GameID)
	require.NoError(t, err)
	require.Contains(t, byTeam, home.ID)
	assert.Equal(t, 114, byTeam[home.ID].Points)
	assert.Equal(t, 43, byTeam[home.ID].FieldGoalsMade)
}

func TestStatsRepository_UpsertTeamSeasonStats(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := upsertTestTeam(t, ctx, db, 1610612760, "OKC", "Oklahoma City Thunder")

	stats := &models.TeamSeasonStats{
		TeamID: team.ID,
		Season: "2024-25",

		GamesPlayed: 20,
		Wins:        15,
		Losses:      5,

		PointsPerGame:         118.4,
		OpponentPointsPerGame: 106.2,

		Pace:            99.1,
		OffensiveRating: 119.5,
		DefensiveRating: 107.2,
		NetRating:       12.3,
		TrueShootingPct: 0.601,
		EffectiveFGPct:  0.567,
		PythagoreanWins: 16.2,
	}

	err := db.Stats.UpsertTeamSeasonStats(ctx, stats)
	require.NoError(t, err, "Should insert season aggregates")

	// Recompute after more games
	stats.GamesPlayed = 21
	stats.Wins = 16
	stats.PointsPerGame = 118.9
	err = db.Stats.UpsertTeamSeasonStats(ctx, stats)
	require.NoError(t, err, "Should update season aggregates")

	retrieved, err := db.Stats.GetTeamSeasonStats(ctx, team.ID, "2024-25")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, 21, retrieved.GamesPlayed)
	assert.Equal(t, 16, retrieved.Wins)
	assert.InDelta(t, 118.9, retrieved.PointsPerGame, 1e-9)
	assert.InDelta(t, 12.3, retrieved.NetRating, 1e-9)
}

func TestStatsRepository_GetTeamSeasonStatsMissing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := upsertTestTeam(t, ctx, db, 1610612762, "UTA", "Utah Jazz")

	stats, err := db.Stats.GetTeamSeasonStats(ctx, team.ID, "1990-91")
	require.NoError(t, err)
	assert.Nil(t, stats, "Missing aggregates should return nil, not error")
}
