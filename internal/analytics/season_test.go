package analytics

import (
	"testing"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonLine(gameID string, points int) *models.TeamGameStats {
	return &models.TeamGameStats{
		GameID:  gameID,
		TeamID:  1,
		Minutes: 240,
		Points:  points,

		FieldGoalsMade:      40,
		FieldGoalsAttempted: 90,
		ThreesMade:          12,
		ThreesAttempted:     30,
		FreeThrowsMade:      18,
		FreeThrowsAttempted: 20,

		OffensiveRebounds: 10,
		DefensiveRebounds: 35,
		Assists:           25,
		Turnovers:         12,
	}
}

func opponentLine(gameID string, points int) *models.TeamGameStats {
	return &models.TeamGameStats{
		GameID:  gameID,
		TeamID:  2,
		Minutes: 240,
		Points:  points,

		FieldGoalsAttempted: 88,
		FreeThrowsAttempted: 25,
		OffensiveRebounds:   9,
		DefensiveRebounds:   33,
		Turnovers:           14,
	}
}

func TestComputeSeasonAggregates(t *testing.T) {
	lines := []*models.TeamGameStats{
		seasonLine("0022500001", 110),
		seasonLine("0022500002", 95),
	}
	opponents := []*models.TeamGameStats{
		opponentLine("0022500001", 100),
		opponentLine("0022500002", 105),
	}

	agg := ComputeSeasonAggregates(1, "2024-25", lines, opponents)

	require.Equal(t, 2, agg.GamesPlayed)
	assert.Equal(t, 1, agg.Wins)
	assert.Equal(t, 1, agg.Losses)

	assert.InDelta(t, 102.5, agg.PointsPerGame, 1e-9)
	assert.InDelta(t, 102.5, agg.OpponentPointsPerGame, 1e-9)

	assert.InDelta(t, 80.0/180.0, agg.FieldGoalPct, 1e-9)
	assert.InDelta(t, 0.4, agg.ThreePct, 1e-9)
	assert.InDelta(t, 0.9, agg.FreeThrowPct, 1e-9)

	assert.InDelta(t, 45.0, agg.ReboundsPerGame, 1e-9)
	assert.InDelta(t, 25.0, agg.AssistsPerGame, 1e-9)
	assert.InDelta(t, 12.0, agg.TurnoversPerGame, 1e-9)

	// Own possessions 100.8 per game, opponent 104.0
	assert.InDelta(t, 102.4, agg.Pace, 1e-9)
	assert.InDelta(t, 100*205.0/201.6, agg.OffensiveRating, 1e-9)
	assert.InDelta(t, 100*205.0/208.0, agg.DefensiveRating, 1e-9)
	assert.InDelta(t, agg.OffensiveRating-agg.DefensiveRating, agg.NetRating, 1e-9)

	assert.InDelta(t, 205.0/395.2, agg.TrueShootingPct, 1e-9)
	assert.InDelta(t, 92.0/180.0, agg.EffectiveFGPct, 1e-9)

	// Even scoring rates expect half the games won
	assert.InDelta(t, 1.0, agg.PythagoreanWins, 1e-9)
}

func TestComputeSeasonAggregatesSkipsUnpairedLines(t *testing.T) {
	lines := []*models.TeamGameStats{
		seasonLine("0022500001", 110),
		seasonLine("0022500099", 120), // opponent line never ingested
	}
	opponents := []*models.TeamGameStats{
		opponentLine("0022500001", 100),
	}

	agg := ComputeSeasonAggregates(1, "2024-25", lines, opponents)
	assert.Equal(t, 1, agg.GamesPlayed)
	assert.Equal(t, 1, agg.Wins)
}

func TestComputeSeasonAggregatesEmpty(t *testing.T) {
	agg := ComputeSeasonAggregates(1, "2024-25", nil, nil)
	assert.Equal(t, 0, agg.GamesPlayed)
	assert.Zero(t, agg.Pace)
	assert.Zero(t, agg.PointsPerGame)
}
