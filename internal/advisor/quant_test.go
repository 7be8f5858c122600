package advisor

import (
	"testing"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonStats(net, pace, ortg, drtg, pythWins float64, games int) *models.TeamSeasonStats {
	return &models.TeamSeasonStats{
		GamesPlayed:     games,
		NetRating:       net,
		Pace:            pace,
		OffensiveRating: ortg,
		DefensiveRating: drtg,
		PythagoreanWins: pythWins,
		PointsPerGame:   ortg * pace / 100,
	}
}

func matchupContext(home, away *models.TeamSeasonStats) *GameContext {
	return &GameContext{
		Game:       &models.Game{GameID: "0022500901", HomeTriCode: "BOS", AwayTriCode: "WAS"},
		HomeSeason: home,
		AwaySeason: away,
	}
}

func TestQuantPredictUntrained(t *testing.T) {
	q := &QuantAnalyst{}

	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 15, 20),
		seasonStats(-5, 100, 105, 110, 5, 20),
	)

	result, err := q.Predict(gc)
	require.NoError(t, err)

	// log5(0.75, 0.25) = 0.9 plus the home bump
	assert.InDelta(t, 0.94, result.PythagoreanProbability, 1e-9)
	assert.Equal(t, result.PythagoreanProbability, result.HomeWinProbability,
		"Untrained model should use the Pythagorean component alone")

	// (5 - -5) * 100/200 + home court
	assert.InDelta(t, 7.8, result.PredictedMargin, 1e-9)
	// 100*(115+110)/200 + 100*(105+110)/200
	assert.InDelta(t, 220.0, result.PredictedTotal, 1e-9)
}

func TestQuantTrainSeparable(t *testing.T) {
	q := &QuantAnalyst{}

	// Strong home teams win, weak ones lose
	var examples []TrainingExample
	strong := seasonStats(8, 100, 118, 110, 16, 20)
	weak := seasonStats(-8, 100, 106, 114, 4, 20)
	for i := 0; i < 50; i++ {
		examples = append(examples, TrainingExample{Features: quantFeatures(strong, weak), HomeWin: true})
		examples = append(examples, TrainingExample{Features: quantFeatures(weak, strong), HomeWin: false})
	}

	require.NoError(t, q.Train(examples))
	assert.True(t, q.Trained())
	assert.Equal(t, 100, q.trainedGames)

	favored, err := q.Predict(matchupContext(strong, weak))
	require.NoError(t, err)
	underdog, err := q.Predict(matchupContext(weak, strong))
	require.NoError(t, err)

	assert.Greater(t, favored.LogisticProbability, 0.5, "Strong home side should be favored")
	assert.Less(t, underdog.LogisticProbability, 0.5, "Weak home side should be an underdog")
	assert.Greater(t, favored.HomeWinProbability, underdog.HomeWinProbability)
	assert.Equal(t, 100, favored.TrainedGames)
}

func TestQuantTrainEmpty(t *testing.T) {
	q := &QuantAnalyst{}
	assert.Error(t, q.Train(nil))
	assert.False(t, q.Trained())
}

func TestQuantPredictMissingAggregates(t *testing.T) {
	q := &QuantAnalyst{}
	gc := matchupContext(nil, seasonStats(0, 100, 110, 110, 10, 20))
	_, err := q.Predict(gc)
	assert.Error(t, err)
}

func TestLog5(t *testing.T) {
	assert.InDelta(t, 0.5, log5(0.5, 0.5), 1e-9)
	assert.InDelta(t, 0.9, log5(0.75, 0.25), 1e-9)
	// Degenerate input falls back to a coin flip
	assert.InDelta(t, 0.5, log5(0, 0), 1e-9)
}
