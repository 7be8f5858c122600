package advisor

import (
	"database/sql"
	"testing"
	"time"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebateNet(t *testing.T) {
	d := &Debate{
		Bull: []Argument{{Score: 0.5}, {Score: 0.3}},
		Bear: []Argument{{Score: 0.2}},
	}
	assert.InDelta(t, 0.6, d.Net(), 1e-9)
}

func TestDebateRoomSidesArguments(t *testing.T) {
	room := &DebateRoom{}

	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 15, 25),
		seasonStats(-5, 100, 105, 110, 5, 25),
	)
	quant := &QuantResult{
		HomeWinProbability:     0.65,
		LogisticProbability:    0.64,
		PythagoreanProbability: 0.66,
		TrainedGames:           100,
	}
	signals := []Signal{
		{Name: "home_court", Text: "BOS at home", Weight: 0.3, FavorsHome: true},
		{Name: "rest", Text: "BOS on a back-to-back", Weight: 0.6, FavorsHome: false},
	}

	d := room.Argue(gc, quant, signals)

	assert.Equal(t, "home", d.Side)
	require.NotEmpty(t, d.Bull)
	require.NotEmpty(t, d.Bear)

	// Conviction + home court vs the rest disadvantage
	assert.InDelta(t, 0.3+0.3, sumScores(d.Bull), 1e-9)
	assert.InDelta(t, 0.6, sumScores(d.Bear), 1e-9)
	assert.InDelta(t, 0.0, d.Net(), 1e-9)
}

func TestDebateRoomAwayLean(t *testing.T) {
	room := &DebateRoom{}

	gc := matchupContext(
		seasonStats(-5, 100, 105, 110, 5, 25),
		seasonStats(5, 100, 115, 110, 15, 25),
	)
	quant := &QuantResult{HomeWinProbability: 0.35, TrainedGames: 100}

	d := room.Argue(gc, quant, []Signal{
		{Name: "home_court", Text: "home court", Weight: 0.3, FavorsHome: true},
	})

	assert.Equal(t, "away", d.Side)
	// A home-favoring signal argues against an away pick
	assert.InDelta(t, 0.3, sumScores(d.Bear), 1e-9)
}

func TestDebateRoomUntrainedWarning(t *testing.T) {
	room := &DebateRoom{}

	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 15, 25),
		seasonStats(-5, 100, 105, 110, 5, 25),
	)
	quant := &QuantResult{HomeWinProbability: 0.6, TrainedGames: 0}

	d := room.Argue(gc, quant, nil)
	assert.Contains(t, d.BearTexts(), "Logistic model untrained, Pythagorean component standing alone")
}

func TestDebateRoomSmallSample(t *testing.T) {
	room := &DebateRoom{}

	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 6, 8),
		seasonStats(-5, 100, 105, 110, 2, 8),
	)
	quant := &QuantResult{HomeWinProbability: 0.6, TrainedGames: 16}

	d := room.Argue(gc, quant, nil)
	assert.Contains(t, d.BearTexts(), "Small sample, season aggregates still noisy")
}

func TestDebateRoomLineMovement(t *testing.T) {
	room := &DebateRoom{}

	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 15, 25),
		seasonStats(-5, 100, 105, 110, 5, 25),
	)
	gc.Movements = []*models.LineMovement{
		{
			Direction: sql.NullString{String: "toward_home", Valid: true},
			Magnitude: sql.NullFloat64{Float64: 1.5, Valid: true},
			MovedAt:   time.Now(),
		},
	}
	quant := &QuantResult{HomeWinProbability: 0.6, TrainedGames: 100}

	d := room.Argue(gc, quant, nil)

	// Movement toward the pick lands in the bull case, capped at 0.4
	found := false
	for _, a := range d.Bull {
		if a.Score == 0.3 {
			found = true
		}
	}
	assert.True(t, found, "Line movement toward the pick should be a bull argument")
}

func TestNarrativeSignals(t *testing.T) {
	n := &Narrative{}

	gameDate := time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)
	gc := matchupContext(
		seasonStats(5, 103, 115, 110, 15, 25),
		seasonStats(-5, 96, 105, 110, 5, 25),
	)
	gc.Game.GameDate = gameDate
	gc.HomeStanding = &models.Standing{Streak: 6}
	gc.AwayStanding = &models.Standing{Streak: -5}
	// Away team played last night
	gc.AwayRecent = []*models.Game{
		{GameDate: gameDate.Add(-20 * time.Hour), Status: models.StatusFinal},
	}

	signals := n.Analyze(gc)

	byName := make(map[string][]Signal)
	for _, s := range signals {
		byName[s.Name] = append(byName[s.Name], s)
	}

	require.Len(t, byName["rest"], 1)
	assert.True(t, byName["rest"][0].FavorsHome, "Rested home team should get the rest edge")

	require.Len(t, byName["streak"], 2)
	for _, s := range byName["streak"] {
		assert.True(t, s.FavorsHome, "Home win streak and away losing streak both favor home")
	}

	require.Len(t, byName["pace_mismatch"], 1)
	assert.True(t, byName["pace_mismatch"][0].FavorsHome)

	require.Len(t, byName["home_court"], 1)
}

func sumScores(args []Argument) float64 {
	var sum float64
	for _, a := range args {
		sum += a.Score
	}
	return sum
}
