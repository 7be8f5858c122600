package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisorRunStageRetries(t *testing.T) {
	s := NewSupervisor(nil, 2)

	calls := 0
	err := s.runStage(context.Background(), "g1", "flaky", func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient failure %d", calls)
		}
		return nil
	})

	require.NoError(t, err, "Stage should succeed on the final attempt")
	assert.Equal(t, 3, calls)
}

func TestSupervisorAbandonsAfterRetries(t *testing.T) {
	s := NewSupervisor(nil, 1)

	calls := 0
	err := s.runStage(context.Background(), "g1", "broken", func() error {
		calls++
		return errors.New("permanent failure")
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAbandoned), "Exhausted retries should mark the pick abandoned")
	assert.Equal(t, 2, calls, "maxRetries=1 means two attempts")
	assert.Contains(t, err.Error(), "broken")
}

func TestSupervisorHonorsContext(t *testing.T) {
	s := NewSupervisor(nil, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := s.runStage(ctx, "g1", "cancelled", func() error {
		calls++
		return errors.New("should not matter")
	})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAbandoned), "Cancellation is not abandonment")
	assert.Zero(t, calls, "Cancelled context should short-circuit before the stage runs")
}

func TestBuildPredictionRationale(t *testing.T) {
	gc := matchupContext(
		seasonStats(5, 100, 115, 110, 15, 25),
		seasonStats(-5, 100, 105, 110, 5, 25),
	)
	quant := &QuantResult{
		HomeWinProbability:     0.64,
		PredictedMargin:        5.2,
		PredictedTotal:         221.0,
		LogisticProbability:    0.63,
		PythagoreanProbability: 0.65,
		TrainedGames:           120,
	}
	debate := &Debate{
		Side: "home",
		Bull: []Argument{{Text: "Model gives the home side 64.0%", Score: 0.28}},
		Bear: []Argument{{Text: "Line moving against the pick", Score: 0.1}},
	}
	verdict := &Verdict{
		Side:              "home",
		Confidence:        0.67,
		ModelProbability:  0.64,
		MarketProbability: 0.55,
		Edge:              0.09,
		RecommendBet:      true,
		KellyFraction:     0.04,
		KeyFactors:        []string{"edge 9.0% over vig-free market"},
	}

	p, err := buildPrediction(gc, quant, debate, verdict)
	require.NoError(t, err)

	assert.Equal(t, gc.Game.GameID, p.GameID)
	assert.Equal(t, ModelName, p.ModelName)
	assert.True(t, p.RecommendBet)
	assert.Equal(t, "home", p.BetSide.String)
	assert.InDelta(t, 0.04, p.KellyFraction.Float64, 1e-9)
	assert.InDelta(t, 0.09, p.Edge.Float64, 1e-9)
	assert.NotEmpty(t, p.Rationale)
	assert.Contains(t, string(p.Rationale), "bull_case")
	assert.Contains(t, string(p.Rationale), "debate_net")
}
