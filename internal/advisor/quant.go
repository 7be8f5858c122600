package advisor

import (
	"context"
	"fmt"
	"math"

	"nba_edge/pipeline/internal/models"
	"nba_edge/pipeline/internal/repository"

	"github.com/rs/zerolog/log"
)

// QuantAnalyst produces the model probabilities: a logistic regression
// trained on the season's completed games, averaged with a Pythagorean
// rating model.
type QuantAnalyst struct {
	weights      []float64 // bias first
	trainedGames int
}

// QuantResult is the model output for one game
type QuantResult struct {
	HomeWinProbability float64
	PredictedMargin    float64
	PredictedTotal     float64
	TrainedGames       int

	// Component probabilities kept for the rationale
	LogisticProbability    float64
	PythagoreanProbability float64
}

// TrainingExample is one completed game expressed as features + outcome
type TrainingExample struct {
	Features []float64
	HomeWin  bool
}

const (
	trainEpochs       = 500
	trainLearningRate = 0.05

	homeCourtProbBump = 0.04
	homeCourtPoints   = 2.8
)

// quantFeatures builds the feature vector for a matchup. Scales keep the
// gradient steps stable.
func quantFeatures(home, away *models.TeamSeasonStats) []float64 {
	return []float64{
		(home.NetRating - away.NetRating) / 10.0,
		pythWinPct(home) - pythWinPct(away),
		(home.PointsPerGame - away.PointsPerGame) / 10.0,
	}
}

func pythWinPct(s *models.TeamSeasonStats) float64 {
	if s.GamesPlayed == 0 {
		return 0.5
	}
	return s.PythagoreanWins / float64(s.GamesPlayed)
}

// BuildTrainingSet turns the season's finals into training examples using
// the current season aggregates of both teams. Games whose teams have no
// aggregates yet are skipped.
func BuildTrainingSet(ctx context.Context, db *repository.Database, season string) ([]TrainingExample, error) {
	finals, err := db.Games.GetFinalsBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load training games: %w", err)
	}

	statsByTeam := make(map[int]*models.TeamSeasonStats)
	lookup := func(teamID int) (*models.TeamSeasonStats, error) {
		if s, ok := statsByTeam[teamID]; ok {
			return s, nil
		}
		s, err := db.Stats.GetTeamSeasonStats(ctx, teamID, season)
		if err != nil {
			return nil, err
		}
		statsByTeam[teamID] = s
		return s, nil
	}

	var examples []TrainingExample
	for _, g := range finals {
		if !g.HomeScore.Valid || !g.AwayScore.Valid {
			continue
		}
		home, err := lookup(g.HomeTeamID)
		if err != nil {
			return nil, err
		}
		away, err := lookup(g.AwayTeamID)
		if err != nil {
			return nil, err
		}
		if home == nil || away == nil {
			continue
		}
		examples = append(examples, TrainingExample{
			Features: quantFeatures(home, away),
			HomeWin:  g.HomeScore.Int32 > g.AwayScore.Int32,
		})
	}

	return examples, nil
}

// Train fits the logistic weights by batch gradient descent
func (q *QuantAnalyst) Train(examples []TrainingExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("no training examples")
	}

	n := len(examples[0].Features)
	weights := make([]float64, n+1)

	for epoch := 0; epoch < trainEpochs; epoch++ {
		grad := make([]float64, n+1)
		for _, ex := range examples {
			p := sigmoid(dot(weights, ex.Features))
			y := 0.0
			if ex.HomeWin {
				y = 1.0
			}
			diff := p - y
			grad[0] += diff
			for i, f := range ex.Features {
				grad[i+1] += diff * f
			}
		}
		scale := trainLearningRate / float64(len(examples))
		for i := range weights {
			weights[i] -= scale * grad[i]
		}
	}

	q.weights = weights
	q.trainedGames = len(examples)

	log.Info().
		Int("examples", len(examples)).
		Floats64("weights", weights).
		Msg("Logistic model trained")

	return nil
}

// Trained reports whether the logistic component is available
func (q *QuantAnalyst) Trained() bool {
	return q.weights != nil
}

// Predict returns the ensemble output for a matchup. When the logistic
// model has not been trained (early season), the Pythagorean component
// stands alone.
func (q *QuantAnalyst) Predict(gc *GameContext) (*QuantResult, error) {
	home, away := gc.HomeSeason, gc.AwaySeason
	if home == nil || away == nil {
		return nil, fmt.Errorf("missing season aggregates for game %s", gc.Game.GameID)
	}

	result := &QuantResult{TrainedGames: q.trainedGames}

	result.PythagoreanProbability = clampProb(log5(pythWinPct(home), pythWinPct(away)) + homeCourtProbBump)

	if q.Trained() {
		result.LogisticProbability = sigmoid(dot(q.weights, quantFeatures(home, away)))
		result.HomeWinProbability = (result.LogisticProbability + result.PythagoreanProbability) / 2
	} else {
		result.HomeWinProbability = result.PythagoreanProbability
	}

	paceAvg := (home.Pace + away.Pace) / 2
	if paceAvg == 0 {
		paceAvg = 100
	}

	result.PredictedMargin = (home.NetRating-away.NetRating)*paceAvg/200 + homeCourtPoints

	homePoints := paceAvg * (home.OffensiveRating + away.DefensiveRating) / 200
	awayPoints := paceAvg * (away.OffensiveRating + home.DefensiveRating) / 200
	result.PredictedTotal = homePoints + awayPoints

	return result, nil
}

// log5 is the classic head-to-head probability from two win percentages
func log5(a, b float64) float64 {
	denom := a + b - 2*a*b
	if denom == 0 {
		return 0.5
	}
	return (a - a*b) / denom
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func dot(weights, features []float64) float64 {
	sum := weights[0]
	for i, f := range features {
		sum += weights[i+1] * f
	}
	return sum
}

func clampProb(p float64) float64 {
	if p < 0.01 {
		return 0.01
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}
