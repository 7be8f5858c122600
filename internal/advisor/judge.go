package advisor

import (
	"fmt"

	"nba_edge/pipeline/internal/oddsmath"

	"github.com/rs/zerolog/log"
)

// Verdict is the judge's final call on one game
type Verdict struct {
	Side       string
	Confidence float64

	ModelProbability  float64
	MarketProbability float64
	Edge              float64
	ExpectedValue     float64

	RecommendBet  bool
	KellyFraction float64

	KeyFactors []string
}

// Judge scores the final confidence and sizes the bet
type Judge struct {
	ConfidenceFloor float64
	KellyMultiplier float64
	KellyCap        float64

	// Public share above this on one side triggers the contrarian adjustment
	ContrarianThreshold float64
}

// NewJudge creates a judge with the given tuning
func NewJudge(floor, kellyMultiplier, kellyCap float64) *Judge {
	return &Judge{
		ConfidenceFloor:     floor,
		KellyMultiplier:     kellyMultiplier,
		KellyCap:            kellyCap,
		ContrarianThreshold: 0.70,
	}
}

// Decide compares the model against the vig-free market and renders a
// verdict. A game with no stored moneyline gets no recommendation.
func (j *Judge) Decide(gc *GameContext, quant *QuantResult, debate *Debate) (*Verdict, error) {
	v := &Verdict{
		Side:             debate.Side,
		ModelProbability: quant.HomeWinProbability,
	}
	if v.Side == "away" {
		v.ModelProbability = 1 - quant.HomeWinProbability
	}

	ml := gc.MoneylineOdds
	if ml == nil || !ml.HomeMoneyline.Valid || !ml.AwayMoneyline.Valid {
		v.KeyFactors = append(v.KeyFactors, "no moneyline available, no bet")
		return v, nil
	}

	homeImplied := oddsmath.AmericanToImplied(int(ml.HomeMoneyline.Int32))
	awayImplied := oddsmath.AmericanToImplied(int(ml.AwayMoneyline.Int32))
	homeFair, awayFair := oddsmath.RemoveVigPower(homeImplied, awayImplied)
	if homeFair == 0 {
		return nil, fmt.Errorf("degenerate moneyline for game %s", gc.Game.GameID)
	}

	v.MarketProbability = homeFair
	sideDecimal := oddsmath.AmericanToDecimal(int(ml.HomeMoneyline.Int32))
	if v.Side == "away" {
		v.MarketProbability = awayFair
		sideDecimal = oddsmath.AmericanToDecimal(int(ml.AwayMoneyline.Int32))
	}

	v.Edge = v.ModelProbability - v.MarketProbability
	v.ExpectedValue = oddsmath.ExpectedValue(v.ModelProbability, sideDecimal)

	if v.Edge <= 0 {
		v.KeyFactors = append(v.KeyFactors, fmt.Sprintf("no edge vs market (%.1f%% vs %.1f%%)", v.ModelProbability*100, v.MarketProbability*100))
		return v, nil
	}

	// Base confidence from edge, then the multiplicative adjustments
	confidence := 0.5 + v.Edge*2
	v.KeyFactors = append(v.KeyFactors, fmt.Sprintf("edge %.1f%% over vig-free market", v.Edge*100))

	net := debate.Net()
	if net > 0 {
		confidence *= 1.05
		v.KeyFactors = append(v.KeyFactors, "debate backs the pick")
	} else if net < 0 {
		confidence *= 0.90
		v.KeyFactors = append(v.KeyFactors, "debate leans against the pick")
	}

	if mult, factor := j.lineMovementAdjustment(gc, v.Side); mult != 1 {
		confidence *= mult
		v.KeyFactors = append(v.KeyFactors, factor)
	}

	if gc.HomeSeason.GamesPlayed < 20 || gc.AwaySeason.GamesPlayed < 20 {
		confidence *= 0.90
		v.KeyFactors = append(v.KeyFactors, "small-sample discount applied")
	}

	if mult, factor := j.contrarianAdjustment(gc, v.Side); mult != 1 {
		confidence *= mult
		v.KeyFactors = append(v.KeyFactors, factor)
	}

	// Clamp, then the floor decides
	if confidence < 0.05 {
		confidence = 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	v.Confidence = confidence

	if confidence < j.ConfidenceFloor {
		v.KeyFactors = append(v.KeyFactors, fmt.Sprintf("confidence %.2f below floor %.2f, abstaining", confidence, j.ConfidenceFloor))
		return v, nil
	}

	v.RecommendBet = true
	v.KellyFraction = oddsmath.FractionalKelly(v.ModelProbability, sideDecimal, j.KellyMultiplier, j.KellyCap)

	log.Debug().
		Str("game_id", gc.Game.GameID).
		Str("side", v.Side).
		Float64("edge", v.Edge).
		Float64("confidence", v.Confidence).
		Float64("kelly", v.KellyFraction).
		Msg("Judge recommends bet")

	return v, nil
}

// lineMovementAdjustment rewards picks the line has moved toward
func (j *Judge) lineMovementAdjustment(gc *GameContext, side string) (float64, string) {
	if len(gc.Movements) == 0 {
		return 1, ""
	}

	last := gc.Movements[len(gc.Movements)-1]
	if !last.Direction.Valid {
		return 1, ""
	}

	towardPick := (last.Direction.String == "toward_home") == (side == "home")
	if towardPick {
		return 1.03, "line moving toward the pick"
	}
	return 0.95, "line moving against the pick"
}

// contrarianAdjustment fades a lopsided public. Betting with a ≥70%
// public side is discounted; fading it earns a small bump.
func (j *Judge) contrarianAdjustment(gc *GameContext, side string) (float64, string) {
	share := gc.PublicHomeShare
	if share <= 0 {
		return 1, ""
	}

	publicSide := ""
	if share >= j.ContrarianThreshold {
		publicSide = "home"
	} else if 1-share >= j.ContrarianThreshold {
		publicSide = "away"
	}
	if publicSide == "" {
		return 1, ""
	}

	if side == publicSide {
		return 0.90, fmt.Sprintf("public heavily on the %s side with the pick", publicSide)
	}
	return 1.05, fmt.Sprintf("fading a lopsided public on the %s side", publicSide)
}
