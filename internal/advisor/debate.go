package advisor

import (
	"fmt"
	"math"
)

// Argument is one scored point for or against the candidate bet
type Argument struct {
	Text  string
	Score float64
}

// Debate holds the bull and bear cases for a candidate side.
// Net = Σbull − Σbear; positive means the arguments back the pick.
type Debate struct {
	Side string // "home" or "away"
	Bull []Argument
	Bear []Argument
}

// Net returns the net debate score
func (d *Debate) Net() float64 {
	var net float64
	for _, a := range d.Bull {
		net += a.Score
	}
	for _, a := range d.Bear {
		net -= a.Score
	}
	return net
}

// BullTexts returns the bull case as plain strings for the rationale
func (d *Debate) BullTexts() []string {
	texts := make([]string, 0, len(d.Bull))
	for _, a := range d.Bull {
		texts = append(texts, a.Text)
	}
	return texts
}

// BearTexts returns the bear case as plain strings for the rationale
func (d *Debate) BearTexts() []string {
	texts := make([]string, 0, len(d.Bear))
	for _, a := range d.Bear {
		texts = append(texts, a.Text)
	}
	return texts
}

// DebateRoom builds both cases for the side the model leans toward
type DebateRoom struct{}

// Argue scores the case for and against betting the model's side
func (r *DebateRoom) Argue(gc *GameContext, quant *QuantResult, signals []Signal) *Debate {
	side := "home"
	sideProb := quant.HomeWinProbability
	if sideProb < 0.5 {
		side = "away"
		sideProb = 1 - sideProb
	}

	d := &Debate{Side: side}
	favorsPick := func(favorsHome bool) bool {
		return favorsHome == (side == "home")
	}

	// Model conviction
	conviction := (sideProb - 0.5) * 2
	d.Bull = append(d.Bull, Argument{
		Text:  fmt.Sprintf("Model gives the %s side %.1f%%", side, sideProb*100),
		Score: conviction,
	})

	// Component disagreement is a warning sign
	if quant.TrainedGames > 0 {
		split := math.Abs(quant.LogisticProbability - quant.PythagoreanProbability)
		if split > 0.1 {
			d.Bear = append(d.Bear, Argument{
				Text:  fmt.Sprintf("Model components disagree by %.0f points", split*100),
				Score: split,
			})
		}
	} else {
		d.Bear = append(d.Bear, Argument{
			Text:  "Logistic model untrained, Pythagorean component standing alone",
			Score: 0.3,
		})
	}

	// Narrative signals split by which side they favor
	for _, s := range signals {
		arg := Argument{Text: s.Text, Score: s.Weight}
		if favorsPick(s.FavorsHome) {
			d.Bull = append(d.Bull, arg)
		} else {
			d.Bear = append(d.Bear, arg)
		}
	}

	// Line movement toward the pick means sharp money agrees
	for _, m := range gc.Movements {
		if !m.Direction.Valid {
			continue
		}
		towardHome := m.Direction.String == "toward_home"
		arg := Argument{
			Text:  fmt.Sprintf("Line moved %.1f toward the %s side", m.Magnitude.Float64, m.Direction.String[7:]),
			Score: math.Min(m.Magnitude.Float64*0.2, 0.4),
		}
		if favorsPick(towardHome) {
			d.Bull = append(d.Bull, arg)
		} else {
			d.Bear = append(d.Bear, arg)
		}
	}

	// Thin sample cuts both ways but argues for caution
	if gc.HomeSeason.GamesPlayed < 20 || gc.AwaySeason.GamesPlayed < 20 {
		d.Bear = append(d.Bear, Argument{
			Text:  "Small sample, season aggregates still noisy",
			Score: 0.25,
		})
	}

	return d
}
