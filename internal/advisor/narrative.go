package advisor

import (
	"fmt"
	"math"
	"time"

	"nba_edge/pipeline/internal/models"
)

// Signal is one qualitative factor with a weight in [0, 1]. FavorsHome
// says which side the factor points at.
type Signal struct {
	Name       string
	Text       string
	Weight     float64
	FavorsHome bool
}

// Narrative derives the qualitative signals from the game context: rest,
// streaks, pace mismatch and home court.
type Narrative struct{}

// Analyze returns the weighted signals for a matchup
func (n *Narrative) Analyze(gc *GameContext) []Signal {
	var signals []Signal

	if s := restSignal(gc); s != nil {
		signals = append(signals, *s)
	}
	signals = append(signals, streakSignals(gc)...)
	if s := paceSignal(gc); s != nil {
		signals = append(signals, *s)
	}

	signals = append(signals, Signal{
		Name:       "home_court",
		Text:       fmt.Sprintf("%s at home", gc.Game.HomeTriCode),
		Weight:     0.3,
		FavorsHome: true,
	})

	return signals
}

// restSignal flags a back-to-back on either side. A team that played
// yesterday and faces a rested opponent is at a real disadvantage.
func restSignal(gc *GameContext) *Signal {
	homeB2B := playedYesterday(gc.HomeRecent, gc.Game.GameDate)
	awayB2B := playedYesterday(gc.AwayRecent, gc.Game.GameDate)

	switch {
	case homeB2B && !awayB2B:
		return &Signal{
			Name:       "rest",
			Text:       fmt.Sprintf("%s on a back-to-back against a rested %s", gc.Game.HomeTriCode, gc.Game.AwayTriCode),
			Weight:     0.6,
			FavorsHome: false,
		}
	case awayB2B && !homeB2B:
		return &Signal{
			Name:       "rest",
			Text:       fmt.Sprintf("%s on a back-to-back against a rested %s", gc.Game.AwayTriCode, gc.Game.HomeTriCode),
			Weight:     0.6,
			FavorsHome: true,
		}
	}
	return nil
}

func playedYesterday(recent []*models.Game, gameDate time.Time) bool {
	for _, g := range recent {
		gap := gameDate.Sub(g.GameDate)
		if gap > 0 && gap < 30*time.Hour {
			return true
		}
	}
	return false
}

// streakSignals reads hot and cold streaks off the standings
func streakSignals(gc *GameContext) []Signal {
	var signals []Signal

	add := func(streak int, tricode string, favorsHome bool) {
		if streak >= 4 {
			signals = append(signals, Signal{
				Name:       "streak",
				Text:       fmt.Sprintf("%s has won %d straight", tricode, streak),
				Weight:     math.Min(float64(streak)*0.1, 0.5),
				FavorsHome: favorsHome,
			})
		} else if streak <= -4 {
			signals = append(signals, Signal{
				Name:       "streak",
				Text:       fmt.Sprintf("%s has lost %d straight", tricode, -streak),
				Weight:     math.Min(float64(-streak)*0.1, 0.5),
				FavorsHome: !favorsHome,
			})
		}
	}

	if gc.HomeStanding != nil {
		add(gc.HomeStanding.Streak, gc.Game.HomeTriCode, true)
	}
	if gc.AwayStanding != nil {
		add(gc.AwayStanding.Streak, gc.Game.AwayTriCode, false)
	}

	return signals
}

// paceSignal flags a large tempo mismatch, which favors the team that
// controls style, approximated by the better net rating
func paceSignal(gc *GameContext) *Signal {
	if gc.HomeSeason == nil || gc.AwaySeason == nil {
		return nil
	}

	gap := math.Abs(gc.HomeSeason.Pace - gc.AwaySeason.Pace)
	if gap < 4 {
		return nil
	}

	favorsHome := gc.HomeSeason.NetRating >= gc.AwaySeason.NetRating
	return &Signal{
		Name:       "pace_mismatch",
		Text:       fmt.Sprintf("Tempo gap of %.1f possessions per 48", gap),
		Weight:     0.25,
		FavorsHome: favorsHome,
	}
}
