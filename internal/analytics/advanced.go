// Package analytics implements the statistical formulas the calculators
// apply to box-score rows: possession-based ratings, shooting efficiency,
// usage, four factors, Pythagorean expectation and ATS settlement.
package analytics

import (
	"math"

	"nba_edge/pipeline/internal/models"
)

const pythagoreanExponent = 13.91

// Possessions estimates a team's possessions for one game using the
// standard box-score estimator:
// FGA + 0.44*FTA - OREB + TOV
func Possessions(s *models.TeamGameStats) float64 {
	return float64(s.FieldGoalsAttempted) +
		0.44*float64(s.FreeThrowsAttempted) -
		float64(s.OffensiveRebounds) +
		float64(s.Turnovers)
}

// Pace returns possessions per 48 minutes, averaged across both teams.
// minutes is total team minutes (240 for regulation).
func Pace(team, opponent *models.TeamGameStats, minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	avgPoss := (Possessions(team) + Possessions(opponent)) / 2
	return 48 * avgPoss / (minutes / 5)
}

// OffensiveRating returns points scored per 100 possessions.
func OffensiveRating(points, possessions float64) float64 {
	if possessions <= 0 {
		return 0
	}
	return 100 * points / possessions
}

// DefensiveRating returns points allowed per 100 possessions.
func DefensiveRating(pointsAllowed, possessions float64) float64 {
	return OffensiveRating(pointsAllowed, possessions)
}

// TrueShootingPct returns points per shooting possession:
// PTS / (2 * (FGA + 0.44*FTA))
func TrueShootingPct(points, fga, fta int) float64 {
	tsa := float64(fga) + 0.44*float64(fta)
	if tsa <= 0 {
		return 0
	}
	return float64(points) / (2 * tsa)
}

// EffectiveFGPct weights threes at 1.5 field goals:
// (FGM + 0.5*FG3M) / FGA
func EffectiveFGPct(fgm, fg3m, fga int) float64 {
	if fga <= 0 {
		return 0
	}
	return (float64(fgm) + 0.5*float64(fg3m)) / float64(fga)
}

// UsageRate estimates the share of team possessions a player consumed
// while on the floor:
// 100 * ((FGA + 0.44*FTA + TOV) * (teamMinutes/5)) / (playerMinutes * (teamFGA + 0.44*teamFTA + teamTOV))
func UsageRate(p *models.PlayerGameStats, team *models.TeamGameStats) float64 {
	playerMinutes := float64(p.Seconds) / 60
	teamMinutes := float64(team.Minutes)
	if playerMinutes <= 0 || teamMinutes <= 0 {
		return 0
	}

	playerChances := float64(p.FieldGoalsAttempted) + 0.44*float64(p.FreeThrowsAttempted) + float64(p.Turnovers)
	teamChances := float64(team.FieldGoalsAttempted) + 0.44*float64(team.FreeThrowsAttempted) + float64(team.Turnovers)
	if teamChances <= 0 {
		return 0
	}

	return 100 * (playerChances * (teamMinutes / 5)) / (playerMinutes * teamChances)
}

// FourFactors holds Dean Oliver's four factors for one team in one game
type FourFactors struct {
	EffectiveFGPct    float64
	TurnoverRate      float64
	OffensiveRebPct   float64
	FreeThrowRate     float64
}

// ComputeFourFactors derives the four factors from a team line and the
// opponent's defensive rebounds (needed for OREB%).
func ComputeFourFactors(team *models.TeamGameStats, opponentDREB int) FourFactors {
	ff := FourFactors{
		EffectiveFGPct: EffectiveFGPct(team.FieldGoalsMade, team.ThreesMade, team.FieldGoalsAttempted),
	}

	poss := Possessions(team)
	if poss > 0 {
		ff.TurnoverRate = float64(team.Turnovers) / poss
	}

	rebChances := team.OffensiveRebounds + opponentDREB
	if rebChances > 0 {
		ff.OffensiveRebPct = float64(team.OffensiveRebounds) / float64(rebChances)
	}

	if team.FieldGoalsAttempted > 0 {
		ff.FreeThrowRate = float64(team.FreeThrowsMade) / float64(team.FieldGoalsAttempted)
	}

	return ff
}

// PythagoreanWinPct returns the expected win fraction from scoring rates:
// PF^e / (PF^e + PA^e) with e = 13.91
func PythagoreanWinPct(pointsForPerGame, pointsAgainstPerGame float64) float64 {
	if pointsForPerGame <= 0 || pointsAgainstPerGame <= 0 {
		return 0
	}
	pf := math.Pow(pointsForPerGame, pythagoreanExponent)
	pa := math.Pow(pointsAgainstPerGame, pythagoreanExponent)
	return pf / (pf + pa)
}

// PythagoreanWins scales the expected win fraction to games played.
func PythagoreanWins(pointsForPerGame, pointsAgainstPerGame float64, gamesPlayed int) float64 {
	return PythagoreanWinPct(pointsForPerGame, pointsAgainstPerGame) * float64(gamesPlayed)
}
