package analytics

import (
	"nba_edge/pipeline/internal/models"
)

// ComputeSeasonAggregates folds a team's box score lines (and the paired
// opponent lines) into the season aggregate row. Lines without a matching
// opponent line are skipped, the ratings need both sides of the game.
func ComputeSeasonAggregates(teamID int, season string, lines, opponents []*models.TeamGameStats) *models.TeamSeasonStats {
	agg := &models.TeamSeasonStats{
		TeamID: teamID,
		Season: season,
	}

	oppByGame := make(map[string]*models.TeamGameStats, len(opponents))
	for _, o := range opponents {
		oppByGame[o.GameID] = o
	}

	var (
		points, oppPoints          int
		fgm, fga, fg3m, fg3a       int
		ftm, fta                   int
		rebounds, assists, tov     int
		ownPoss, oppPoss, paceSum  float64
	)

	for _, line := range lines {
		opp, ok := oppByGame[line.GameID]
		if !ok {
			continue
		}

		agg.GamesPlayed++
		if line.Points > opp.Points {
			agg.Wins++
		} else {
			agg.Losses++
		}

		points += line.Points
		oppPoints += opp.Points

		fgm += line.FieldGoalsMade
		fga += line.FieldGoalsAttempted
		fg3m += line.ThreesMade
		fg3a += line.ThreesAttempted
		ftm += line.FreeThrowsMade
		fta += line.FreeThrowsAttempted

		rebounds += line.OffensiveRebounds + line.DefensiveRebounds
		assists += line.Assists
		tov += line.Turnovers

		ownPoss += Possessions(line)
		oppPoss += Possessions(opp)
		paceSum += Pace(line, opp, float64(line.Minutes))
	}

	if agg.GamesPlayed == 0 {
		return agg
	}
	n := float64(agg.GamesPlayed)

	agg.PointsPerGame = float64(points) / n
	agg.OpponentPointsPerGame = float64(oppPoints) / n

	if fga > 0 {
		agg.FieldGoalPct = float64(fgm) / float64(fga)
	}
	if fg3a > 0 {
		agg.ThreePct = float64(fg3m) / float64(fg3a)
	}
	if fta > 0 {
		agg.FreeThrowPct = float64(ftm) / float64(fta)
	}

	agg.ReboundsPerGame = float64(rebounds) / n
	agg.AssistsPerGame = float64(assists) / n
	agg.TurnoversPerGame = float64(tov) / n

	agg.Pace = paceSum / n
	agg.OffensiveRating = OffensiveRating(float64(points), ownPoss)
	agg.DefensiveRating = DefensiveRating(float64(oppPoints), oppPoss)
	agg.NetRating = agg.OffensiveRating - agg.DefensiveRating
	agg.TrueShootingPct = TrueShootingPct(points, fga, fta)
	agg.EffectiveFGPct = EffectiveFGPct(fgm, fg3m, fga)
	agg.PythagoreanWins = PythagoreanWins(agg.PointsPerGame, agg.OpponentPointsPerGame, agg.GamesPlayed)

	return agg
}
