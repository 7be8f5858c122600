package analytics

import (
	"testing"

	"nba_edge/pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleTeamLine() *models.TeamGameStats {
	return &models.TeamGameStats{
		Minutes:             240,
		Points:              112,
		FieldGoalsMade:      42,
		FieldGoalsAttempted: 88,
		ThreesMade:          14,
		ThreesAttempted:     36,
		FreeThrowsMade:      14,
		FreeThrowsAttempted: 18,
		OffensiveRebounds:   10,
		DefensiveRebounds:   34,
		Assists:             26,
		Turnovers:           13,
	}
}

func TestPossessions(t *testing.T) {
	s := sampleTeamLine()
	// 88 + 0.44*18 - 10 + 13 = 98.92
	assert.InDelta(t, 98.92, Possessions(s), 1e-9)
}

func TestPace(t *testing.T) {
	team := sampleTeamLine()
	opp := sampleTeamLine()
	// Equal possession counts, regulation minutes: pace equals possessions
	assert.InDelta(t, 98.92, Pace(team, opp, 240), 1e-9)
	// Overtime dilutes pace
	assert.Less(t, Pace(team, opp, 265), 98.92)
	// Guard against zero minutes
	assert.Equal(t, 0.0, Pace(team, opp, 0))
}

func TestRatings(t *testing.T) {
	s := sampleTeamLine()
	poss := Possessions(s)

	ortg := OffensiveRating(float64(s.Points), poss)
	assert.InDelta(t, 113.22, ortg, 0.01)

	// Defensive rating is the same formula applied to points allowed
	drtg := DefensiveRating(105, poss)
	assert.InDelta(t, 106.15, drtg, 0.01)
	assert.Greater(t, ortg, drtg)

	assert.Equal(t, 0.0, OffensiveRating(112, 0))
}

func TestTrueShootingPct(t *testing.T) {
	// 112 points on 88 FGA + 18 FTA: TS% = 112 / (2 * 95.92)
	assert.InDelta(t, 0.5838, TrueShootingPct(112, 88, 18), 1e-4)
	assert.Equal(t, 0.0, TrueShootingPct(0, 0, 0))
}

func TestEffectiveFGPct(t *testing.T) {
	// (42 + 0.5*14) / 88
	assert.InDelta(t, 0.5568, EffectiveFGPct(42, 14, 88), 1e-4)
	assert.Equal(t, 0.0, EffectiveFGPct(10, 2, 0))
}

func TestUsageRate(t *testing.T) {
	team := sampleTeamLine()
	player := &models.PlayerGameStats{
		Seconds:             36 * 60,
		FieldGoalsAttempted: 20,
		FreeThrowsAttempted: 8,
		Turnovers:           3,
	}

	usage := UsageRate(player, team)
	// (26.52 * 48) / (36 * 108.92), in percent
	assert.InDelta(t, 32.46, usage, 0.01)

	// Player who never entered the game
	bench := &models.PlayerGameStats{}
	assert.Equal(t, 0.0, UsageRate(bench, team))
}

func TestComputeFourFactors(t *testing.T) {
	team := sampleTeamLine()
	ff := ComputeFourFactors(team, 32)

	assert.InDelta(t, 0.5568, ff.EffectiveFGPct, 1e-4)
	assert.InDelta(t, 13.0/98.92, ff.TurnoverRate, 1e-9)
	assert.InDelta(t, 10.0/42.0, ff.OffensiveRebPct, 1e-9)
	assert.InDelta(t, 14.0/88.0, ff.FreeThrowRate, 1e-9)
}

func TestPythagorean(t *testing.T) {
	// Even scoring -> .500 expectation
	assert.InDelta(t, 0.5, PythagoreanWinPct(110, 110), 1e-9)

	// Outscoring opponents by 5/game: comfortably above .500
	pct := PythagoreanWinPct(115, 110)
	assert.Greater(t, pct, 0.6)
	assert.Less(t, pct, 0.75)

	// Monotonic in point differential
	assert.Greater(t, PythagoreanWinPct(120, 110), pct)

	// Scales with games played
	assert.InDelta(t, 41.0, PythagoreanWins(110, 110, 82), 1e-9)

	// Degenerate input
	assert.Equal(t, 0.0, PythagoreanWinPct(0, 100))
}
