package analytics

// ATSResult is the settlement of a bet against the spread
type ATSResult string

const (
	ATSCover ATSResult = "cover"
	ATSLoss  ATSResult = "loss"
	ATSPush  ATSResult = "push"
)

// SettleATS settles a spread bet on the team whose spread is given.
// teamScore/opponentScore are the final scores; spread is the posted
// line from the bet team's perspective (negative = favorite laying
// points, positive = underdog getting points). The team covers when
// its margin plus the spread is positive.
func SettleATS(teamScore, opponentScore int, spread float64) ATSResult {
	adjusted := float64(teamScore-opponentScore) + spread
	switch {
	case adjusted > 0:
		return ATSCover
	case adjusted < 0:
		return ATSLoss
	default:
		return ATSPush
	}
}

// CoverMargin returns how far the result cleared (positive) or missed
// (negative) the spread, from the bet team's perspective.
func CoverMargin(teamScore, opponentScore int, spread float64) float64 {
	return float64(teamScore-opponentScore) + spread
}
