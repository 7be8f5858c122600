// Package oddsmath holds the price arithmetic shared by the odds ingesters
// and the advisor: format conversions, implied probabilities, vig removal,
// expected value and Kelly sizing.
package oddsmath

import "math"

// DecimalToAmerican converts decimal odds to american odds.
// Decimal odds below 1.01 are treated as invalid and return 0.
func DecimalToAmerican(decimal float64) int {
	if decimal < 1.01 {
		return 0
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1) * 100))
	}
	return int(math.Round(-100 / (decimal - 1)))
}

// AmericanToDecimal converts american odds to decimal odds.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 1 + float64(american)/100
	}
	return 1 + 100/float64(-american)
}

// AmericanToImplied returns the implied probability of american odds,
// vig included.
func AmericanToImplied(american int) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 100.0 / (float64(american) + 100.0)
	}
	return float64(-american) / (float64(-american) + 100.0)
}

// DecimalToImplied returns the implied probability of decimal odds,
// vig included.
func DecimalToImplied(decimal float64) float64 {
	if decimal < 1.01 {
		return 0
	}
	return 1 / decimal
}

// RemoveVigPower strips the bookmaker margin from a two-way market using
// the power method: find k so that pA^k + pB^k = 1, then return the
// powered probabilities. Falls back to (0,0) on degenerate input.
func RemoveVigPower(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}
	sum := impliedA + impliedB
	if math.Abs(sum-1.0) < 1e-9 {
		return impliedA, impliedB
	}

	low, high := 0.01, 10.0
	for i := 0; i < 100; i++ {
		mid := (low + high) / 2
		currentSum := math.Pow(impliedA, mid) + math.Pow(impliedB, mid)
		if math.Abs(currentSum-1.0) < 1e-9 {
			low = mid
			high = mid
			break
		}
		if currentSum > 1 {
			low = mid
		} else {
			high = mid
		}
	}
	k := (low + high) / 2
	return math.Pow(impliedA, k), math.Pow(impliedB, k)
}

// ExpectedValue returns the EV per unit staked for a bet with the given
// win probability at decimal odds. Pushes return the stake and are
// excluded from the probability mass.
func ExpectedValue(winProb, decimal float64) float64 {
	if decimal < 1.01 {
		return 0
	}
	return winProb*(decimal-1) - (1 - winProb)
}

// KellyFraction returns the Kelly-optimal fraction of bankroll for a bet
// with the given win probability at decimal odds. Negative-edge bets
// return 0.
func KellyFraction(winProb, decimal float64) float64 {
	b := decimal - 1
	if b <= 0 {
		return 0
	}
	f := (winProb*b - (1 - winProb)) / b
	if f < 0 {
		return 0
	}
	return f
}

// FractionalKelly scales the Kelly fraction down by multiplier and caps
// it at maxFraction. Full Kelly is too aggressive for noisy model edges.
func FractionalKelly(winProb, decimal, multiplier, maxFraction float64) float64 {
	f := KellyFraction(winProb, decimal) * multiplier
	if f > maxFraction {
		return maxFraction
	}
	return f
}
