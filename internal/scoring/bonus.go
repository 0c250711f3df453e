package scoring

import "github.com/cailot/cool-runnings/internal/model"

// ConsensusBonus rewards agreement between the four momentum-style signals.
// Tier thresholds are 0.5 / 0.7 / 0.85; every term scales with the learned
// bonus multiplier.
func ConsensusBonus(recentFreq, timeWeighted, trend, recentInterval, multiplier float64) float64 {
	high, veryHigh, extreme := 0, 0, 0
	for _, v := range []float64{recentFreq, timeWeighted, trend, recentInterval} {
		if v > 0.5 {
			high++
		}
		if v > 0.7 {
			veryHigh++
		}
		if v > 0.85 {
			extreme++
		}
	}

	bonus := 0.0
	switch {
	case extreme >= 3:
		bonus = 0.20 * float64(extreme) * multiplier
	case veryHigh >= 3:
		bonus = 0.15 * float64(veryHigh) * multiplier
	case high >= 3:
		bonus = 0.10 * float64(high-2) * multiplier
	}

	if high == 4 {
		bonus += 0.15 * multiplier
	}
	if veryHigh == 4 {
		bonus += 0.25 * multiplier
	}
	if extreme >= 2 {
		bonus += 0.30 * multiplier
	}
	return bonus
}

// SuccessPatternBonus rewards numbers whose three key signals clear the
// learned success thresholds, with larger rewards for the high and
// very-high tiers.
func SuccessPatternBonus(recentFreq, timeWeighted, trend float64, w model.WeightVector) float64 {
	countAbove := func(t model.ThresholdSet) int {
		n := 0
		if recentFreq >= t.RecentFrequency {
			n++
		}
		if timeWeighted >= t.TimeWeightedFrequency {
			n++
		}
		if trend >= t.TrendAnalysis {
			n++
		}
		return n
	}
	normal := countAbove(w.Normal)
	high := countAbove(w.High)
	veryHigh := countAbove(w.VeryHigh)

	bonus := 0.0
	switch {
	case veryHigh >= 2:
		bonus = 0.25 * float64(veryHigh)
	case high >= 2:
		bonus = 0.20 * float64(high)
	case normal >= 2:
		bonus = 0.15 * float64(normal-1)
	}

	if normal == 3 {
		bonus += 0.15
	}
	if high == 3 {
		bonus += 0.20
	}
	if veryHigh == 3 {
		bonus += 0.30
	}
	return bonus
}

// SynergyBonus rewards simultaneous strength across five signals. Tier
// thresholds are 0.6 / 0.75 / 0.9; unlike ConsensusBonus it does not scale
// with the learned multiplier.
func SynergyBonus(recentFreq, timeWeighted, trend, recentInterval, intervalProb float64) float64 {
	strong, veryStrong, extreme := 0, 0, 0
	for _, v := range []float64{recentFreq, timeWeighted, trend, recentInterval, intervalProb} {
		if v > 0.6 {
			strong++
		}
		if v > 0.75 {
			veryStrong++
		}
		if v > 0.9 {
			extreme++
		}
	}

	bonus := 0.0
	switch {
	case extreme >= 3:
		bonus = 0.15 * float64(extreme)
	case veryStrong >= 3:
		bonus = 0.12 * float64(veryStrong)
	case strong >= 3:
		bonus = 0.10 * float64(strong-2)
	}

	if strong == 5 {
		bonus += 0.20
	}
	if veryStrong >= 4 {
		bonus += 0.25
	}
	if extreme >= 2 {
		bonus += 0.30
	}
	return bonus
}
