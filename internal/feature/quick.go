package feature

import "github.com/cailot/cool-runnings/internal/model"

// QuickFactors is the reduced signal set used by per-draw weight tuning,
// where the full extractor would be too slow to run hundreds of times per
// draw. Trend is the raw rate difference, not remapped.
type QuickFactors struct {
	RecentFreq   float64
	OverallFreq  float64
	TimeWeighted float64
	Trend        float64
	Interval     float64
	Periodic     float64
}

// QuickExtract computes the reduced signals for one number. recentWindow
// bounds the recent-frequency slice.
func QuickExtract(draws []model.Draw, number int, recentWindow int) QuickFactors {
	if len(draws) == 0 {
		return QuickFactors{}
	}
	recent := draws
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}
	return QuickFactors{
		RecentFreq:   RecentFrequency(recent, number),
		OverallFreq:  RecentFrequency(draws, number),
		TimeWeighted: quickTimeWeighted(draws, number),
		Trend:        quickTrend(draws, number),
		Interval:     quickInterval(draws, number),
		Periodic:     quickPeriodic(draws, number),
	}
}

// Harmonic decay: weight 1/(age+1).
func quickTimeWeighted(draws []model.Draw, number int) float64 {
	var weightedSum, totalWeight float64
	for i, d := range draws {
		w := 1.0 / float64(i+1)
		if d.Contains(number) {
			weightedSum += w
		}
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// Rate in the last 20 draws minus the rate in the 20 before; with fewer
// than 40 draws only the recent rate is reported.
func quickTrend(draws []model.Draw, number int) float64 {
	if len(draws) < 2 {
		return 0
	}
	recentCount := min(20, len(draws))
	recentFreq := RecentFrequency(draws[:recentCount], number)
	if len(draws) >= 40 {
		previousFreq := RecentFrequency(draws[20:40], number)
		return recentFreq - previousFreq
	}
	return recentFreq
}

// Tiered score from the ratio of the current gap to the average gap between
// appearances, keyed on draw indices.
func quickInterval(draws []model.Draw, number int) float64 {
	var appearances []int
	for _, d := range draws {
		if d.Contains(number) {
			appearances = append(appearances, d.Index)
		}
	}
	if len(appearances) < 2 {
		return 0
	}
	total := 0
	for i := 1; i < len(appearances); i++ {
		total += appearances[i-1] - appearances[i]
	}
	avg := float64(total) / float64(len(appearances)-1)
	if avg <= 0 {
		return 0.5
	}
	current := float64(draws[0].Index - appearances[0])
	ratio := current / avg
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return 0.8
	case ratio > 1.2:
		return 1.0
	default:
		return 0.3
	}
}

// Best co-appearance rate across candidate periods 2..10 over the last 50
// draws.
func quickPeriodic(draws []model.Draw, number int) float64 {
	if len(draws) < 10 {
		return 0
	}
	check := min(50, len(draws))
	appearances := make([]bool, check)
	for i := 0; i < check; i++ {
		appearances[i] = draws[i].Contains(number)
	}
	var best float64
	for period := 2; period <= 10; period++ {
		matches, total := 0, 0
		for i := 0; i < check-period; i++ {
			if appearances[i] && appearances[i+period] {
				matches++
			}
			total++
		}
		if total > 0 {
			score := float64(matches) / float64(total)
			if score > best {
				best = score
			}
		}
	}
	return best
}
