package feature

import (
	"math"

	"github.com/cailot/cool-runnings/internal/model"
)

// Draw slices are ordered newest first throughout this package. Short
// histories never error; each signal falls back to a neutral default.

// theoreticalProb is the chance that any fixed number is among the nine
// drawn: 9/44.
func theoreticalProb() float64 {
	return float64(model.DrawnCount) / float64(model.MaxNumber)
}

// Extract computes the full signal set for one number over the given
// history. recentWindow bounds the recent-frequency slice (typically 50).
func Extract(draws []model.Draw, number int, recentWindow int) model.FeatureVector {
	recent := draws
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}
	return model.FeatureVector{
		RecentFrequency:             RecentFrequency(recent, number),
		OverallFrequency:            OverallFrequency(draws, number),
		TimeWeightedFrequency:       TimeWeightedFrequency(recent, number),
		IntervalProbability:         IntervalProbability(draws, number),
		TrendAnalysis:               Trend(draws, number),
		PeriodicPattern:             PeriodicPattern(draws, number),
		ConsecutivePattern:          ConsecutivePattern(draws, number),
		CorrelationAnalysis:         Correlation(draws, number),
		StatisticalOutlier:          StatisticalOutlier(draws, number),
		TimeSeriesChangeRate:        ChangeRate(draws, number),
		RecentIntervalScore:         RecentIntervalScore(draws, number),
		WeightedAppearanceFrequency: WeightedAppearanceFrequency(draws, number),
		VarianceBasedProbability:    VarianceProbability(draws, number),
		RecentAppearancePenalty:     RecentAppearancePenalty(draws, number),
	}
}

// OverallFrequency blends the observed appearance rate with the theoretical
// 9/44 base rate at 80/20.
func OverallFrequency(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	count := 0
	for _, d := range draws {
		if d.Contains(number) {
			count++
		}
	}
	actual := float64(count) / float64(len(draws))
	return 0.8*actual + 0.2*theoreticalProb()
}

// RecentFrequency is the plain appearance rate over the given slice.
func RecentFrequency(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	count := 0
	for _, d := range draws {
		if d.Contains(number) {
			count++
		}
	}
	return float64(count) / float64(len(draws))
}

// TimeWeightedFrequency weights appearances by exp(-0.1*age) so the newest
// draws dominate.
func TimeWeightedFrequency(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	var weightedSum, totalWeight float64
	for i, d := range draws {
		w := math.Exp(-float64(i) * 0.1)
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

// IntervalProbability estimates the next-draw chance from the harmonic mean
// of the theoretical rate and the inverse average gap between appearances.
func IntervalProbability(draws []model.Draw, number int) float64 {
	if len(draws) < 2 {
		return 0
	}
	var intervals []int
	last := -1
	for i, d := range draws {
		if d.Contains(number) {
			if last >= 0 {
				intervals = append(intervals, i-last)
			}
			last = i
		}
	}
	if len(intervals) == 0 {
		return theoreticalProb()
	}
	sum := 0
	for _, iv := range intervals {
		sum += iv
	}
	avg := float64(sum) / float64(len(intervals))
	if avg <= 0 {
		return 0
	}
	theo := theoreticalProb()
	inv := 1.0 / avg
	return (2 * theo * inv) / (theo + inv)
}

// RecentAppearancePenalty returns -0.05 when the number appeared in the last
// five draws, zero otherwise. The scorer adds it outside the weight table.
func RecentAppearancePenalty(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	check := len(draws)
	if check > 5 {
		check = 5
	}
	for _, d := range draws[:check] {
		if d.Contains(number) {
			return -0.05
		}
	}
	return 0
}

// Trend compares the appearance rate in the newest ten draws against the
// ten before them. Positive means rising. The raw difference sits in
// [-1, 1]; the scorer remaps it into the unit range.
func Trend(draws []model.Draw, number int) float64 {
	if len(draws) < 20 {
		return 0
	}
	recentRate := RecentFrequency(draws[:10], number)
	olderRate := RecentFrequency(draws[10:20], number)
	return recentRate - olderRate
}

// PeriodicPattern scores how closely the gap since the last appearance
// matches the number's most common historical gap.
func PeriodicPattern(draws []model.Draw, number int) float64 {
	if len(draws) < 10 {
		return 0
	}
	var indices []int
	for i, d := range draws {
		if d.Contains(number) {
			indices = append(indices, i)
		}
	}
	if len(indices) < 3 {
		return 0
	}
	gapCounts := make(map[int]int)
	for i := 1; i < len(indices); i++ {
		gapCounts[indices[i]-indices[i-1]]++
	}
	mostCommon, best := 0, 0
	for gap, count := range gapCounts {
		if count > best || (count == best && gap < mostCommon) {
			mostCommon, best = gap, count
		}
	}
	if mostCommon <= 0 {
		return 0
	}
	current := indices[0]
	distance := math.Abs(float64(current - mostCommon))
	maxDistance := math.Max(float64(mostCommon), 10)
	return 1 - distance/maxDistance
}

// ConsecutivePattern scores the longest run of back-to-back appearances in
// the last twenty draws, saturating at three.
func ConsecutivePattern(draws []model.Draw, number int) float64 {
	if len(draws) < 5 {
		return 0
	}
	check := len(draws)
	if check > 20 {
		check = 20
	}
	maxRun, run := 0, 0
	for _, d := range draws[:check] {
		if d.Contains(number) {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	return math.Min(1, float64(maxRun)/3.0)
}

// Correlation counts companion numbers that co-occur with this one in at
// least 30% of its recent appearances, saturating at five companions.
func Correlation(draws []model.Draw, number int) float64 {
	if len(draws) < 10 {
		return 0
	}
	check := len(draws)
	if check > 30 {
		check = 30
	}
	var withNumber []model.Draw
	for _, d := range draws[:check] {
		if d.Contains(number) {
			withNumber = append(withNumber, d)
		}
	}
	if len(withNumber) == 0 {
		return 0
	}
	co := make(map[int]int)
	for _, d := range withNumber {
		for _, other := range d.Winning {
			if other != number {
				co[other]++
			}
		}
	}
	threshold := float64(len(withNumber)) * 0.3
	strong := 0
	for _, count := range co {
		if float64(count) >= threshold {
			strong++
		}
	}
	return math.Min(1, float64(strong)/5.0)
}

// StatisticalOutlier measures how far the ten-draw appearance rate sits
// above the long-run rate, mapped onto [0,1] around a ±0.2 band.
func StatisticalOutlier(draws []model.Draw, number int) float64 {
	if len(draws) < 20 {
		return 0
	}
	overall := OverallFrequency(draws, number)
	recent := RecentFrequency(draws[:10], number)
	deviation := recent - overall
	return clamp01((deviation + 0.2) / 0.4)
}

// ChangeRate estimates appearance-rate acceleration across three adjacent
// five-draw segments.
func ChangeRate(draws []model.Draw, number int) float64 {
	if len(draws) < 15 {
		return 0
	}
	segment := len(draws) / 3
	if segment > 5 {
		segment = 5
	}
	if segment < 2 {
		return 0
	}
	end2 := min(segment*2, len(draws))
	end3 := min(segment*3, len(draws))
	rate1 := RecentFrequency(draws[:segment], number)
	rate2 := RecentFrequency(draws[segment:end2], number)
	rate3 := RecentFrequency(draws[end2:end3], number)
	acceleration := (rate3 - rate2) - (rate2 - rate1)
	return clamp01((acceleration + 0.1) / 0.2)
}

// RecentIntervalScore is high when the time since the last appearance is
// close to the number's average gap.
func RecentIntervalScore(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	lastIdx := -1
	for i, d := range draws {
		if d.Contains(number) {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return theoreticalProb()
	}
	var intervals []int
	prev := lastIdx
	for i := lastIdx + 1; i < len(draws); i++ {
		if draws[i].Contains(number) {
			intervals = append(intervals, i-prev)
			prev = i
		}
	}
	if len(intervals) == 0 {
		expected := theoreticalProb() * float64(len(draws))
		if expected <= 0 {
			return 0
		}
		return math.Min(1, float64(lastIdx)/expected)
	}
	sum := 0
	for _, iv := range intervals {
		sum += iv
	}
	avg := float64(sum) / float64(len(intervals))
	if avg <= 0 {
		return 0
	}
	ratio := float64(lastIdx) / avg
	if ratio >= 0.8 && ratio <= 1.2 {
		return 1 - math.Abs(ratio-1)*2
	}
	return math.Max(0, 1-math.Abs(ratio-1))
}

// WeightedAppearanceFrequency is TimeWeightedFrequency with a slower decay
// (exp(-0.05*age)) over the full history.
func WeightedAppearanceFrequency(draws []model.Draw, number int) float64 {
	if len(draws) == 0 {
		return 0
	}
	var weightedSum, totalWeight float64
	for i, d := range draws {
		w := math.Exp(-float64(i) * 0.05)
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

// VarianceProbability rewards consistent appearance gaps: one minus the
// coefficient of variation of the gap series, floored at zero.
func VarianceProbability(draws []model.Draw, number int) float64 {
	if len(draws) < 10 {
		return 0
	}
	var intervals []float64
	last := -1
	for i, d := range draws {
		if d.Contains(number) {
			if last >= 0 {
				intervals = append(intervals, float64(i-last))
			}
			last = i
		}
	}
	if len(intervals) < 2 {
		return 0
	}
	var sum float64
	for _, iv := range intervals {
		sum += iv
	}
	mean := sum / float64(len(intervals))
	var variance float64
	for _, iv := range intervals {
		variance += (iv - mean) * (iv - mean)
	}
	variance /= float64(len(intervals))
	stdDev := math.Sqrt(variance)
	cv := 1.0
	if mean > 0 {
		cv = stdDev / mean
	}
	return math.Max(0, 1-cv)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
