package learner

import (
	"log"
	"math"
	"sort"

	"github.com/cailot/cool-runnings/internal/feature"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
)

const (
	// Bootstrap walks at most this many historical draws.
	maxLearningDraws = 100
	// The newest draws are held out of the learning walk.
	learningHoldout = 20

	highSuccessWeight     = 3.0
	veryHighSuccessWeight = 5.0
	adjustmentFactor      = 2.5
	maxBonusMultiplier    = 8.0
)

// factorSet is the per-number factor snapshot used when classifying past
// predictions. Trend is kept in remapped [0,1] form so derived thresholds
// stay comparable with what the scorer sees.
type factorSet struct {
	recentFreq   float64
	timeWeighted float64
	trend        float64
	interval     float64
	periodic     float64
}

type predictionSample struct {
	matchCount int
	factors    map[int]factorSet
}

// Bootstrap derives a WeightVector from the archive's own history: it
// replays naive predictions over a learning window, splits them into
// failed / successful / high / very-high tiers, and shifts weight toward
// the signals that separate the winning tiers from the failures. With too
// little history, or no successful replays, the defaults come back
// unchanged.
func Bootstrap(draws []model.Draw) model.WeightVector {
	if len(draws) < model.MinDrawsForAnalysis+learningHoldout {
		log.Printf("[WARN] not enough history to learn weights (have %d), using defaults", len(draws))
		return scoring.DefaultWeights()
	}

	var successful, failed []predictionSample

	learningSize := len(draws) - learningHoldout
	if learningSize > maxLearningDraws {
		learningSize = maxLearningDraws
	}
	for i := learningHoldout; i < learningSize; i++ {
		// strictly earlier draws only; the target must not sit inside
		// its own prediction window.
		history := draws[i+1:]
		predicted := NaiveTop7(history)
		actual := draws[i].Winning[:]
		if len(predicted) != model.WinningCount {
			continue
		}

		matches := countMatches(predicted, actual)
		sample := predictionSample{matchCount: matches, factors: collectFactors(history)}
		if matches >= 4 {
			successful = append(successful, sample)
		} else {
			failed = append(failed, sample)
		}
	}

	log.Printf("[INFO] weight learning replayed %d draws: %d successful, %d failed",
		learningSize-learningHoldout, len(successful), len(failed))

	if len(successful) == 0 || len(failed) == 0 {
		log.Printf("[WARN] no usable success/failure split, using default weights")
		return scoring.DefaultWeights()
	}

	return optimize(successful, failed)
}

// NaiveTop7 ranks all numbers by 0.7*recent30Rate + 0.3*overallRate and
// returns the top seven, ties broken by ascending number. This is the
// cheap predictor the bootstrap replays; it must not depend on learned
// weights.
func NaiveTop7(draws []model.Draw) []int {
	if len(draws) < model.MinDrawsForAnalysis {
		return nil
	}
	recent := draws
	if len(recent) > 30 {
		recent = recent[:30]
	}
	type scored struct {
		number int
		prob   float64
	}
	ranked := make([]scored, 0, model.MaxNumber)
	for n := 1; n <= model.MaxNumber; n++ {
		prob := 0.7*feature.RecentFrequency(recent, n) + 0.3*feature.RecentFrequency(draws, n)
		ranked = append(ranked, scored{n, prob})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prob != ranked[j].prob {
			return ranked[i].prob > ranked[j].prob
		}
		return ranked[i].number < ranked[j].number
	})
	out := make([]int, model.WinningCount)
	for i := range out {
		out[i] = ranked[i].number
	}
	return out
}

func collectFactors(draws []model.Draw) map[int]factorSet {
	recent := draws
	if len(recent) > 30 {
		recent = recent[:30]
	}
	factors := make(map[int]factorSet, model.MaxNumber)
	for n := 1; n <= model.MaxNumber; n++ {
		factors[n] = factorSet{
			recentFreq:   feature.RecentFrequency(recent, n),
			timeWeighted: feature.TimeWeightedFrequency(recent, n),
			trend:        math.Max(0, feature.Trend(draws, n)+0.5),
			interval:     feature.IntervalProbability(draws, n),
			periodic:     feature.PeriodicPattern(draws, n),
		}
	}
	return factors
}

func averageFactors(samples []predictionSample) factorSet {
	var avg factorSet
	count := 0
	for _, s := range samples {
		for _, f := range s.factors {
			avg.recentFreq += f.recentFreq
			avg.timeWeighted += f.timeWeighted
			avg.trend += f.trend
			avg.interval += f.interval
			avg.periodic += f.periodic
			count++
		}
	}
	if count == 0 {
		return factorSet{}
	}
	avg.recentFreq /= float64(count)
	avg.timeWeighted /= float64(count)
	avg.trend /= float64(count)
	avg.interval /= float64(count)
	avg.periodic /= float64(count)
	return avg
}

func filterByMatches(samples []predictionSample, minMatches int) []predictionSample {
	var out []predictionSample
	for _, s := range samples {
		if s.matchCount >= minMatches {
			out = append(out, s)
		}
	}
	return out
}

func optimize(successful, failed []predictionSample) model.WeightVector {
	w := scoring.DefaultWeights()

	avgSuccess := averageFactors(successful)
	avgFailed := averageFactors(failed)

	highSuccess := filterByMatches(successful, 5)
	veryHighSuccess := filterByMatches(successful, 6)

	avgHigh := avgSuccess
	if len(highSuccess) > 0 {
		avgHigh = averageFactors(highSuccess)
	}
	avgVeryHigh := avgHigh
	if len(veryHighSuccess) > 0 {
		avgVeryHigh = averageFactors(veryHighSuccess)
	}

	diffRecent := avgSuccess.recentFreq - avgFailed.recentFreq
	diffTimeWeighted := avgSuccess.timeWeighted - avgFailed.timeWeighted
	diffTrend := avgSuccess.trend - avgFailed.trend
	diffInterval := avgSuccess.interval - avgFailed.interval
	diffPeriodic := avgSuccess.periodic - avgFailed.periodic

	highDiffRecent := avgHigh.recentFreq - avgFailed.recentFreq
	highDiffTimeWeighted := avgHigh.timeWeighted - avgFailed.timeWeighted
	highDiffTrend := avgHigh.trend - avgFailed.trend

	veryHighDiffRecent := avgVeryHigh.recentFreq - avgFailed.recentFreq
	veryHighDiffTimeWeighted := avgVeryHigh.timeWeighted - avgFailed.timeWeighted
	veryHighDiffTrend := avgVeryHigh.trend - avgFailed.trend

	totalDiff := math.Abs(diffRecent) + math.Abs(diffTimeWeighted) +
		math.Abs(diffTrend) + math.Abs(diffInterval) + math.Abs(diffPeriodic)

	// Blend the tier deltas, weighting the rarer high and very-high tiers
	// harder so they dominate the direction of the shift.
	effectiveDiffRecent := diffRecent +
		(highDiffRecent-diffRecent)*highSuccessWeight +
		(veryHighDiffRecent-highDiffRecent)*veryHighSuccessWeight
	effectiveDiffTimeWeighted := diffTimeWeighted +
		(highDiffTimeWeighted-diffTimeWeighted)*highSuccessWeight +
		(veryHighDiffTimeWeighted-highDiffTimeWeighted)*veryHighSuccessWeight
	effectiveDiffTrend := diffTrend +
		(highDiffTrend-diffTrend)*highSuccessWeight +
		(veryHighDiffTrend-highDiffTrend)*veryHighSuccessWeight

	if totalDiff > 0 {
		w.Recent = 0.15 + (effectiveDiffRecent/totalDiff)*0.15*adjustmentFactor
		w.TimeWeighted = 0.12 + (effectiveDiffTimeWeighted/totalDiff)*0.15*adjustmentFactor
		w.Trend = 0.12 + (effectiveDiffTrend/totalDiff)*0.15*adjustmentFactor
		w.Interval = 0.10 + (diffInterval/totalDiff)*0.10*adjustmentFactor
		w.Periodic = 0.08 + (diffPeriodic/totalDiff)*0.08*adjustmentFactor

		currentSum := w.Recent + w.TimeWeighted + w.Trend + w.Interval + w.Periodic
		if currentSum > 0.8 {
			// Squeeze the remaining eight weights proportionally into
			// whatever headroom is left.
			remaining := 1.0 - currentSum
			const baseRemaining = 0.51
			w.Overall = 0.10 * remaining / baseRemaining
			w.Consecutive = 0.06 * remaining / baseRemaining
			w.Correlation = 0.05 * remaining / baseRemaining
			w.Outlier = 0.04 * remaining / baseRemaining
			w.ChangeRate = 0.06 * remaining / baseRemaining
			w.RecentInterval = 0.08 * remaining / baseRemaining
			w.WeightedAppearance = 0.03 * remaining / baseRemaining
			w.Variance = 0.01 * remaining / baseRemaining
		}
	}

	total := float64(len(successful) + len(failed))
	successRate := float64(len(successful)) / total
	highRate := float64(len(highSuccess)) / total
	veryHighRate := float64(len(veryHighSuccess)) / total

	w.BonusMultiplier = 1.0 + (successRate-0.1)*4.0 + highRate*3.0 + veryHighRate*4.0
	if w.BonusMultiplier > maxBonusMultiplier {
		w.BonusMultiplier = maxBonusMultiplier
	}

	w.Normal = model.ThresholdSet{
		RecentFrequency:       avgSuccess.recentFreq * 0.80,
		TimeWeightedFrequency: avgSuccess.timeWeighted * 0.80,
		TrendAnalysis:         avgSuccess.trend * 0.80,
	}
	w.High = model.ThresholdSet{
		RecentFrequency:       avgHigh.recentFreq * 0.85,
		TimeWeightedFrequency: avgHigh.timeWeighted * 0.85,
		TrendAnalysis:         avgHigh.trend * 0.85,
	}
	w.VeryHigh = model.ThresholdSet{
		RecentFrequency:       avgVeryHigh.recentFreq * 0.90,
		TimeWeightedFrequency: avgVeryHigh.timeWeighted * 0.90,
		TrendAnalysis:         avgVeryHigh.trend * 0.90,
	}

	log.Printf("[INFO] learned weights: recent=%.3f timeWeighted=%.3f trend=%.3f bonus=%.2fx (success %.1f%%, high %.1f%%, veryHigh %.1f%%)",
		w.Recent, w.TimeWeighted, w.Trend, w.BonusMultiplier,
		successRate*100, highRate*100, veryHighRate*100)

	return w
}

func countMatches(predicted, actual []int) int {
	set := make(map[int]struct{}, len(actual))
	for _, n := range actual {
		set[n] = struct{}{}
	}
	matches := 0
	for _, n := range predicted {
		if _, ok := set[n]; ok {
			matches++
		}
	}
	return matches
}
