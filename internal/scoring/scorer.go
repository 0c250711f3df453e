package scoring

import (
	"math"

	"github.com/cailot/cool-runnings/internal/feature"
	"github.com/cailot/cool-runnings/internal/model"
)

// Score combines a full feature vector into a composite probability in
// [0, 1]. The raw trend signal is remapped to max(0, trend+0.5) before
// weighting; the recent-appearance penalty is added to the weighted sum
// before normalization, then the three bonus tiers stack on top.
func Score(f model.FeatureVector, w model.WeightVector) float64 {
	trend := math.Max(0, f.TrendAnalysis+0.5)

	weightedSum := w.Overall*f.OverallFrequency +
		w.Recent*f.RecentFrequency +
		w.TimeWeighted*f.TimeWeightedFrequency +
		w.Interval*f.IntervalProbability +
		w.Trend*trend +
		w.Periodic*f.PeriodicPattern +
		w.Consecutive*f.ConsecutivePattern +
		w.Correlation*f.CorrelationAnalysis +
		w.Outlier*f.StatisticalOutlier +
		w.ChangeRate*f.TimeSeriesChangeRate +
		w.RecentInterval*f.RecentIntervalScore +
		w.WeightedAppearance*f.WeightedAppearanceFrequency +
		w.Variance*f.VarianceBasedProbability

	weightedSum += f.RecentAppearancePenalty

	totalWeight := w.Sum()
	base := 0.0
	if totalWeight > 0 {
		base = weightedSum / totalWeight
	}

	total := base +
		ConsensusBonus(f.RecentFrequency, f.TimeWeightedFrequency, trend, f.RecentIntervalScore, w.BonusMultiplier) +
		SuccessPatternBonus(f.RecentFrequency, f.TimeWeightedFrequency, trend, w) +
		SynergyBonus(f.RecentFrequency, f.TimeWeightedFrequency, trend, f.RecentIntervalScore, f.IntervalProbability)

	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}

// QuickScore is the reduced six-signal composite used by the per-draw
// tuner. The multiplicative bonus fires only when recent frequency, the
// time-weighted frequency, and the raw trend all point up.
func QuickScore(q feature.QuickFactors, w model.WeightVector) float64 {
	prob := w.Overall*q.OverallFreq +
		w.Recent*q.RecentFreq +
		w.TimeWeighted*q.TimeWeighted +
		w.Trend*math.Max(0, q.Trend+0.5) +
		w.Interval*q.Interval +
		w.Periodic*q.Periodic

	if q.RecentFreq > 0.5 && q.TimeWeighted > 0.5 && q.Trend > 0 {
		prob *= w.BonusMultiplier
	}

	if prob < 0 {
		return 0
	}
	if prob > 1 {
		return 1
	}
	return prob
}
