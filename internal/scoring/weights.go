package scoring

import (
	"math/rand"

	"github.com/cailot/cool-runnings/internal/model"
)

// DefaultWeights returns the hand-tuned starting point used before any
// learning has run. The 13 feature weights sum to 1.
func DefaultWeights() model.WeightVector {
	return model.WeightVector{
		Overall:            0.10,
		Recent:             0.15,
		TimeWeighted:       0.12,
		Interval:           0.10,
		Trend:              0.12,
		Periodic:           0.08,
		Consecutive:        0.06,
		Correlation:        0.05,
		Outlier:            0.04,
		ChangeRate:         0.06,
		RecentInterval:     0.08,
		WeightedAppearance: 0.03,
		Variance:           0.01,

		BonusMultiplier: 1.0,

		Normal:   model.ThresholdSet{RecentFrequency: 0.5, TimeWeightedFrequency: 0.5, TrendAnalysis: 0.5},
		High:     model.ThresholdSet{RecentFrequency: 0.6, TimeWeightedFrequency: 0.6, TrendAnalysis: 0.6},
		VeryHigh: model.ThresholdSet{RecentFrequency: 0.7, TimeWeightedFrequency: 0.7, TrendAnalysis: 0.7},
	}
}

// Normalize rescales the 13 feature weights so they sum to 1. Thresholds
// and the bonus multiplier are untouched. A zero-sum vector is returned
// unchanged.
func Normalize(w model.WeightVector) model.WeightVector {
	total := w.Sum()
	if total <= 0 {
		return w
	}
	scale := 1.0 / total
	w.Overall *= scale
	w.Recent *= scale
	w.TimeWeighted *= scale
	w.Interval *= scale
	w.Trend *= scale
	w.Periodic *= scale
	w.Consecutive *= scale
	w.Correlation *= scale
	w.Outlier *= scale
	w.ChangeRate *= scale
	w.RecentInterval *= scale
	w.WeightedAppearance *= scale
	w.Variance *= scale
	return w
}

// Perturb returns a copy with every feature weight and the bonus multiplier
// jittered by up to ±5% and every threshold by up to ±2.5%. Used to vary
// weights between consensus runs.
func Perturb(w model.WeightVector, rng *rand.Rand) model.WeightVector {
	jitter := func(v float64) float64 {
		return v * (1 + (rng.Float64()-0.5)*0.05*2)
	}
	halfJitter := func(v float64) float64 {
		return v * (1 + (rng.Float64()-0.5)*0.025*2)
	}
	w.Overall = jitter(w.Overall)
	w.Recent = jitter(w.Recent)
	w.TimeWeighted = jitter(w.TimeWeighted)
	w.Interval = jitter(w.Interval)
	w.Trend = jitter(w.Trend)
	w.Periodic = jitter(w.Periodic)
	w.Consecutive = jitter(w.Consecutive)
	w.Correlation = jitter(w.Correlation)
	w.Outlier = jitter(w.Outlier)
	w.ChangeRate = jitter(w.ChangeRate)
	w.RecentInterval = jitter(w.RecentInterval)
	w.WeightedAppearance = jitter(w.WeightedAppearance)
	w.Variance = jitter(w.Variance)
	w.BonusMultiplier = jitter(w.BonusMultiplier)

	for _, t := range []*model.ThresholdSet{&w.Normal, &w.High, &w.VeryHigh} {
		t.RecentFrequency = halfJitter(t.RecentFrequency)
		t.TimeWeightedFrequency = halfJitter(t.TimeWeightedFrequency)
		t.TrendAnalysis = halfJitter(t.TrendAnalysis)
	}
	return w
}
