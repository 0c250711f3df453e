package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cailot/cool-runnings/internal/feature"
	"github.com/cailot/cool-runnings/internal/model"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	if diff := math.Abs(w.Sum() - 1.0); diff > 1e-9 {
		t.Errorf("default weights sum to %v, expected 1.0", w.Sum())
	}
	if w.BonusMultiplier != 1.0 {
		t.Errorf("default bonus multiplier = %v, expected 1.0", w.BonusMultiplier)
	}
}

func TestNormalize_RescalesToOne(t *testing.T) {
	w := DefaultWeights()
	w.Recent = 0.9
	w.Trend = 0.4

	norm := Normalize(w)
	if diff := math.Abs(norm.Sum() - 1.0); diff > 1e-6 {
		t.Errorf("normalized sum = %v, expected 1.0", norm.Sum())
	}
}

func TestNormalize_ZeroSumUnchanged(t *testing.T) {
	var w model.WeightVector
	norm := Normalize(w)
	if norm.Sum() != 0 {
		t.Errorf("zero vector should stay zero, got sum %v", norm.Sum())
	}
}

func TestScore_Clamped(t *testing.T) {
	w := DefaultWeights()
	w.BonusMultiplier = 8.0

	// every signal maxed: bonuses stack far above 1 before clamping
	hot := model.FeatureVector{
		RecentFrequency:             1,
		OverallFrequency:            1,
		TimeWeightedFrequency:       1,
		IntervalProbability:         1,
		TrendAnalysis:               1,
		PeriodicPattern:             1,
		ConsecutivePattern:          1,
		CorrelationAnalysis:         1,
		StatisticalOutlier:          1,
		TimeSeriesChangeRate:        1,
		RecentIntervalScore:         1,
		WeightedAppearanceFrequency: 1,
		VarianceBasedProbability:    1,
	}
	if got := Score(hot, w); got != 1.0 {
		t.Errorf("saturated vector: expected clamp to 1.0, got %v", got)
	}

	cold := model.FeatureVector{TrendAnalysis: -1, RecentAppearancePenalty: -0.05}
	if got := Score(cold, w); got < 0 || got > 1 {
		t.Errorf("cold vector: score %v out of [0,1]", got)
	}
}

func TestScore_PenaltyLowersScore(t *testing.T) {
	w := DefaultWeights()
	fv := model.FeatureVector{
		RecentFrequency:       0.3,
		OverallFrequency:      0.3,
		TimeWeightedFrequency: 0.3,
		IntervalProbability:   0.2,
	}
	base := Score(fv, w)
	fv.RecentAppearancePenalty = -0.05
	penalized := Score(fv, w)
	if penalized >= base {
		t.Errorf("penalty should lower the score: %v >= %v", penalized, base)
	}
}

func TestQuickScore_BonusOnlyWhenHot(t *testing.T) {
	w := DefaultWeights()
	w.BonusMultiplier = 2.0

	hot := feature.QuickFactors{
		RecentFreq:   0.6,
		OverallFreq:  0.4,
		TimeWeighted: 0.6,
		Trend:        0.1,
		Interval:     0.5,
		Periodic:     0.3,
	}
	cool := hot
	cool.Trend = -0.1

	hotScore := QuickScore(hot, w)
	coolScore := QuickScore(cool, w)

	// hot passes the multiplier gate, cool does not; the gap must exceed
	// the trend-term difference alone
	trendGap := w.Trend * (math.Max(0, hot.Trend+0.5) - math.Max(0, cool.Trend+0.5))
	if hotScore-coolScore <= trendGap {
		t.Errorf("expected multiplier gate to widen gap beyond %v, got %v", trendGap, hotScore-coolScore)
	}
}

func TestQuickScore_Clamped(t *testing.T) {
	w := DefaultWeights()
	w.BonusMultiplier = 8.0
	q := feature.QuickFactors{RecentFreq: 1, OverallFreq: 1, TimeWeighted: 1, Trend: 1, Interval: 1, Periodic: 1}
	if got := QuickScore(q, w); got != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", got)
	}
}

func TestPerturb_StaysNear(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	base := DefaultWeights()

	for i := 0; i < 100; i++ {
		p := Perturb(base, rng)
		if math.Abs(p.Recent-base.Recent) > base.Recent*0.05+1e-12 {
			t.Fatalf("recent weight drifted beyond 5%%: %v vs %v", p.Recent, base.Recent)
		}
		if math.Abs(p.BonusMultiplier-base.BonusMultiplier) > base.BonusMultiplier*0.05+1e-12 {
			t.Fatalf("bonus multiplier drifted beyond 5%%: %v vs %v", p.BonusMultiplier, base.BonusMultiplier)
		}
		if math.Abs(p.High.RecentFrequency-base.High.RecentFrequency) > base.High.RecentFrequency*0.025+1e-12 {
			t.Fatalf("threshold drifted beyond 2.5%%: %v vs %v", p.High.RecentFrequency, base.High.RecentFrequency)
		}
	}
}

func TestPerturb_SeededReproducible(t *testing.T) {
	base := DefaultWeights()
	a := Perturb(base, rand.New(rand.NewSource(7)))
	b := Perturb(base, rand.New(rand.NewSource(7)))
	if a != b {
		t.Error("same seed should give identical perturbation")
	}
}
