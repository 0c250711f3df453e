package learner

import (
	"sort"

	"github.com/cailot/cool-runnings/internal/feature"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
)

const (
	// DefaultTuneIterations caps per-draw tuning.
	DefaultTuneIterations = 200
	// DefaultTuneTarget is the match count (out of 9) that stops tuning.
	DefaultTuneTarget = 6

	tuneStep = 0.05
)

// Tuner nudges a WeightVector toward matching one target draw. Each
// iteration predicts 9 numbers with the quick composite, compares against
// the actual 9, and shifts weight between signals according to which side
// of the prediction they explained.
type Tuner struct {
	RecentWindow  int // recent-frequency window for prediction, typically 50
	MaxIterations int
	TargetMatches int
}

// NewTuner returns a Tuner with the standard budget.
func NewTuner(recentWindow int) *Tuner {
	return &Tuner{
		RecentWindow:  recentWindow,
		MaxIterations: DefaultTuneIterations,
		TargetMatches: DefaultTuneTarget,
	}
}

// TuneForDraw runs the bounded tuning loop for one draw. history holds only
// draws strictly before the target. The outcome always carries the final
// 9-number prediction; CapReached marks a budget exhaustion, which is a
// defined result, not a failure.
func (t *Tuner) TuneForDraw(history []model.Draw, target model.Draw, base model.WeightVector) model.TuningOutcome {
	actual := target.AllNumbers()
	weights := base
	outcome := model.TuningOutcome{Draw: target.Index, Actual: actual}

	for iter := 1; iter <= t.MaxIterations; iter++ {
		predicted := t.Predict9(history, weights)
		matches := countMatches(predicted, actual)

		outcome.Weights = weights
		outcome.Predicted = predicted
		outcome.MatchCount = matches
		outcome.Iterations = iter

		if matches >= t.TargetMatches {
			return outcome
		}
		weights = t.adjust(weights, predicted, actual, matches, history)
	}

	outcome.CapReached = true
	return outcome
}

// Predict9 ranks all numbers by the quick composite under the given weights
// and returns the top nine, ties broken by ascending number.
func (t *Tuner) Predict9(history []model.Draw, weights model.WeightVector) []int {
	if len(history) < model.MinDrawsForAnalysis {
		return nil
	}
	type scored struct {
		number int
		prob   float64
	}
	ranked := make([]scored, 0, model.MaxNumber)
	for n := 1; n <= model.MaxNumber; n++ {
		q := feature.QuickExtract(history, n, t.RecentWindow)
		ranked = append(ranked, scored{n, scoring.QuickScore(q, weights)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prob != ranked[j].prob {
			return ranked[i].prob > ranked[j].prob
		}
		return ranked[i].number < ranked[j].number
	})
	out := make([]int, model.DrawnCount)
	for i := range out {
		out[i] = ranked[i].number
	}
	return out
}

// adjust moves each tunable weight one step toward the signals that scored
// the correctly predicted numbers above the wrongly predicted ones, with a
// half-step boost for signals that were strong on the numbers the
// prediction missed. The result is renormalized to sum 1.
func (t *Tuner) adjust(w model.WeightVector, predicted, actual []int, matches int, history []model.Draw) model.WeightVector {
	predictedSet := toSet(predicted)
	actualSet := toSet(actual)

	var correct, wrong, missed []int
	for n := range predictedSet {
		if _, ok := actualSet[n]; ok {
			correct = append(correct, n)
		} else {
			wrong = append(wrong, n)
		}
	}
	for n := range actualSet {
		if _, ok := predictedSet[n]; !ok {
			missed = append(missed, n)
		}
	}

	avgCorrect := averageQuickFactors(history, correct)
	avgWrong := averageQuickFactors(history, wrong)
	avgMissed := averageQuickFactors(history, missed)

	step := func(current float64, up bool, floor, ceil float64) float64 {
		if up {
			current += tuneStep
			if current > ceil {
				return ceil
			}
			return current
		}
		current -= tuneStep
		if current < floor {
			return floor
		}
		return current
	}

	w.Recent = step(w.Recent, avgCorrect.RecentFreq > avgWrong.RecentFreq, 0.05, 0.3)
	w.TimeWeighted = step(w.TimeWeighted, avgCorrect.TimeWeighted > avgWrong.TimeWeighted, 0.05, 0.3)
	w.Trend = step(w.Trend, avgCorrect.Trend > avgWrong.Trend, 0.05, 0.3)
	w.Interval = step(w.Interval, avgCorrect.Interval > avgWrong.Interval, 0.02, 0.2)
	w.Periodic = step(w.Periodic, avgCorrect.Periodic > avgWrong.Periodic, 0.02, 0.2)

	if len(missed) > 0 {
		boost := func(current float64) float64 {
			current += tuneStep * 0.5
			if current > 0.3 {
				return 0.3
			}
			return current
		}
		if avgMissed.RecentFreq > 0.5 {
			w.Recent = boost(w.Recent)
		}
		if avgMissed.TimeWeighted > 0.5 {
			w.TimeWeighted = boost(w.TimeWeighted)
		}
		if avgMissed.Trend > 0.5 {
			w.Trend = boost(w.Trend)
		}
	}

	w = scoring.Normalize(w)

	if matches >= 6 {
		w.BonusMultiplier += 0.1
		if w.BonusMultiplier > 2.0 {
			w.BonusMultiplier = 2.0
		}
	} else if matches <= 3 {
		w.BonusMultiplier -= 0.1
		if w.BonusMultiplier < 0.5 {
			w.BonusMultiplier = 0.5
		}
	}

	return w
}

func averageQuickFactors(history []model.Draw, numbers []int) feature.QuickFactors {
	if len(numbers) == 0 {
		return feature.QuickFactors{}
	}
	var avg feature.QuickFactors
	for _, n := range numbers {
		q := feature.QuickExtract(history, n, 30)
		avg.RecentFreq += q.RecentFreq
		avg.TimeWeighted += q.TimeWeighted
		avg.Trend += q.Trend
		avg.Interval += q.Interval
		avg.Periodic += q.Periodic
	}
	count := float64(len(numbers))
	avg.RecentFreq /= count
	avg.TimeWeighted /= count
	avg.Trend /= count
	avg.Interval /= count
	avg.Periodic /= count
	return avg
}

func toSet(nums []int) map[int]struct{} {
	set := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		set[n] = struct{}{}
	}
	return set
}
