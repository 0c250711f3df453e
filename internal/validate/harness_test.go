package validate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
)

// makeDraws builds n random draws, newest first.
func makeDraws(n int, seed int64) []model.Draw {
	rng := rand.New(rand.NewSource(seed))
	draws := make([]model.Draw, n)
	for i := 0; i < n; i++ {
		nums := rng.Perm(model.MaxNumber)[:model.DrawnCount]
		var d model.Draw
		d.Index = n - i
		d.Date = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i)
		for j := 0; j < model.WinningCount; j++ {
			d.Winning[j] = nums[j] + 1
		}
		for j := 0; j < model.BonusCount; j++ {
			d.Bonus[j] = nums[model.WinningCount+j] + 1
		}
		draws[i] = d
	}
	return draws
}

func TestRun_InsufficientData(t *testing.T) {
	h := New(QuickPredictor(scoring.DefaultWeights(), 50))

	result := h.Run(makeDraws(50, 1), 100)
	if !result.InsufficientData {
		t.Errorf("expected insufficient data for a 100-draw walk over 50 draws")
	}
	if result.Summary == "" {
		t.Errorf("insufficient-data result must carry a summary")
	}
	if result.Statistics.TotalValidations != 0 {
		t.Errorf("no draws should have been validated, got %d", result.Statistics.TotalValidations)
	}
}

// A strategy that reproduces the seeded random baseline draw for draw
// must show exactly zero uplift over it.
func TestRun_RandomEquivalentStrategyZeroUplift(t *testing.T) {
	rng := rand.New(rand.NewSource(randomBaselineSeed))
	h := New(func(history []model.Draw) []int {
		return randomNine(rng)
	})

	result := h.Run(makeDraws(60, 11), 20)
	if result.InsufficientData {
		t.Fatalf("expected a full comparison, got insufficient data")
	}
	if got := result.StrategyComparison.UpliftVsRandom; got != 0 {
		t.Errorf("uplift vs random = %v, want exactly 0", got)
	}
	if result.StrategyComparison.TopKHitRate != result.StrategyComparison.RandomHitRate {
		t.Errorf("hit rates diverged: model %v random %v",
			result.StrategyComparison.TopKHitRate, result.StrategyComparison.RandomHitRate)
	}
}

func TestRun_WalksEveryDraw(t *testing.T) {
	h := New(QuickPredictor(scoring.DefaultWeights(), 50))
	draws := makeDraws(60, 2)

	result := h.Run(draws, 20)
	if result.InsufficientData {
		t.Fatalf("expected a full validation: %s", result.Summary)
	}

	stats := result.Statistics
	if stats.TotalValidations != 20 {
		t.Errorf("expected 20 validations, got %d", stats.TotalValidations)
	}
	if stats.SkippedDraws != 0 {
		t.Errorf("every draw has enough history, got %d skipped", stats.SkippedDraws)
	}

	distTotal := 0
	for matches, n := range stats.MatchDistribution {
		if matches < 0 || matches > model.DrawnCount {
			t.Errorf("impossible match count %d in distribution", matches)
		}
		distTotal += n
	}
	if distTotal != 20 {
		t.Errorf("match distribution must cover all 20 draws, got %d", distTotal)
	}

	if stats.AverageAccuracy < 0 || stats.AverageAccuracy > 1 {
		t.Errorf("average accuracy out of range: %v", stats.AverageAccuracy)
	}
	for name, avg := range stats.MetricAverages {
		if avg < 0 || avg > 1 {
			t.Errorf("metric %s out of range: %v", name, avg)
		}
	}
	if stats.Recommendations == "" {
		t.Errorf("expected a recommendation string")
	}

	if len(result.DetailedResults) != 20 {
		t.Fatalf("expected 20 detailed results, got %d", len(result.DetailedResults))
	}
	// Oldest first: draw indexes ascend through the slice.
	for i := 1; i < len(result.DetailedResults); i++ {
		if result.DetailedResults[i].Draw <= result.DetailedResults[i-1].Draw {
			t.Errorf("results must walk oldest to newest, got indexes %d then %d",
				result.DetailedResults[i-1].Draw, result.DetailedResults[i].Draw)
			break
		}
	}
	for _, r := range result.DetailedResults {
		if len(r.Predicted) != model.DrawnCount {
			t.Errorf("draw %d: expected %d predicted numbers, got %d", r.Draw, model.DrawnCount, len(r.Predicted))
		}
		if len(r.Actual) != model.DrawnCount {
			t.Errorf("draw %d: expected %d actual numbers, got %d", r.Draw, model.DrawnCount, len(r.Actual))
		}
	}

	if result.Summary == "" {
		t.Errorf("expected a summary")
	}
}

func TestRun_Deterministic(t *testing.T) {
	draws := makeDraws(60, 3)
	h := New(QuickPredictor(scoring.DefaultWeights(), 50))

	first := h.Run(draws, 15)
	second := h.Run(draws, 15)
	if first.Statistics.AverageAccuracy != second.Statistics.AverageAccuracy {
		t.Errorf("repeated runs must agree: %v vs %v",
			first.Statistics.AverageAccuracy, second.Statistics.AverageAccuracy)
	}
	if first.StrategyComparison != second.StrategyComparison {
		t.Errorf("the random baseline is seeded and must be stable: %+v vs %+v",
			first.StrategyComparison, second.StrategyComparison)
	}
}

func TestRun_NoLookahead(t *testing.T) {
	draws := makeDraws(60, 5)
	h := New(QuickPredictor(scoring.DefaultWeights(), 50))

	full := h.Run(draws, 10)
	// Drop the newest 5 draws; the 5 oldest validation targets and their
	// histories are identical, so their predictions must not change.
	trimmed := h.Run(draws[5:], 5)

	if len(full.DetailedResults) < 5 || len(trimmed.DetailedResults) != 5 {
		t.Fatalf("unexpected result counts: %d and %d",
			len(full.DetailedResults), len(trimmed.DetailedResults))
	}
	for i := 0; i < 5; i++ {
		a, b := full.DetailedResults[i], trimmed.DetailedResults[i]
		if a.Draw != b.Draw {
			t.Fatalf("position %d: draws diverge, %d vs %d", i, a.Draw, b.Draw)
		}
		for j := range a.Predicted {
			if a.Predicted[j] != b.Predicted[j] {
				t.Errorf("draw %d: prediction depends on later draws: %v vs %v",
					a.Draw, a.Predicted, b.Predicted)
				break
			}
		}
	}
}

func TestDistributionScore_IdenticalSets(t *testing.T) {
	nums := []int{1, 5, 12, 19, 23, 30, 38, 41, 44}
	if got := distributionScore(nums, nums); got != 1.0 {
		t.Errorf("identical sets must score 1.0, got %v", got)
	}
}

func TestDistributionScore_Bounded(t *testing.T) {
	low := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	high := []int{36, 37, 38, 39, 40, 41, 42, 43, 44}

	got := distributionScore(low, high)
	if got < 0 || got > 1 {
		t.Errorf("score out of range: %v", got)
	}
	if got >= 1 {
		t.Errorf("opposite distributions must score below 1, got %v", got)
	}
}

func TestRankScore_IdenticalSets(t *testing.T) {
	draws := makeDraws(40, 4)
	nums := []int{1, 5, 12, 19, 23, 30, 38, 41, 44}

	if got := rankScore(nums, nums, draws); got != 1.0 {
		t.Errorf("identical sets share an average rank, expected 1.0, got %v", got)
	}
}

func TestCountMatches(t *testing.T) {
	predicted := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}

	if got := countMatches(predicted, []int{1, 2, 3, 20, 21, 22, 23, 24, 25}); got != 3 {
		t.Errorf("expected 3 matches, got %d", got)
	}
	if got := countMatches(predicted, []int{10, 11, 12, 13, 14, 15, 16, 17, 18}); got != 0 {
		t.Errorf("expected 0 matches, got %d", got)
	}
	if got := countMatches(predicted, predicted); got != model.DrawnCount {
		t.Errorf("expected %d matches, got %d", model.DrawnCount, got)
	}
}
