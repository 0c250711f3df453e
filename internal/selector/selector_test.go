package selector

import (
	"math/rand"
	"testing"

	"github.com/cailot/cool-runnings/internal/model"
)

// scoredPool builds a candidate pool with descending probabilities.
func scoredPool(numbers ...int) []model.ScoredNumber {
	pool := make([]model.ScoredNumber, len(numbers))
	for i, n := range numbers {
		pool[i] = model.ScoredNumber{Number: n, Probability: 0.9 - float64(i)*0.01}
	}
	return pool
}

func TestNew_AttemptsBudget(t *testing.T) {
	if got := New(rand.New(rand.NewSource(1)), 0).attempts; got != DefaultAttempts {
		t.Errorf("zero budget should fall back to %d, got %d", DefaultAttempts, got)
	}
	if got := New(rand.New(rand.NewSource(1)), 250).attempts; got != 250 {
		t.Errorf("budget override ignored: got %d", got)
	}
}

func TestSelectBest_TooFewCandidates(t *testing.T) {
	sel := New(rand.New(rand.NewSource(1)), 0)
	if got := sel.SelectBest(scoredPool(1, 2, 3, 4, 5, 6), nil, nil); got != nil {
		t.Errorf("expected nil for a six-number pool, got %v", got)
	}
}

func TestSelectBest_NilRangeFallsBackToTopSeven(t *testing.T) {
	sel := New(rand.New(rand.NewSource(1)), 0)
	pool := scoredPool(40, 3, 17, 25, 8, 31, 12, 44, 2)

	got := sel.SelectBest(pool, nil, nil)
	want := []int{3, 8, 12, 17, 25, 31, 40}
	if len(got) != len(want) {
		t.Fatalf("expected %d numbers, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i])
			break
		}
	}
}

func TestSelectBest_RespectsEnvelope(t *testing.T) {
	draws := makeVariedDraws(40, 5)
	pr := ComputePatternRange(draws)
	if pr == nil {
		t.Fatal("expected a pattern range")
	}

	var pool []model.ScoredNumber
	for n := 1; n <= model.MaxNumber; n++ {
		pool = append(pool, model.ScoredNumber{Number: n, Probability: float64(n) / 50})
	}

	sel := New(rand.New(rand.NewSource(7)), 0)
	weights := defaultWeightsForTest()
	got := sel.SelectBest(pool, pr, &weights)

	if len(got) != model.WinningCount {
		t.Fatalf("expected %d numbers, got %v", model.WinningCount, got)
	}
	seen := make(map[int]bool)
	for i, n := range got {
		if n < 1 || n > model.MaxNumber {
			t.Errorf("number out of range: %d", n)
		}
		if seen[n] {
			t.Errorf("duplicate number %d", n)
		}
		seen[n] = true
		if i > 0 && got[i-1] >= n {
			t.Errorf("result must be sorted ascending, got %v", got)
		}
	}

	// Sampling and the closest-window fallback only ever return in-range
	// combinations; anything outside the envelope must be the raw top 7.
	if !InRange(got, pr) {
		fallback := topByProbability(pool, model.WinningCount)
		for i := range got {
			if got[i] != fallback[i] {
				t.Fatalf("out-of-range combination %v is not the raw top 7 %v", got, fallback)
			}
		}
	}
}

func TestSelectBest_SeededReproducible(t *testing.T) {
	draws := makeVariedDraws(40, 5)
	pr := ComputePatternRange(draws)

	var pool []model.ScoredNumber
	for n := 1; n <= model.MaxNumber; n++ {
		pool = append(pool, model.ScoredNumber{Number: n, Probability: float64(n) / 50})
	}
	weights := defaultWeightsForTest()

	first := New(rand.New(rand.NewSource(42)), 0).SelectBest(pool, pr, &weights)
	second := New(rand.New(rand.NewSource(42)), 0).SelectBest(pool, pr, &weights)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("same seed must give the same combination: %v vs %v", first, second)
			break
		}
	}
}

func TestSampleWeighted_ZeroWeightUniform(t *testing.T) {
	sel := New(rand.New(rand.NewSource(3)), 0)
	pool := []model.ScoredNumber{{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4},
		{Number: 5}, {Number: 6}, {Number: 7}, {Number: 8}}

	got := sel.sampleWeighted(pool, model.WinningCount)
	if len(got) != model.WinningCount {
		t.Fatalf("expected %d numbers, got %v", model.WinningCount, got)
	}
	seen := make(map[int]bool)
	for _, n := range got {
		if n < 1 || n > 8 {
			t.Errorf("number %d not in the pool", n)
		}
		if seen[n] {
			t.Errorf("duplicate number %d", n)
		}
		seen[n] = true
	}
}

func TestGenerateCombinations_Capped(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	combos := generateCombinations(pool, 7, 5)
	if len(combos) != 5 {
		t.Errorf("expected the cap of 5, got %d", len(combos))
	}
	all := generateCombinations(pool, 7, 1000)
	if len(all) != 120 { // C(10,7)
		t.Errorf("expected 120 combinations, got %d", len(all))
	}
	if generateCombinations([]int{1, 2, 3}, 7, 10) != nil {
		t.Errorf("a pool smaller than k yields nothing")
	}
}

// makeVariedDraws builds n draws whose winning sets wander around typical
// shapes, so the derived envelope is wide enough to sample into.
func makeVariedDraws(n int, seed int64) []model.Draw {
	rng := rand.New(rand.NewSource(seed))
	draws := make([]model.Draw, n)
	for i := range draws {
		nums := rng.Perm(model.MaxNumber)[:model.DrawnCount]
		var d model.Draw
		d.Index = n - i
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

func defaultWeightsForTest() model.WeightVector {
	return model.WeightVector{
		Overall: 0.10, Recent: 0.15, TimeWeighted: 0.12, Interval: 0.10,
		Trend: 0.12, Periodic: 0.08, Consecutive: 0.06, Correlation: 0.05,
		Outlier: 0.04, ChangeRate: 0.06, RecentInterval: 0.08,
		WeightedAppearance: 0.03, Variance: 0.01,
		BonusMultiplier: 1.0,
		High:            model.ThresholdSet{RecentFrequency: 0.6},
		VeryHigh:        model.ThresholdSet{RecentFrequency: 0.8},
	}
}
