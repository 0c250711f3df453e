package selector

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cailot/cool-runnings/internal/model"
)

const (
	// DefaultAttempts is the basic sampling budget per pick; the advanced
	// mode spends advancedFactor times as much.
	DefaultAttempts = 1000
	advancedFactor  = 5

	// Candidate pool sizes fed into each mode.
	AdvancedPoolSize = 30
	BasicPoolSize    = 20

	maxFallbackCombinations = 100
)

// Selector draws 7-number combinations from a scored candidate pool,
// preferring combinations whose shape matches the historical envelope.
// The random source is injected so callers control reproducibility.
type Selector struct {
	rng      *rand.Rand
	attempts int
}

// New builds a Selector with the given basic sampling budget; attempts <= 0
// means DefaultAttempts.
func New(rng *rand.Rand, attempts int) *Selector {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Selector{rng: rng, attempts: attempts}
}

// SelectBest samples weighted combinations from the candidate pool under
// the advanced budget and returns the in-range combination with the
// highest score, where score is the probability sum plus a centering bonus
// and a learned threshold bonus. Falls back to the closest window
// combination and then the raw top 7 when nothing in range is found.
func (s *Selector) SelectBest(candidates []model.ScoredNumber, pr *model.PatternRange, weights *model.WeightVector) []int {
	return s.selectCombination(candidates, pr, weights, advancedFactor*s.attempts)
}

// SelectBasic is the cheaper variant used for secondary picks: the basic
// budget and probability-sum scoring only.
func (s *Selector) SelectBasic(candidates []model.ScoredNumber, pr *model.PatternRange) []int {
	return s.selectCombination(candidates, pr, nil, s.attempts)
}

func (s *Selector) selectCombination(candidates []model.ScoredNumber, pr *model.PatternRange, weights *model.WeightVector, attempts int) []int {
	if len(candidates) < model.WinningCount {
		return nil
	}
	if pr == nil {
		return topByProbability(candidates, model.WinningCount)
	}

	var best []int
	bestScore := math.Inf(-1)

	for i := 0; i < attempts; i++ {
		combo := s.sampleWeighted(candidates, model.WinningCount)
		if !InRange(combo, pr) {
			continue
		}
		score := combinationScore(combo, candidates, pr, weights)
		if score > bestScore {
			bestScore = score
			best = combo
		}
	}
	if best != nil {
		sort.Ints(best)
		return best
	}

	if combo := findClosestCombination(candidates, pr); combo != nil {
		return combo
	}
	return topByProbability(candidates, model.WinningCount)
}

// sampleWeighted draws k distinct numbers, each pick weighted by the
// probability of the numbers still remaining. A zero total weight degrades
// to a uniform pick.
func (s *Selector) sampleWeighted(candidates []model.ScoredNumber, k int) []int {
	remaining := make([]model.ScoredNumber, len(candidates))
	copy(remaining, candidates)

	picked := make([]int, 0, k)
	for len(picked) < k && len(remaining) > 0 {
		totalWeight := 0.0
		for _, c := range remaining {
			totalWeight += c.Probability
		}

		idx := len(remaining) - 1
		if totalWeight > 0 {
			target := s.rng.Float64() * totalWeight
			cumulative := 0.0
			for j, c := range remaining {
				cumulative += c.Probability
				if target <= cumulative {
					idx = j
					break
				}
			}
		} else {
			idx = s.rng.Intn(len(remaining))
		}

		picked = append(picked, remaining[idx].Number)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return picked
}

func combinationScore(combo []int, candidates []model.ScoredNumber, pr *model.PatternRange, weights *model.WeightVector) float64 {
	probs := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		probs[c.Number] = c.Probability
	}

	score := 0.0
	for _, n := range combo {
		score += probs[n]
	}
	if weights == nil {
		return score
	}

	score += patternBonus(combo, pr)
	for _, n := range combo {
		p := probs[n]
		if p > weights.High.RecentFrequency {
			score += 0.02
		}
		if p > weights.VeryHigh.RecentFrequency {
			score += 0.03
		}
	}
	return score
}

// patternBonus rewards combinations whose sum and mean sit near the center
// of the historical envelope, up to 0.05 for each.
func patternBonus(combo []int, pr *model.PatternRange) float64 {
	sum := 0
	for _, n := range combo {
		sum += n
	}
	average := float64(sum) / float64(len(combo))

	bonus := 0.0
	if spread := float64(pr.MaxSum - pr.MinSum); spread > 0 {
		center := float64(pr.MinSum+pr.MaxSum) / 2
		bonus += 0.05 * (1 - math.Min(1, math.Abs(float64(sum)-center)/spread))
	}
	if spread := pr.MaxAverage - pr.MinAverage; spread > 0 {
		center := (pr.MinAverage + pr.MaxAverage) / 2
		bonus += 0.05 * (1 - math.Min(1, math.Abs(average-center)/spread))
	}
	return bonus
}

// findClosestCombination enumerates combinations drawn from sliding windows
// over the candidates sorted by number and returns the first one inside the
// envelope. Enumeration is capped so a hostile envelope cannot stall a
// prediction.
func findClosestCombination(candidates []model.ScoredNumber, pr *model.PatternRange) []int {
	numbers := make([]int, len(candidates))
	for i, c := range candidates {
		numbers[i] = c.Number
	}
	sort.Ints(numbers)

	generated := 0
	maxStart := min(10, len(numbers)-model.WinningCount)
	for start := 0; start <= maxStart; start++ {
		maxEnd := min(start+15, len(numbers))
		for end := start + model.WinningCount; end <= maxEnd; end++ {
			window := numbers[start:end]
			combos := generateCombinations(window, model.WinningCount, maxFallbackCombinations-generated)
			generated += len(combos)
			for _, combo := range combos {
				if InRange(combo, pr) {
					return combo
				}
			}
			if generated >= maxFallbackCombinations {
				return nil
			}
		}
	}
	return nil
}

func generateCombinations(pool []int, k, maxResults int) [][]int {
	if maxResults <= 0 || len(pool) < k {
		return nil
	}
	var results [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if len(results) >= maxResults {
			return
		}
		if depth == k {
			out := make([]int, k)
			copy(out, combo)
			results = append(results, out)
			return
		}
		for i := start; i <= len(pool)-(k-depth); i++ {
			combo[depth] = pool[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return results
}

func topByProbability(candidates []model.ScoredNumber, k int) []int {
	sorted := make([]model.ScoredNumber, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Probability != sorted[j].Probability {
			return sorted[i].Probability > sorted[j].Probability
		}
		return sorted[i].Number < sorted[j].Number
	})
	out := make([]int, 0, k)
	for i := 0; i < k && i < len(sorted); i++ {
		out = append(out, sorted[i].Number)
	}
	sort.Ints(out)
	return out
}
