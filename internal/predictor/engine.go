package predictor

import (
	"log"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cailot/cool-runnings/internal/feature"
	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
	"github.com/cailot/cool-runnings/internal/selector"
)

// Mid-band boundaries for the standing 39%-42% watch list.
const (
	midBandLow  = 0.39
	midBandHigh = 0.42
)

// Engine turns a draw archive into ranked number picks. It owns a selector
// and a random source; both are injected so predictions are reproducible
// under a fixed seed.
type Engine struct {
	recentWindow int
	rng          *rand.Rand
	sel          *selector.Selector
}

// New builds an Engine. sampleAttempts is the selector's basic sampling
// budget per pick; <= 0 means selector.DefaultAttempts.
func New(recentWindow, sampleAttempts int, rng *rand.Rand) *Engine {
	return &Engine{
		recentWindow: recentWindow,
		rng:          rng,
		sel:          selector.New(rng, sampleAttempts),
	}
}

// ScoreAll computes the composite probability of every number 1..44
// against the archive, fanning the per-number work out across CPUs.
// The result is ordered by number.
func (e *Engine) ScoreAll(draws []model.Draw, w model.WeightVector) []model.ScoredNumber {
	scored := make([]model.ScoredNumber, model.MaxNumber)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for n := 1; n <= model.MaxNumber; n++ {
		n := n
		g.Go(func() error {
			fv := feature.Extract(draws, n, e.recentWindow)
			scored[n-1] = model.ScoredNumber{Number: n, Probability: scoring.Score(fv, w)}
			return nil
		})
	}
	// Scoring never fails; the group is used for fan-out only.
	_ = g.Wait()

	return scored
}

// Top7 returns the 7 numbers the archive favors most, preferring a
// combination whose shape fits the historical pattern envelope. Without
// enough history for an envelope it degrades to the raw top 7.
func (e *Engine) Top7(draws []model.Draw, w model.WeightVector) []model.ScoredNumber {
	scored := e.ScoreAll(draws, w)
	pr := selector.ComputePatternRange(draws)
	if pr == nil {
		log.Printf("[WARN] predictor: not enough history for pattern filtering, returning raw top 7")
		return headByProbability(scored, model.WinningCount, true)
	}

	candidates := headByProbability(scored, selector.AdvancedPoolSize, true)
	combo := e.sel.SelectBest(candidates, pr, &w)
	if combo == nil {
		log.Printf("[WARN] predictor: no in-range top combination found, returning raw top 7")
		return headByProbability(scored, model.WinningCount, true)
	}
	return withProbabilities(combo, scored, true)
}

// Bottom7 mirrors Top7 for the least favored numbers, with the cheaper
// selection budget.
func (e *Engine) Bottom7(draws []model.Draw, w model.WeightVector) []model.ScoredNumber {
	scored := e.ScoreAll(draws, w)
	pr := selector.ComputePatternRange(draws)
	if pr == nil {
		return headByProbability(scored, model.WinningCount, false)
	}

	candidates := headByProbability(scored, selector.BasicPoolSize, false)
	combo := e.sel.SelectBasic(candidates, pr)
	if combo == nil {
		log.Printf("[WARN] predictor: no in-range bottom combination found, returning raw bottom 7")
		return headByProbability(scored, model.WinningCount, false)
	}
	return withProbabilities(combo, scored, false)
}

// Mid7 blends the pattern-filtered top and bottom picks: it takes the
// probability band spanned by the two, widens it by half again, and picks
// 7 numbers inside it, pattern-filtered when possible.
func (e *Engine) Mid7(draws []model.Draw, w model.WeightVector) []model.ScoredNumber {
	high7 := e.Top7(draws, w)
	low7 := e.Bottom7(draws, w)
	scored := e.ScoreAll(draws, w)

	if len(high7) == 0 || len(low7) == 0 {
		return midFromAll(scored)
	}

	highLo, highHi := probExtent(high7)
	lowLo, lowHi := probExtent(low7)

	bandLo := min(highLo, lowHi)
	bandHi := max(highHi, lowLo)
	center := (bandLo + bandHi) / 2
	halfRange := (bandHi - bandLo) / 2
	expandedLo := max(0, center-halfRange*1.5)
	expandedHi := min(1, center+halfRange*1.5)

	union := make(map[int]struct{}, len(high7)+len(low7))
	for _, sn := range high7 {
		union[sn.Number] = struct{}{}
	}
	for _, sn := range low7 {
		union[sn.Number] = struct{}{}
	}

	var candidates []model.ScoredNumber
	for _, sn := range scored {
		if _, ok := union[sn.Number]; !ok {
			continue
		}
		if sn.Probability >= expandedLo && sn.Probability <= expandedHi {
			candidates = append(candidates, sn)
		}
	}
	if len(candidates) < model.WinningCount {
		candidates = candidates[:0]
		for _, sn := range scored {
			if sn.Probability >= expandedLo && sn.Probability <= expandedHi {
				candidates = append(candidates, sn)
			}
		}
	}
	sortByProbability(candidates, true)

	pr := selector.ComputePatternRange(draws)
	if pr != nil && len(candidates) >= model.WinningCount {
		pool := candidates
		if len(pool) > selector.BasicPoolSize {
			pool = pool[:selector.BasicPoolSize]
		}
		if combo := e.sel.SelectBasic(pool, pr); combo != nil {
			return withProbabilities(combo, scored, true)
		}
	}

	if len(candidates) > model.WinningCount {
		candidates = candidates[:model.WinningCount]
	}
	return candidates
}

// MidBandNumbers returns every number whose probability falls strictly
// between 39% and 42%, highest first. The list has no size limit and may
// be empty.
func (e *Engine) MidBandNumbers(scored []model.ScoredNumber) []model.ScoredNumber {
	var out []model.ScoredNumber
	for _, sn := range scored {
		if sn.Probability > midBandLow && sn.Probability < midBandHigh {
			out = append(out, sn)
		}
	}
	sortByProbability(out, true)
	return out
}

// midFromAll is the last-resort mid pick: the first 7 numbers whose
// probability sits inside the middle half of the observed probability
// spread.
func midFromAll(scored []model.ScoredNumber) []model.ScoredNumber {
	if len(scored) == 0 {
		return nil
	}
	sorted := make([]model.ScoredNumber, len(scored))
	copy(sorted, scored)
	sortByProbability(sorted, true)

	maxProb := sorted[0].Probability
	minProb := sorted[len(sorted)-1].Probability
	lo := minProb + (maxProb-minProb)*0.25
	hi := minProb + (maxProb-minProb)*0.75

	var out []model.ScoredNumber
	for _, sn := range sorted {
		if sn.Probability >= lo && sn.Probability <= hi {
			out = append(out, sn)
			if len(out) == model.WinningCount {
				break
			}
		}
	}
	return out
}

func headByProbability(scored []model.ScoredNumber, k int, descending bool) []model.ScoredNumber {
	sorted := make([]model.ScoredNumber, len(scored))
	copy(sorted, scored)
	sortByProbability(sorted, descending)
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

func sortByProbability(s []model.ScoredNumber, descending bool) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Probability != s[j].Probability {
			if descending {
				return s[i].Probability > s[j].Probability
			}
			return s[i].Probability < s[j].Probability
		}
		return s[i].Number < s[j].Number
	})
}

func withProbabilities(combo []int, scored []model.ScoredNumber, descending bool) []model.ScoredNumber {
	probs := make(map[int]float64, len(scored))
	for _, sn := range scored {
		probs[sn.Number] = sn.Probability
	}
	out := make([]model.ScoredNumber, 0, len(combo))
	for _, n := range combo {
		out = append(out, model.ScoredNumber{Number: n, Probability: probs[n]})
	}
	sortByProbability(out, descending)
	return out
}

func probExtent(s []model.ScoredNumber) (lo, hi float64) {
	lo, hi = s[0].Probability, s[0].Probability
	for _, sn := range s[1:] {
		if sn.Probability < lo {
			lo = sn.Probability
		}
		if sn.Probability > hi {
			hi = sn.Probability
		}
	}
	return lo, hi
}
