package predictor

import (
	"log"
	"sort"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
	"github.com/cailot/cool-runnings/internal/scoring"
)

// DefaultConsensusRuns is how many perturbed scoring passes feed the
// consensus tally.
const DefaultConsensusRuns = 1000

// saturatedProbability marks numbers whose score pinned at the ceiling;
// they carry no ranking information and are excluded from tallies.
const saturatedProbability = 0.9999

// ConsensusResult is the outcome of a multi-run prediction: the numbers
// that kept showing up across perturbed scoring passes.
type ConsensusResult struct {
	Top7        []model.ScoredNumber `json:"top7"`
	MidBand7    []model.ScoredNumber `json:"mid_band7"`
	TopTally    map[int]int          `json:"top_tally"`
	MidTally    map[int]int          `json:"mid_tally"`
	Runs        int                  `json:"runs"`
	Elapsed     time.Duration        `json:"elapsed"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Consensus scores the archive `runs` times, the first pass with the base
// weights and every later pass with weights jittered by up to 5%, and
// tallies which numbers land in each pass's top 9 and 39%-42% band. The
// final picks are the 7 most frequent of each tally, ties broken by
// number.
func (e *Engine) Consensus(draws []model.Draw, base model.WeightVector, runs int) ConsensusResult {
	if runs <= 0 {
		runs = DefaultConsensusRuns
	}
	started := time.Now()
	log.Printf("[INFO] predictor: consensus analysis started, %d runs", runs)

	topTally := make(map[int]int)
	midTally := make(map[int]int)

	for run := 1; run <= runs; run++ {
		w := base
		if run > 1 {
			w = scoring.Perturb(base, e.rng)
		}
		scored := e.ScoreAll(draws, w)

		for _, sn := range topNine(scored) {
			topTally[sn.Number]++
		}
		for _, sn := range e.MidBandNumbers(scored) {
			midTally[sn.Number]++
		}
	}

	// Final probabilities come from the unperturbed weights.
	baseScored := e.ScoreAll(draws, base)
	probs := make(map[int]float64, len(baseScored))
	for _, sn := range baseScored {
		probs[sn.Number] = sn.Probability
	}

	top7 := tallyHead(topTally, probs, true)
	mid7 := tallyHead(midTally, probs, false)

	elapsed := time.Since(started)
	log.Printf("[INFO] predictor: consensus analysis finished in %s, top7=%v mid7=%v",
		elapsed.Round(time.Millisecond), numbersOf(top7), numbersOf(mid7))

	return ConsensusResult{
		Top7:        top7,
		MidBand7:    mid7,
		TopTally:    topTally,
		MidTally:    midTally,
		Runs:        runs,
		Elapsed:     elapsed,
		GeneratedAt: time.Now(),
	}
}

// topNine returns a pass's 9 strongest numbers, skipping saturated scores.
func topNine(scored []model.ScoredNumber) []model.ScoredNumber {
	sorted := make([]model.ScoredNumber, len(scored))
	copy(sorted, scored)
	sortByProbability(sorted, true)

	out := make([]model.ScoredNumber, 0, model.DrawnCount)
	for _, sn := range sorted {
		if sn.Probability >= saturatedProbability {
			continue
		}
		out = append(out, sn)
		if len(out) == model.DrawnCount {
			break
		}
	}
	return out
}

// tallyHead picks the 7 most frequently tallied numbers, most frequent
// first and ties by ascending number. When excludeSaturated is set,
// numbers whose base probability pinned at the ceiling are dropped.
func tallyHead(tally map[int]int, probs map[int]float64, excludeSaturated bool) []model.ScoredNumber {
	type entry struct {
		number int
		count  int
	}
	entries := make([]entry, 0, len(tally))
	for n, c := range tally {
		if excludeSaturated && probs[n] >= saturatedProbability {
			continue
		}
		entries = append(entries, entry{number: n, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].number < entries[j].number
	})

	out := make([]model.ScoredNumber, 0, model.WinningCount)
	for _, en := range entries {
		out = append(out, model.ScoredNumber{Number: en.number, Probability: probs[en.number]})
		if len(out) == model.WinningCount {
			break
		}
	}
	return out
}

func numbersOf(s []model.ScoredNumber) []int {
	out := make([]int, len(s))
	for i, sn := range s {
		out[i] = sn.Number
	}
	return out
}
