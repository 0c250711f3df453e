package validate

import (
	"fmt"
	"log"
	"sort"

	"github.com/cailot/cool-runnings/internal/model"
)

const (
	// DefaultBacktestPeriod is the trailing window a fixed backtest replays.
	DefaultBacktestPeriod = 1500

	// DefaultBacktestTopK is how many numbers the fixed strategy "buys"
	// every draw.
	DefaultBacktestTopK = 10
)

// ScoreFunc ranks all 44 numbers from history (newest first). Used by the
// backtest to pick its fixed top-K set each draw.
type ScoreFunc func(history []model.Draw) []model.ScoredNumber

// Backtest replays a fixed strategy over the trailing window: every draw,
// take the strategy's top-K numbers and count how many were drawn. HitRate
// is the fraction of draws where at least one number matched. Returns nil
// when the archive cannot cover the window plus a minimum history.
func Backtest(draws []model.Draw, score ScoreFunc, period, topK int) *model.BacktestMetrics {
	if period <= 0 {
		period = DefaultBacktestPeriod
	}
	if topK <= 0 {
		topK = DefaultBacktestTopK
	}
	if len(draws) < period+model.MinDrawsForAnalysis {
		log.Printf("[WARN] validate: %d draws on record, need %d for a %d-draw backtest",
			len(draws), period+model.MinDrawsForAnalysis, period)
		return nil
	}

	var (
		history  []int
		dist     = make(map[int]int)
		hits     int
		sumTotal int
	)

	for i := period - 1; i >= 0; i-- {
		target := draws[i]
		earlier := draws[i+1:]

		scored := score(earlier)
		picks := topKNumbers(scored, topK)

		matches := countMatches(picks, target.AllNumbers())
		history = append(history, matches)
		dist[matches]++
		sumTotal += matches
		if matches >= 1 {
			hits++
		}
	}

	n := float64(len(history))
	m := &model.BacktestMetrics{
		TestPeriod:        period,
		TopK:              topK,
		AverageMatchCount: float64(sumTotal) / n,
		HitRate:           float64(hits) / n,
		MatchHistory:      history,
		MatchDistribution: dist,
	}
	m.Summary = fmt.Sprintf(
		"fixed top-%d strategy over %d draws: avg matches %.2f, hit rate %.4f (at least one match)",
		topK, period, m.AverageMatchCount, m.HitRate)

	log.Printf("[INFO] validate: backtest finished, %s", m.Summary)
	return m
}

func topKNumbers(scored []model.ScoredNumber, k int) []int {
	sorted := make([]model.ScoredNumber, len(scored))
	copy(sorted, scored)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Probability != sorted[j].Probability {
			return sorted[i].Probability > sorted[j].Probability
		}
		return sorted[i].Number < sorted[j].Number
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	out := make([]int, len(sorted))
	for i, sn := range sorted {
		out[i] = sn.Number
	}
	return out
}
