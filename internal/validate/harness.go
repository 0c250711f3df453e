package validate

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/cailot/cool-runnings/internal/learner"
	"github.com/cailot/cool-runnings/internal/model"
)

const (
	// DefaultValidationDraws is the trailing slice walked by a full
	// validation run.
	DefaultValidationDraws = 1500

	// Baseline comparisons use a fixed seed so uplift numbers are stable
	// across runs.
	randomBaselineSeed = 42

	// A prediction "hits" when at least this many of its numbers were
	// actually drawn.
	hitThreshold = 3

	// Retraining triggers.
	minAccuracy       = 0.25
	minUpliftVsRandom = 0.0
	minUpliftVsFreq   = -0.05
	minAverageMatches = 2.5
)

// PredictFunc predicts the 9 numbers of the next draw from history (newest
// first). It returns nil when history is too thin to predict from.
type PredictFunc func(history []model.Draw) []int

// QuickPredictor is the default prediction strategy for validation walks:
// the 9 highest quick-scored numbers under the given weights.
func QuickPredictor(weights model.WeightVector, recentWindow int) PredictFunc {
	tuner := learner.NewTuner(recentWindow)
	return func(history []model.Draw) []int {
		return tuner.Predict9(history, weights)
	}
}

// Harness replays historical draws against a prediction strategy and
// reports how the strategy would have performed.
type Harness struct {
	predict PredictFunc
}

func New(predict PredictFunc) *Harness {
	return &Harness{predict: predict}
}

// Run walks forward over the latest `count` draws, oldest first,
// predicting each from strictly earlier data, and aggregates accuracy,
// ranking and distribution metrics, baseline comparisons, retraining
// warnings and suggested adjustments. When the archive cannot cover the
// slice plus a minimum history, the result only carries InsufficientData.
func (h *Harness) Run(draws []model.Draw, count int) model.ComprehensiveValidationResult {
	if count <= 0 {
		count = DefaultValidationDraws
	}
	if len(draws) < count+model.MinDrawsForAnalysis {
		log.Printf("[WARN] validate: %d draws on record, need %d for a %d-draw validation",
			len(draws), count+model.MinDrawsForAnalysis, count)
		return model.ComprehensiveValidationResult{
			InsufficientData: true,
			Summary: fmt.Sprintf("insufficient data: %d draws on record, %d required",
				len(draws), count+model.MinDrawsForAnalysis),
		}
	}

	var (
		results      []model.ValidationResult
		skipped      int
		matchDist    = make(map[int]int)
		accuracyHist []float64

		sumAccuracy, sumMatches float64
		sumRank, sumDist        float64
	)

	// draws are newest first; walk the validation slice oldest first so
	// every prediction only sees strictly earlier draws.
	for i := count - 1; i >= 0; i-- {
		target := draws[i]
		history := draws[i+1:]

		predicted := h.predict(history)
		if len(predicted) == 0 {
			skipped++
			continue
		}

		actual := target.AllNumbers()
		matches := countMatches(predicted, actual)
		accuracy := float64(matches) / float64(model.DrawnCount)

		res := model.ValidationResult{
			Draw:       target.Index,
			Predicted:  predicted,
			Actual:     actual,
			MatchCount: matches,
			Accuracy:   accuracy,
			MetricScores: map[string]float64{
				"accuracy":           accuracy,
				"rank_score":         rankScore(predicted, actual, history),
				"distribution_score": distributionScore(predicted, actual),
			},
		}
		results = append(results, res)

		matchDist[matches]++
		accuracyHist = append(accuracyHist, accuracy)
		sumAccuracy += accuracy
		sumMatches += float64(matches)
		sumRank += res.MetricScores["rank_score"]
		sumDist += res.MetricScores["distribution_score"]
	}

	n := float64(len(results))
	if n == 0 {
		return model.ComprehensiveValidationResult{
			InsufficientData: true,
			Summary:          "insufficient data: no draw in the validation slice could be predicted",
		}
	}

	stats := model.ValidationStatistics{
		TotalValidations:  len(results),
		SkippedDraws:      skipped,
		AverageAccuracy:   sumAccuracy / n,
		AverageMatchCount: sumMatches / n,
		MatchDistribution: matchDist,
		AccuracyHistory:   accuracyHist,
		MetricAverages: map[string]float64{
			"accuracy":           sumAccuracy / n,
			"rank_score":         sumRank / n,
			"distribution_score": sumDist / n,
		},
	}
	stats.Recommendations = recommendations(stats)

	comparison := h.compareStrategies(draws, count, results)
	warning := retrainingWarning(stats, comparison)
	adjustment := recommendAdjustment(stats)

	out := model.ComprehensiveValidationResult{
		Statistics:            stats,
		DetailedResults:       results,
		RecommendedAdjustment: adjustment,
		StrategyComparison:    comparison,
		RetrainingWarning:     warning,
	}
	out.Summary = buildSummary(out)

	log.Printf("[INFO] validate: %d draws validated, avg accuracy %.4f, avg matches %.2f",
		stats.TotalValidations, stats.AverageAccuracy, stats.AverageMatchCount)
	return out
}

// rankScore compares how highly the predicted and actual numbers ranked in
// a plain frequency ordering of the history. Identical average ranks score
// 1; the score decays linearly with the rank gap.
func rankScore(predicted, actual []int, history []model.Draw) float64 {
	freq := make(map[int]int, model.MaxNumber)
	for _, d := range history {
		for _, n := range d.AllNumbers() {
			freq[n]++
		}
	}

	type numberCount struct {
		number, count int
	}
	ordered := make([]numberCount, 0, model.MaxNumber)
	for n := 1; n <= model.MaxNumber; n++ {
		ordered = append(ordered, numberCount{number: n, count: freq[n]})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].number < ordered[j].number
	})

	rank := make(map[int]int, model.MaxNumber)
	for i, nc := range ordered {
		rank[nc.number] = i + 1
	}

	avgRank := func(numbers []int) float64 {
		total := 0
		for _, n := range numbers {
			total += rank[n]
		}
		return float64(total) / float64(len(numbers))
	}

	gap := avgRank(predicted) - avgRank(actual)
	if gap < 0 {
		gap = -gap
	}
	return max(0, 1-gap/float64(model.MaxNumber))
}

// distributionScore measures how closely the predicted set mirrors the
// actual draw's odd/even split and decade-bucket spread.
func distributionScore(predicted, actual []int) float64 {
	oddCount := func(numbers []int) int {
		c := 0
		for _, n := range numbers {
			if n%2 == 1 {
				c++
			}
		}
		return c
	}
	buckets := func(numbers []int) [5]int {
		var b [5]int
		for _, n := range numbers {
			switch {
			case n <= 10:
				b[0]++
			case n <= 20:
				b[1]++
			case n <= 30:
				b[2]++
			case n <= 40:
				b[3]++
			default:
				b[4]++
			}
		}
		return b
	}

	diffScore := func(a, b int) float64 {
		d := a - b
		if d < 0 {
			d = -d
		}
		return 1 - float64(d)/float64(model.DrawnCount)
	}

	oddEven := diffScore(oddCount(predicted), oddCount(actual))

	pb, ab := buckets(predicted), buckets(actual)
	bucketTotal := 0.0
	for i := 0; i < 5; i++ {
		bucketTotal += diffScore(pb[i], ab[i])
	}

	return (oddEven + bucketTotal/5) / 2
}

// compareStrategies pits the model's picks against a seeded random 9-set
// and a pure frequency top-9, hit-rate over the same validation slice.
func (h *Harness) compareStrategies(draws []model.Draw, count int, results []model.ValidationResult) model.StrategyComparison {
	rng := rand.New(rand.NewSource(randomBaselineSeed))

	modelHits := 0
	for _, r := range results {
		if r.MatchCount >= hitThreshold {
			modelHits++
		}
	}

	randomHits, freqHits, freqTried := 0, 0, 0
	for i := count - 1; i >= 0; i-- {
		actual := draws[i].AllNumbers()

		if countMatches(randomNine(rng), actual) >= hitThreshold {
			randomHits++
		}

		history := draws[i+1:]
		if len(history) < model.MinDrawsForAnalysis {
			continue
		}
		freqTried++
		if countMatches(frequencyNine(history), actual) >= hitThreshold {
			freqHits++
		}
	}

	n := float64(len(results))
	cmp := model.StrategyComparison{
		TopK:          model.DrawnCount,
		TopKHitRate:   float64(modelHits) / n,
		RandomHitRate: float64(randomHits) / float64(count),
	}
	if freqTried > 0 {
		cmp.FrequencyHitRate = float64(freqHits) / float64(freqTried)
	}
	cmp.UpliftVsRandom = cmp.TopKHitRate - cmp.RandomHitRate
	cmp.UpliftVsFrequency = cmp.TopKHitRate - cmp.FrequencyHitRate
	return cmp
}

// randomNine draws 9 distinct numbers uniformly.
func randomNine(rng *rand.Rand) []int {
	picked := make(map[int]struct{}, model.DrawnCount)
	out := make([]int, 0, model.DrawnCount)
	for len(out) < model.DrawnCount {
		n := rng.Intn(model.MaxNumber) + 1
		if _, ok := picked[n]; ok {
			continue
		}
		picked[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// frequencyNine is the naive baseline: the 9 numbers drawn most often over
// the history, ties by ascending number.
func frequencyNine(history []model.Draw) []int {
	freq := make(map[int]int, model.MaxNumber)
	for _, d := range history {
		for _, n := range d.AllNumbers() {
			freq[n]++
		}
	}
	numbers := make([]int, 0, model.MaxNumber)
	for n := 1; n <= model.MaxNumber; n++ {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool {
		if freq[numbers[i]] != freq[numbers[j]] {
			return freq[numbers[i]] > freq[numbers[j]]
		}
		return numbers[i] < numbers[j]
	})
	return numbers[:model.DrawnCount]
}

func recommendations(stats model.ValidationStatistics) string {
	var lines []string
	if stats.AverageMatchCount < 3 {
		lines = append(lines, "average match count below 3: consider retuning weights against recent draws")
	}
	if stats.MetricAverages["accuracy"] < 0.3 {
		lines = append(lines, "accuracy below 30%: statistical features may be stale, refresh the bootstrap")
	}
	if stats.MetricAverages["rank_score"] < 0.5 {
		lines = append(lines, "rank alignment below 0.5: predicted numbers diverge from frequency ranks")
	}
	if stats.MetricAverages["distribution_score"] < 0.5 {
		lines = append(lines, "distribution similarity below 0.5: predicted sets are shaped unlike real draws")
	}
	if len(lines) == 0 {
		return "performance within expected bounds, no adjustment recommended"
	}
	return strings.Join(lines, "; ")
}

func recommendAdjustment(stats model.ValidationStatistics) model.ModelAdjustment {
	adj := model.ModelAdjustment{
		WeightAdjustments:    make(map[string]float64),
		ThresholdAdjustments: make(map[string]float64),
	}
	var reasons []string

	if stats.MetricAverages["accuracy"] < 0.3 {
		adj.WeightAdjustments["statistical_weight"] = 0.1
		adj.ExpectedImprovement += 0.05
		reasons = append(reasons, "low accuracy")
	}
	if stats.MetricAverages["rank_score"] < 0.5 {
		adj.WeightAdjustments["ml_weight"] = 0.1
		adj.ExpectedImprovement += 0.03
		reasons = append(reasons, "low rank alignment")
	}
	if stats.MetricAverages["distribution_score"] < 0.5 {
		adj.ThresholdAdjustments["distribution_threshold"] = -0.1
		adj.ExpectedImprovement += 0.02
		reasons = append(reasons, "low distribution similarity")
	}
	if stats.AverageMatchCount < 3 {
		adj.ThresholdAdjustments["conservative_threshold"] = 0.1
		reasons = append(reasons, "low match count")
	}
	if adj.ExpectedImprovement > 0.15 {
		adj.ExpectedImprovement = 0.15
	}

	if len(reasons) == 0 {
		adj.Reason = "no adjustment needed"
	} else {
		adj.Reason = strings.Join(reasons, ", ")
	}
	return adj
}

func retrainingWarning(stats model.ValidationStatistics, cmp model.StrategyComparison) model.RetrainingWarning {
	w := model.RetrainingWarning{
		CurrentPerformance:   stats.AverageAccuracy,
		ThresholdPerformance: minAccuracy,
	}
	if stats.AverageAccuracy < minAccuracy {
		w.RetrainingNeeded = true
		w.Recommendations = append(w.Recommendations,
			fmt.Sprintf("accuracy %.4f fell below %.2f", stats.AverageAccuracy, minAccuracy))
	}
	if cmp.UpliftVsRandom < minUpliftVsRandom {
		w.RetrainingNeeded = true
		w.Recommendations = append(w.Recommendations,
			fmt.Sprintf("model hit rate %.4f is below the random baseline %.4f", cmp.TopKHitRate, cmp.RandomHitRate))
	}
	if cmp.UpliftVsFrequency < minUpliftVsFreq {
		w.RetrainingNeeded = true
		w.Recommendations = append(w.Recommendations,
			fmt.Sprintf("model hit rate %.4f trails the frequency baseline %.4f by more than %.2f",
				cmp.TopKHitRate, cmp.FrequencyHitRate, -minUpliftVsFreq))
	}
	if stats.AverageMatchCount < minAverageMatches {
		w.RetrainingNeeded = true
		w.Recommendations = append(w.Recommendations,
			fmt.Sprintf("average match count %.2f fell below %.1f", stats.AverageMatchCount, minAverageMatches))
	}

	if w.RetrainingNeeded {
		w.Message = "model performance degraded, retraining recommended"
	} else {
		w.Message = "model performance within acceptable bounds"
	}
	return w
}

func buildSummary(r model.ComprehensiveValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "validated %d draws (skipped %d): avg accuracy %.4f, avg matches %.2f\n",
		r.Statistics.TotalValidations, r.Statistics.SkippedDraws,
		r.Statistics.AverageAccuracy, r.Statistics.AverageMatchCount)
	fmt.Fprintf(&b, "hit rates (>=%d matches): model %.4f, random %.4f, frequency %.4f\n",
		hitThreshold, r.StrategyComparison.TopKHitRate,
		r.StrategyComparison.RandomHitRate, r.StrategyComparison.FrequencyHitRate)
	fmt.Fprintf(&b, "uplift: vs random %+.4f, vs frequency %+.4f\n",
		r.StrategyComparison.UpliftVsRandom, r.StrategyComparison.UpliftVsFrequency)
	fmt.Fprintf(&b, "recommendations: %s\n", r.Statistics.Recommendations)
	fmt.Fprintf(&b, "retraining: %s", r.RetrainingWarning.Message)
	return b.String()
}

func countMatches(predicted, actual []int) int {
	set := make(map[int]struct{}, len(actual))
	for _, n := range actual {
		set[n] = struct{}{}
	}
	matches := 0
	for _, n := range predicted {
		if _, ok := set[n]; ok {
			matches++
		}
	}
	return matches
}
