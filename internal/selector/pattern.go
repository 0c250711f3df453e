package selector

import (
	"math"
	"sort"

	"github.com/cailot/cool-runnings/internal/model"
)

// ComputePatternRange profiles every historical 7-number winning set and
// returns the envelope a candidate combination must fall inside. Sum, mean
// and mean-gap bounds are mean +/- 2 standard deviations; count and spread
// bounds are the observed extremes. Returns nil when the archive is too
// small to profile.
func ComputePatternRange(draws []model.Draw) *model.PatternRange {
	if len(draws) < model.MinDrawsForAnalysis {
		return nil
	}

	var (
		sums, minValues, maxValues       []int
		lowCounts, highCounts            []int
		oddCounts, evenCounts            []int
		consecutives, spreads            []int
		primeCounts, digitVarieties      []int
		averages, averageGaps            []float64
		bucketCounts                     [5][]int
	)

	for _, d := range draws {
		nums := make([]int, model.WinningCount)
		copy(nums, d.Winning[:])
		sort.Ints(nums)

		sum := 0
		for _, n := range nums {
			sum += n
		}
		sums = append(sums, sum)
		averages = append(averages, float64(sum)/float64(len(nums)))
		minValues = append(minValues, nums[0])
		maxValues = append(maxValues, nums[len(nums)-1])

		stats := combinationStats(nums)
		lowCounts = append(lowCounts, stats.low)
		highCounts = append(highCounts, stats.high)
		oddCounts = append(oddCounts, stats.odd)
		evenCounts = append(evenCounts, stats.even)
		for i := 0; i < 5; i++ {
			bucketCounts[i] = append(bucketCounts[i], stats.buckets[i])
		}
		consecutives = append(consecutives, stats.consecutive)
		averageGaps = append(averageGaps, stats.averageGap)
		spreads = append(spreads, nums[len(nums)-1]-nums[0])
		primeCounts = append(primeCounts, stats.primes)
		digitVarieties = append(digitVarieties, stats.digitVariety)
	}

	// Safe defaults first; observed bounds overwrite them below.
	pr := &model.PatternRange{
		MaxLowCount: 7, MaxHighCount: 7,
		MaxOddCount: 7, MaxEvenCount: 7,
		MaxRangeCounts:  [5]int{7, 7, 7, 7, 7},
		MaxConsecutive:  7,
		MaxAverageGap:   float64(model.MaxNumber),
		MaxSpread:       model.MaxNumber,
		MaxPrimeCount:   7,
		MinDigitVariety: 1, MaxDigitVariety: 7,
	}

	sumMean, sumStd := meanStdInt(sums)
	pr.MinSum = int(math.Max(0, sumMean-2*sumStd))
	pr.MaxSum = int(sumMean + 2*sumStd)

	avgMean, avgStd := meanStd(averages)
	pr.MinAverage = avgMean - 2*avgStd
	pr.MaxAverage = avgMean + 2*avgStd

	pr.MinValue, pr.MaxValue = minMaxInt(minValues)
	pr.MinMaxValue, pr.MaxMaxValue = minMaxInt(maxValues)
	pr.MinLowCount, pr.MaxLowCount = minMaxInt(lowCounts)
	pr.MinHighCount, pr.MaxHighCount = minMaxInt(highCounts)
	pr.MinOddCount, pr.MaxOddCount = minMaxInt(oddCounts)
	pr.MinEvenCount, pr.MaxEvenCount = minMaxInt(evenCounts)
	for i := 0; i < 5; i++ {
		pr.MinRangeCounts[i], pr.MaxRangeCounts[i] = minMaxInt(bucketCounts[i])
	}
	pr.MinConsecutive, pr.MaxConsecutive = minMaxInt(consecutives)

	gapMean, gapStd := meanStd(averageGaps)
	pr.MinAverageGap = math.Max(0, gapMean-2*gapStd)
	pr.MaxAverageGap = math.Min(float64(model.MaxNumber), gapMean+2*gapStd)

	pr.MinSpread, pr.MaxSpread = minMaxInt(spreads)
	pr.MinPrimeCount, pr.MaxPrimeCount = minMaxInt(primeCounts)
	pr.MinDigitVariety, pr.MaxDigitVariety = minMaxInt(digitVarieties)

	return pr
}

// InRange reports whether a 7-number combination satisfies every bound of
// the envelope. Any other size fails outright.
func InRange(combination []int, pr *model.PatternRange) bool {
	if len(combination) != model.WinningCount || pr == nil {
		return false
	}

	nums := make([]int, len(combination))
	copy(nums, combination)
	sort.Ints(nums)

	sum := 0
	for _, n := range nums {
		sum += n
	}
	average := float64(sum) / float64(len(nums))
	lowest, highest := nums[0], nums[len(nums)-1]

	if sum < pr.MinSum || sum > pr.MaxSum ||
		average < pr.MinAverage || average > pr.MaxAverage ||
		lowest < pr.MinValue || lowest > pr.MaxValue ||
		highest < pr.MinMaxValue || highest > pr.MaxMaxValue {
		return false
	}

	stats := combinationStats(nums)
	if stats.low < pr.MinLowCount || stats.low > pr.MaxLowCount ||
		stats.high < pr.MinHighCount || stats.high > pr.MaxHighCount {
		return false
	}
	if stats.odd < pr.MinOddCount || stats.odd > pr.MaxOddCount ||
		stats.even < pr.MinEvenCount || stats.even > pr.MaxEvenCount {
		return false
	}
	for i := 0; i < 5; i++ {
		if stats.buckets[i] < pr.MinRangeCounts[i] || stats.buckets[i] > pr.MaxRangeCounts[i] {
			return false
		}
	}
	if stats.consecutive < pr.MinConsecutive || stats.consecutive > pr.MaxConsecutive {
		return false
	}
	if stats.averageGap < pr.MinAverageGap || stats.averageGap > pr.MaxAverageGap {
		return false
	}
	spread := highest - lowest
	if spread < pr.MinSpread || spread > pr.MaxSpread {
		return false
	}
	if stats.primes < pr.MinPrimeCount || stats.primes > pr.MaxPrimeCount {
		return false
	}
	if stats.digitVariety < pr.MinDigitVariety || stats.digitVariety > pr.MaxDigitVariety {
		return false
	}
	return true
}

type comboStats struct {
	low, high    int
	odd, even    int
	buckets      [5]int
	consecutive  int
	averageGap   float64
	primes       int
	digitVariety int
}

// combinationStats expects nums sorted ascending.
func combinationStats(nums []int) comboStats {
	var s comboStats
	digits := make(map[int]struct{})
	for _, n := range nums {
		if n <= 22 {
			s.low++
		} else {
			s.high++
		}
		if n%2 == 1 {
			s.odd++
		} else {
			s.even++
		}
		switch {
		case n <= 10:
			s.buckets[0]++
		case n <= 20:
			s.buckets[1]++
		case n <= 30:
			s.buckets[2]++
		case n <= 40:
			s.buckets[3]++
		default:
			s.buckets[4]++
		}
		if isPrime(n) {
			s.primes++
		}
		digits[n%10] = struct{}{}
	}
	s.consecutive = countConsecutive(nums)
	s.averageGap = averageGap(nums)
	s.digitVariety = len(digits)
	return s
}

// countConsecutive returns the longest run of adjacent numbers in a sorted
// slice; 0 for fewer than two elements.
func countConsecutive(sorted []int) int {
	if len(sorted) < 2 {
		return 0
	}
	maxRun, run := 0, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			run++
		} else {
			if run > maxRun {
				maxRun = run
			}
			run = 1
		}
	}
	if run > maxRun {
		maxRun = run
	}
	return maxRun
}

func averageGap(sorted []int) float64 {
	if len(sorted) < 2 {
		return 0
	}
	total := 0
	for i := 1; i < len(sorted); i++ {
		total += sorted[i] - sorted[i-1]
	}
	return float64(total) / float64(len(sorted)-1)
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func minMaxInt(values []int) (lo, hi int) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func meanStdInt(values []int) (mean, std float64) {
	fs := make([]float64, len(values))
	for i, v := range values {
		fs[i] = float64(v)
	}
	return meanStd(fs)
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
