package model

// PatternRange is the statistical envelope of historical 7-number winning
// combinations. All bounds are inclusive. Sum, average and gap bounds come
// from mean +/- 2 standard deviations; count and spread bounds are the
// observed minima and maxima. Recomputed on demand, never persisted.
type PatternRange struct {
	MinSum int `json:"min_sum"`
	MaxSum int `json:"max_sum"`

	MinAverage float64 `json:"min_average"`
	MaxAverage float64 `json:"max_average"`

	// Bounds for a combination's smallest and largest number.
	MinValue    int `json:"min_value"`
	MaxValue    int `json:"max_value"`
	MinMaxValue int `json:"min_max_value"`
	MaxMaxValue int `json:"max_max_value"`

	// Low numbers are 1..22, high numbers 23..44.
	MinLowCount  int `json:"min_low_count"`
	MaxLowCount  int `json:"max_low_count"`
	MinHighCount int `json:"min_high_count"`
	MaxHighCount int `json:"max_high_count"`

	MinOddCount  int `json:"min_odd_count"`
	MaxOddCount  int `json:"max_odd_count"`
	MinEvenCount int `json:"min_even_count"`
	MaxEvenCount int `json:"max_even_count"`

	// Buckets: 1-10, 11-20, 21-30, 31-40, 41-44.
	MinRangeCounts [5]int `json:"min_range_counts"`
	MaxRangeCounts [5]int `json:"max_range_counts"`

	MinConsecutive int `json:"min_consecutive"`
	MaxConsecutive int `json:"max_consecutive"`

	MinAverageGap float64 `json:"min_average_gap"`
	MaxAverageGap float64 `json:"max_average_gap"`

	MinSpread int `json:"min_spread"`
	MaxSpread int `json:"max_spread"`

	MinPrimeCount int `json:"min_prime_count"`
	MaxPrimeCount int `json:"max_prime_count"`

	MinDigitVariety int `json:"min_digit_variety"`
	MaxDigitVariety int `json:"max_digit_variety"`
}
