package model

// FeatureVector holds the 13 per-number signals extracted from a draw window.
// All values are bounded to roughly [0,1]; TrendAnalysis may sit below zero
// before the scorer remaps it.
type FeatureVector struct {
	RecentFrequency             float64 `json:"recent_frequency"`
	OverallFrequency            float64 `json:"overall_frequency"`
	TimeWeightedFrequency       float64 `json:"time_weighted_frequency"`
	IntervalProbability         float64 `json:"interval_probability"`
	TrendAnalysis               float64 `json:"trend_analysis"`
	PeriodicPattern             float64 `json:"periodic_pattern"`
	ConsecutivePattern          float64 `json:"consecutive_pattern"`
	CorrelationAnalysis         float64 `json:"correlation_analysis"`
	StatisticalOutlier          float64 `json:"statistical_outlier"`
	TimeSeriesChangeRate        float64 `json:"time_series_change_rate"`
	RecentIntervalScore         float64 `json:"recent_interval_score"`
	WeightedAppearanceFrequency float64 `json:"weighted_appearance_frequency"`
	VarianceBasedProbability    float64 `json:"variance_based_probability"`

	// RecentAppearancePenalty is zero or negative. It is added to the
	// weighted sum before normalization, outside the weight table.
	RecentAppearancePenalty float64 `json:"recent_appearance_penalty"`
}

// ThresholdSet holds the learned success thresholds for the three features
// that drive the success-pattern bonus.
type ThresholdSet struct {
	RecentFrequency       float64 `json:"recent_frequency"`
	TimeWeightedFrequency float64 `json:"time_weighted_frequency"`
	TrendAnalysis         float64 `json:"trend_analysis"`
}

// WeightVector is the full set of scoring parameters: one weight per feature,
// a bonus multiplier, and three tiers of success thresholds. Callers treat a
// WeightVector as immutable; learners always return a fresh value.
type WeightVector struct {
	Overall            float64 `json:"overall"`
	Recent             float64 `json:"recent"`
	TimeWeighted       float64 `json:"time_weighted"`
	Interval           float64 `json:"interval"`
	Trend              float64 `json:"trend"`
	Periodic           float64 `json:"periodic"`
	Consecutive        float64 `json:"consecutive"`
	Correlation        float64 `json:"correlation"`
	Outlier            float64 `json:"outlier"`
	ChangeRate         float64 `json:"change_rate"`
	RecentInterval     float64 `json:"recent_interval"`
	WeightedAppearance float64 `json:"weighted_appearance"`
	Variance           float64 `json:"variance"`

	BonusMultiplier float64 `json:"bonus_multiplier"`

	Normal   ThresholdSet `json:"normal_thresholds"`
	High     ThresholdSet `json:"high_thresholds"`
	VeryHigh ThresholdSet `json:"very_high_thresholds"`
}

// Sum returns the total of the 13 feature weights.
func (w *WeightVector) Sum() float64 {
	return w.Overall + w.Recent + w.TimeWeighted + w.Interval + w.Trend +
		w.Periodic + w.Consecutive + w.Correlation + w.Outlier +
		w.ChangeRate + w.RecentInterval + w.WeightedAppearance + w.Variance
}

// ScoredNumber pairs a lottery number with its composite probability score.
type ScoredNumber struct {
	Number      int     `json:"number"`
	Probability float64 `json:"probability"`
}
