package model

// ValidationResult is the outcome of predicting a single historical draw
// from strictly earlier data.
type ValidationResult struct {
	Draw         int                `json:"draw"`
	Predicted    []int              `json:"predicted"`
	Actual       []int              `json:"actual"`
	MatchCount   int                `json:"match_count"`
	Accuracy     float64            `json:"accuracy"`
	MetricScores map[string]float64 `json:"metric_scores"`
}

// ValidationStatistics aggregates per-draw validation results.
type ValidationStatistics struct {
	TotalValidations  int                `json:"total_validations"`
	SkippedDraws      int                `json:"skipped_draws"`
	AverageAccuracy   float64            `json:"average_accuracy"`
	AverageMatchCount float64            `json:"average_match_count"`
	MatchDistribution map[int]int        `json:"match_distribution"`
	AccuracyHistory   []float64          `json:"accuracy_history"`
	MetricAverages    map[string]float64 `json:"metric_averages"`
	Recommendations   string             `json:"recommendations"`
}

// StrategyComparison contrasts the engine's top-K strategy against a seeded
// random baseline and a pure-frequency baseline over the same slice.
type StrategyComparison struct {
	TopK              int     `json:"top_k"`
	TopKHitRate       float64 `json:"top_k_hit_rate"`
	RandomHitRate     float64 `json:"random_hit_rate"`
	FrequencyHitRate  float64 `json:"frequency_hit_rate"`
	UpliftVsRandom    float64 `json:"uplift_vs_random"`
	UpliftVsFrequency float64 `json:"uplift_vs_frequency"`
}

// RetrainingWarning flags model performance decay.
type RetrainingWarning struct {
	RetrainingNeeded     bool     `json:"retraining_needed"`
	Message              string   `json:"message"`
	CurrentPerformance   float64  `json:"current_performance"`
	ThresholdPerformance float64  `json:"threshold_performance"`
	Recommendations      []string `json:"recommendations"`
}

// ModelAdjustment carries suggested parameter tweaks derived from a
// validation run.
type ModelAdjustment struct {
	WeightAdjustments    map[string]float64 `json:"weight_adjustments"`
	ThresholdAdjustments map[string]float64 `json:"threshold_adjustments"`
	Reason               string             `json:"reason"`
	ExpectedImprovement  float64            `json:"expected_improvement"`
}

// BacktestMetrics is the fixed-use-case backtest output: buying the model's
// top-K set every draw over a trailing window.
type BacktestMetrics struct {
	TestPeriod        int         `json:"test_period"`
	TopK              int         `json:"top_k"`
	AverageMatchCount float64     `json:"average_match_count"`
	HitRate           float64     `json:"hit_rate"`
	MatchHistory      []int       `json:"match_history"`
	MatchDistribution map[int]int `json:"match_distribution"`
	Summary           string      `json:"summary"`
}

// ComprehensiveValidationResult bundles everything a validation run produces.
// InsufficientData is set instead of an error when the archive is too small.
type ComprehensiveValidationResult struct {
	InsufficientData      bool                 `json:"insufficient_data"`
	Statistics            ValidationStatistics `json:"statistics"`
	DetailedResults       []ValidationResult   `json:"detailed_results"`
	RecommendedAdjustment ModelAdjustment      `json:"recommended_adjustment"`
	StrategyComparison    StrategyComparison   `json:"strategy_comparison"`
	RetrainingWarning     RetrainingWarning    `json:"retraining_warning"`
	Backtest              *BacktestMetrics     `json:"backtest,omitempty"`
	Summary               string               `json:"summary"`
}

// TuningOutcome is the result of iteratively tuning weights against one
// target draw. Predictions are always 9 numbers; CapReached marks a run that
// exhausted the iteration budget without hitting the match target.
type TuningOutcome struct {
	Draw       int          `json:"draw"`
	Weights    WeightVector `json:"weights"`
	Predicted  []int        `json:"predicted"`
	Actual     []int        `json:"actual"`
	MatchCount int          `json:"match_count"`
	Iterations int          `json:"iterations"`
	CapReached bool         `json:"cap_reached"`
}
