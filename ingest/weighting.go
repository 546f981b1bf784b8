package ingest

import "math"

// WeightedAverageStrategy combines normalized source scores into a single
// weight using per-series coefficients, clamping the result to [0, 1].
type WeightedAverageStrategy struct{}

// NewWeightedAverageStrategy returns the default weighting strategy.
func NewWeightedAverageStrategy() *WeightedAverageStrategy {
	return &WeightedAverageStrategy{}
}

// ComputeWeights implements WeightingStrategy. Results preserve the order
// of the input sources.
func (s *WeightedAverageStrategy) ComputeWeights(sources []NormalizedSource, config SeriesWeightingConfig) ([]WeightingResult, error) {
	results := make([]WeightingResult, 0, len(sources))
	for _, source := range sources {
		raw := source.Quality*config.QualityCoefficient +
			source.Freshness*config.FreshnessCoefficient +
			source.Reliability*config.ReliabilityCoefficient
		results = append(results, WeightingResult{
			Source: source,
			Weight: math.Max(0, math.Min(1, raw)),
			Factors: map[string]any{
				"quality_score":           source.Quality,
				"freshness_score":         source.Freshness,
				"reliability_score":       source.Reliability,
				"quality_coefficient":     config.QualityCoefficient,
				"freshness_coefficient":   config.FreshnessCoefficient,
				"reliability_coefficient": config.ReliabilityCoefficient,
				"raw_weight":              raw,
			},
		})
	}
	return results, nil
}
