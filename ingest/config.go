package ingest

import (
	"fmt"
	"math"
)

// WeightingConfigKey is the series configuration section holding
// weighting coefficients.
const WeightingConfigKey = "weighting"

// Default weighting coefficients applied when a series profile does not
// override them.
const (
	DefaultQualityCoefficient     = 0.5
	DefaultFreshnessCoefficient   = 0.3
	DefaultReliabilityCoefficient = 0.2
)

// SeriesWeightingConfig carries the coefficient set used to combine
// normalized source scores into a single weight.
type SeriesWeightingConfig struct {
	QualityCoefficient     float64
	FreshnessCoefficient   float64
	ReliabilityCoefficient float64
}

// DefaultWeightingConfig returns the coefficients used when a series does
// not configure weighting.
func DefaultWeightingConfig() SeriesWeightingConfig {
	return SeriesWeightingConfig{
		QualityCoefficient:     DefaultQualityCoefficient,
		FreshnessCoefficient:   DefaultFreshnessCoefficient,
		ReliabilityCoefficient: DefaultReliabilityCoefficient,
	}
}

// ParseWeightingConfig extracts weighting coefficients from a series
// configuration map. A missing section or missing keys fall back to
// defaults. A section that is not a map, or coefficients that are
// non-numeric, negative, or non-finite, fail with ErrConfiguration.
func ParseWeightingConfig(configuration map[string]any) (SeriesWeightingConfig, error) {
	config := DefaultWeightingConfig()
	raw, ok := configuration[WeightingConfigKey]
	if !ok || raw == nil {
		return config, nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return SeriesWeightingConfig{}, fmt.Errorf("%w: %s section must be a map, got %T",
			ErrConfiguration, WeightingConfigKey, raw)
	}
	if err := parseCoefficient(section, "quality_coefficient", &config.QualityCoefficient); err != nil {
		return SeriesWeightingConfig{}, err
	}
	if err := parseCoefficient(section, "freshness_coefficient", &config.FreshnessCoefficient); err != nil {
		return SeriesWeightingConfig{}, err
	}
	if err := parseCoefficient(section, "reliability_coefficient", &config.ReliabilityCoefficient); err != nil {
		return SeriesWeightingConfig{}, err
	}
	return config, nil
}

func parseCoefficient(section map[string]any, key string, out *float64) error {
	raw, ok := section[key]
	if !ok {
		return nil
	}
	value, err := numericValue(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfiguration, key, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrConfiguration, key)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrConfiguration, key, value)
	}
	*out = value
	return nil
}

func numericValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value must be numeric, got %T", raw)
	}
}
