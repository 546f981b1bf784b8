package ingest

import (
	"testing"

	"github.com/poiesic/canonica/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizedSource(sourceType core.SourceType, uri string, orderIndex int, quality, freshness, reliability float64) NormalizedSource {
	return NormalizedSource{
		Input: RawSourceInput{
			SourceType: sourceType,
			SourceURI:  uri,
			OrderIndex: orderIndex,
		},
		Title:       "Source " + uri,
		ContentHash: core.ContentHash(uri),
		Quality:     quality,
		Freshness:   freshness,
		Reliability: reliability,
	}
}

func TestComputeWeights_DefaultCoefficients(t *testing.T) {
	strategy := NewWeightedAverageStrategy()

	results, err := strategy.ComputeWeights([]NormalizedSource{
		normalizedSource(core.SourceTypeTranscript, "s3://a", 0, 0.9, 0.8, 0.9),
	}, DefaultWeightingConfig())
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 0.9*0.5 + 0.8*0.3 + 0.9*0.2
	assert.InDelta(t, 0.87, results[0].Weight, 1e-9)
}

func TestComputeWeights_ClampsToUnitInterval(t *testing.T) {
	strategy := NewWeightedAverageStrategy()

	results, err := strategy.ComputeWeights([]NormalizedSource{
		normalizedSource(core.SourceTypeTranscript, "s3://a", 0, 1.0, 1.0, 1.0),
	}, SeriesWeightingConfig{
		QualityCoefficient:     3.0,
		FreshnessCoefficient:   0.3,
		ReliabilityCoefficient: 0.2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 1.0, results[0].Weight)
	assert.InDelta(t, 3.5, results[0].Factors["raw_weight"].(float64), 1e-9)
}

func TestComputeWeights_RecordsFactors(t *testing.T) {
	strategy := NewWeightedAverageStrategy()

	results, err := strategy.ComputeWeights([]NormalizedSource{
		normalizedSource(core.SourceTypeRSS, "https://feed", 0, 0.6, 1.0, 0.5),
	}, DefaultWeightingConfig())
	require.NoError(t, err)
	require.Len(t, results, 1)

	factors := results[0].Factors
	assert.Equal(t, 0.6, factors["quality_score"])
	assert.Equal(t, 1.0, factors["freshness_score"])
	assert.Equal(t, 0.5, factors["reliability_score"])
	assert.Equal(t, DefaultQualityCoefficient, factors["quality_coefficient"])
	assert.Equal(t, DefaultFreshnessCoefficient, factors["freshness_coefficient"])
	assert.Equal(t, DefaultReliabilityCoefficient, factors["reliability_coefficient"])
	assert.InDelta(t, 0.7, factors["raw_weight"].(float64), 1e-9)
}

func TestComputeWeights_PreservesInputOrder(t *testing.T) {
	strategy := NewWeightedAverageStrategy()

	results, err := strategy.ComputeWeights([]NormalizedSource{
		normalizedSource(core.SourceTypeRSS, "https://feed", 0, 0.6, 1.0, 0.5),
		normalizedSource(core.SourceTypeTranscript, "s3://a", 1, 0.9, 0.8, 0.9),
	}, DefaultWeightingConfig())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "https://feed", results[0].Source.Input.SourceURI)
	assert.Equal(t, "s3://a", results[1].Source.Input.SourceURI)
	assert.Greater(t, results[1].Weight, results[0].Weight)
}
