package ingest

import (
	"testing"
	"time"

	"github.com/poiesic/canonica/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProvenance_RanksAndNumbersSources(t *testing.T) {
	capturedAt := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	payload, err := BuildProvenance([]WeightingResult{
		weightedResult("Feed item", "https://example.com/feed", 0, 0.70),
		weightedResult("Studio transcript", "s3://captures/transcript", 1, 0.87),
	}, capturedAt, []string{"producer@example.com"}, core.CaptureContextSourceIngestion)
	require.NoError(t, err)

	assert.Equal(t, core.CaptureContextSourceIngestion, payload.CaptureContext)
	assert.Equal(t, "2026-03-14T09:26:53.589793+00:00", payload.IngestionTimestamp)

	require.Len(t, payload.SourcePriorities, 2)
	assert.Equal(t, 1, payload.SourcePriorities[0].Priority)
	assert.Equal(t, "s3://captures/transcript", payload.SourcePriorities[0].SourceURI)
	assert.Equal(t, 0.87, payload.SourcePriorities[0].Weight)
	assert.Equal(t, 2, payload.SourcePriorities[1].Priority)
	assert.Equal(t, "https://example.com/feed", payload.SourcePriorities[1].SourceURI)

	assert.Equal(t, []string{"producer@example.com"}, payload.ReviewerIdentities)
}

func TestBuildProvenance_TieBreaksOnSubmissionOrder(t *testing.T) {
	payload, err := BuildProvenance([]WeightingResult{
		weightedResult("Later", "s3://captures/later", 3, 0.8),
		weightedResult("Earlier", "s3://captures/earlier", 1, 0.8),
	}, time.Now().UTC(), nil, core.CaptureContextSourceIngestion)
	require.NoError(t, err)

	require.Len(t, payload.SourcePriorities, 2)
	assert.Equal(t, "s3://captures/earlier", payload.SourcePriorities[0].SourceURI)
	assert.Equal(t, "s3://captures/later", payload.SourcePriorities[1].SourceURI)
}

func TestBuildProvenance_NormalizesReviewers(t *testing.T) {
	payload, err := BuildProvenance([]WeightingResult{
		weightedResult("Transcript", "s3://captures/transcript", 0, 0.87),
	}, time.Now().UTC(), []string{
		"  producer@example.com ",
		"",
		"editor@example.com",
		"producer@example.com",
		"   ",
	}, core.CaptureContextSourceIngestion)
	require.NoError(t, err)

	assert.Equal(t, []string{"producer@example.com", "editor@example.com"}, payload.ReviewerIdentities)
}

func TestBuildProvenance_CarriesContentHashes(t *testing.T) {
	result := weightedResult("Transcript", "s3://captures/transcript", 0, 0.87)

	payload, err := BuildProvenance([]WeightingResult{result},
		time.Now().UTC(), nil, core.CaptureContextSourceIngestion)
	require.NoError(t, err)

	require.Len(t, payload.SourcePriorities, 1)
	assert.Equal(t, result.Source.ContentHash, payload.SourcePriorities[0].ContentHash)
	assert.Equal(t, core.SourceTypeTranscript, payload.SourcePriorities[0].SourceType)
}

func TestBuildProvenance_Invalid(t *testing.T) {
	t.Run("empty results", func(t *testing.T) {
		_, err := BuildProvenance(nil, time.Now().UTC(), nil, core.CaptureContextSourceIngestion)
		assert.ErrorIs(t, err, ErrEmptySourceSet)
	})

	t.Run("zero timestamp", func(t *testing.T) {
		_, err := BuildProvenance([]WeightingResult{
			weightedResult("Transcript", "s3://captures/transcript", 0, 0.87),
		}, time.Time{}, nil, core.CaptureContextSourceIngestion)
		assert.ErrorIs(t, err, ErrZeroTimestamp)
	})
}
