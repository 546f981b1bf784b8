package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := core.NewID()
	require.NoError(t, err)
	return id
}

func TestMarshalUnmarshalCanonicalEpisode(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		episode *core.CanonicalEpisode
	}{
		{
			name: "minimal episode",
			episode: &core.CanonicalEpisode{
				Id:              newTestID(t),
				SeriesProfileId: newTestID(t),
				TeiHeaderId:     newTestID(t),
				Title:           "Weekly Deep Dive",
				TeiXML:          "<TEI/>",
				Status:          core.EpisodeStatusDraft,
				ApprovalState:   core.ApprovalStateDraft,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
		{
			name: "unicode title",
			episode: &core.CanonicalEpisode{
				Id:              newTestID(t),
				SeriesProfileId: newTestID(t),
				TeiHeaderId:     newTestID(t),
				Title:           "Épisode 12 — 世界",
				TeiXML:          "<TEI>body</TEI>",
				Status:          core.EpisodeStatusPublished,
				ApprovalState:   core.ApprovalStateApproved,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
		{
			name: "sentinel text value",
			episode: &core.CanonicalEpisode{
				Id:              newTestID(t),
				SeriesProfileId: newTestID(t),
				TeiHeaderId:     newTestID(t),
				Title:           "Compressed",
				TeiXML:          CompressedTextSentinel,
				Status:          core.EpisodeStatusDraft,
				ApprovalState:   core.ApprovalStateDraft,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCanonicalEpisode(tt.episode)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCanonicalEpisode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.episode, decoded)
		})
	}
}

func TestMarshalUnmarshalSourceDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	document := &core.SourceDocument{
		Id:                 newTestID(t),
		IngestionJobId:     newTestID(t),
		CanonicalEpisodeId: newTestID(t),
		SourceType:         core.SourceTypeTranscript,
		SourceURI:          "s3://captures/ep-12/transcript.txt",
		Weight:             0.87,
		ContentHash:        core.ContentHash("transcript body"),
		Metadata: map[string]any{
			"title":    "Studio transcript",
			"language": "en",
		},
		CreatedAt: now,
	}

	data := MarshalSourceDocument(document)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalSourceDocument(data)
	require.NoError(t, err)
	assert.Equal(t, document, decoded)
}

func TestUnmarshalSeriesProfile_Invalid(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := &core.SeriesProfile{
		Id:        newTestID(t),
		Slug:      "deep-dive",
		Title:     "Deep Dive",
		CreatedAt: now,
		UpdatedAt: now,
	}
	data := MarshalSeriesProfile(profile)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", data[:len(data)/3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSeriesProfile(tt.data)
			assert.Error(t, err)
		})
	}
}
