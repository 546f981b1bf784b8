package verify

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_AuditAfterIngestion runs the real pipeline against real
// storage and expects the audit to come back clean.
func TestIntegration_AuditAfterIngestion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	repos := setupAuditStorage(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := &core.SeriesProfile{
		Id:        auditID(t),
		Slug:      "deep-currents",
		Title:     "Deep Currents",
		CreatedAt: now,
		UpdatedAt: now,
	}
	uow, err := repos.Factory.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback()
	require.NoError(t, uow.Series().Add(profile))
	require.NoError(t, uow.Commit())

	pipeline, err := ingest.NewPipeline(repos.Factory, ingest.WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	for i := 1; i <= 3; i++ {
		request := ingest.MultiSourceRequest{
			SeriesSlug:  "deep-currents",
			RequestedBy: "producer@example.com",
			RawSources: []ingest.RawSourceInput{
				{
					SourceType:  core.SourceTypeTranscript,
					SourceURI:   fmt.Sprintf("s3://episodic/sources/ep%d/transcript.vtt", i),
					Content:     "Tidal turbines hum beneath the strait.",
					Metadata:    map[string]any{"title": fmt.Sprintf("Episode %d", i)},
					SubmittedBy: "producer@example.com",
					OrderIndex:  0,
				},
				{
					SourceType: core.SourceTypeRSS,
					SourceURI:  fmt.Sprintf("rss://feeds.example.com/deep-currents/ep%d", i),
					Content:    "Episode notes from the feed.",
					Metadata:   map[string]any{"title": fmt.Sprintf("Feed %d", i)},
					OrderIndex: 1,
				},
			},
		}
		_, err := pipeline.Ingest(ctx, profile, request)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	auditor := NewAuditor(Stores{
		Episodes: repos.Episodes,
		Headers:  repos.Headers,
		Jobs:     repos.Jobs,
		Sources:  repos.Sources,
	}, &Config{BatchSize: 2, ReportInterval: 2}, &buf)

	report, err := auditor.Run(ctx)
	require.NoError(t, err)

	assert.True(t, report.Clean(), "violations: %v", report.Violations)
	assert.Equal(t, 3, report.EpisodesScanned)
	assert.Equal(t, 6, report.SourcesScanned)
	assert.Contains(t, buf.String(), "Audit complete.")
}

// TestIntegration_AuditFlagsTamperedProvenance persists a header whose
// provenance priorities are misnumbered, which write-time checks do not
// inspect, and expects the audit to flag the episode.
func TestIntegration_AuditFlagsTamperedProvenance(t *testing.T) {
	ctx := context.Background()
	repos := setupAuditStorage(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	uow, err := repos.Factory.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback()

	profile := &core.SeriesProfile{
		Id:        auditID(t),
		Slug:      "deep-currents",
		Title:     "Deep Currents",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, uow.Series().Add(profile))
	require.NoError(t, uow.Flush())

	header := headerWithProvenance(t, auditProvenance(
		core.SourcePriority{Priority: 1, SourceURI: "a", SourceType: core.SourceTypeTranscript, Weight: 0.9, ContentHash: "aa"},
		core.SourcePriority{Priority: 3, SourceURI: "b", SourceType: core.SourceTypeRSS, Weight: 0.7, ContentHash: "bb"},
	))
	require.NoError(t, uow.Headers().Add(header))
	require.NoError(t, uow.Flush())

	episode := &core.CanonicalEpisode{
		Id:              auditID(t),
		SeriesProfileId: profile.Id,
		TeiHeaderId:     header.Id,
		Title:           header.Title,
		TeiXML:          header.RawXML,
		Status:          core.EpisodeStatusDraft,
		ApprovalState:   core.ApprovalStateDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, uow.Episodes().Add(episode))
	require.NoError(t, uow.Commit())

	auditor := NewAuditor(Stores{
		Episodes: repos.Episodes,
		Headers:  repos.Headers,
		Jobs:     repos.Jobs,
		Sources:  repos.Sources,
	}, nil, nil)

	report, err := auditor.Run(ctx)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, episode.Id, report.Violations[0].Id)
	assert.Equal(t, CheckPriorityOrdering, report.Violations[0].Check)
	assert.Contains(t, report.Violations[0].Detail, "want 2")
}
