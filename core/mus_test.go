package core

import (
	"reflect"
	"testing"
	"time"
)

func microNow() time.Time {
	return time.UnixMicro(time.Now().UnixMicro()).UTC()
}

func TestSeriesProfileMUS_RoundTrip(t *testing.T) {
	now := microNow()
	profile := SeriesProfile{
		Id:          mustID(t),
		Slug:        "deep-dive-ai",
		Title:       "Deep Dive AI",
		Description: "Weekly analysis of applied machine learning.",
		Configuration: map[string]any{
			"weighting": map[string]any{
				"quality_coefficient":   0.6,
				"freshness_coefficient": 0.25,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	buf := make([]byte, SeriesProfileMUS.Size(profile))
	n := SeriesProfileMUS.Marshal(profile, buf)
	if n != len(buf) {
		t.Fatalf("Marshal() wrote %d bytes, Size() reported %d", n, len(buf))
	}

	got, n, err := SeriesProfileMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(buf) {
		t.Errorf("Unmarshal() consumed %d bytes, want %d", n, len(buf))
	}
	if !reflect.DeepEqual(got, profile) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, profile)
	}
}

func TestTeiHeaderMUS_RoundTrip(t *testing.T) {
	now := microNow()
	header := TeiHeader{
		Id:    mustID(t),
		Title: "Episode 42",
		Payload: map[string]any{
			"fileDesc": map[string]any{"title": "Episode 42"},
			"canonica_provenance": map[string]any{
				"capture_context": "source_ingestion",
			},
		},
		RawXML:    "<TEI><teiHeader/></TEI>",
		CreatedAt: now,
		UpdatedAt: now,
	}

	buf := make([]byte, TeiHeaderMUS.Size(header))
	TeiHeaderMUS.Marshal(header, buf)

	got, _, err := TeiHeaderMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, header) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, header)
	}
}

func TestCanonicalEpisodeMUS_RoundTrip(t *testing.T) {
	now := microNow()
	episode := CanonicalEpisode{
		Id:              mustID(t),
		SeriesProfileId: mustID(t),
		TeiHeaderId:     mustID(t),
		Title:           "Episode 42",
		TeiXML:          "<TEI><teiHeader/><text/></TEI>",
		Status:          EpisodeStatusDraft,
		ApprovalState:   ApprovalStateDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	buf := make([]byte, CanonicalEpisodeMUS.Size(episode))
	CanonicalEpisodeMUS.Marshal(episode, buf)

	got, _, err := CanonicalEpisodeMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, episode) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, episode)
	}
}

func TestIngestionJobMUS_RoundTrip_ZeroFields(t *testing.T) {
	now := microNow()
	// TargetEpisodeId nil, StartedAt/CompletedAt zero: a failed job that
	// never produced an episode must round-trip faithfully.
	job := IngestionJob{
		Id:              mustID(t),
		SeriesProfileId: mustID(t),
		Status:          IngestionStatusFailed,
		RequestedAt:     now,
		ErrorMessage:    "normalization failed for source 'memo://sources/rss-9'",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	buf := make([]byte, IngestionJobMUS.Size(job))
	IngestionJobMUS.Marshal(job, buf)

	got, _, err := IngestionJobMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.StartedAt.IsZero() || !got.CompletedAt.IsZero() {
		t.Errorf("zero timestamps did not survive round trip: %+v", got)
	}
	if got.TargetEpisodeId != job.TargetEpisodeId {
		t.Errorf("TargetEpisodeId = %v, want nil UUID", got.TargetEpisodeId)
	}
	if got.ErrorMessage != job.ErrorMessage {
		t.Errorf("ErrorMessage = %q, want %q", got.ErrorMessage, job.ErrorMessage)
	}
}

func TestSourceDocumentMUS_RoundTrip(t *testing.T) {
	now := microNow()
	document := SourceDocument{
		Id:                 mustID(t),
		IngestionJobId:     mustID(t),
		CanonicalEpisodeId: mustID(t),
		SourceType:         SourceTypeTranscript,
		SourceURI:          "memo://sources/transcript-1",
		Weight:             0.87,
		ContentHash:        ContentHash("full transcript body"),
		Metadata: map[string]any{
			"title": "Episode 42",
			"conflict_resolution": map[string]any{
				"preferred_sources": []any{"memo://sources/transcript-1"},
			},
		},
		CreatedAt: now,
	}

	buf := make([]byte, SourceDocumentMUS.Size(document))
	n := SourceDocumentMUS.Marshal(document, buf)
	if n != len(buf) {
		t.Fatalf("Marshal() wrote %d bytes, Size() reported %d", n, len(buf))
	}

	got, _, err := SourceDocumentMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Weight != document.Weight {
		t.Errorf("Weight = %v, want %v", got.Weight, document.Weight)
	}
	if !reflect.DeepEqual(got, document) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, document)
	}
}

func TestApprovalEventMUS_RoundTrip(t *testing.T) {
	now := microNow()
	event := ApprovalEvent{
		Id:        mustID(t),
		EpisodeId: mustID(t),
		Actor:     "producer@example.com",
		FromState: "",
		ToState:   ApprovalStateDraft,
		Note:      "Initial ingestion.",
		Payload: map[string]any{
			"sources": []any{"memo://sources/transcript-1", "memo://sources/rss-2"},
		},
		CreatedAt: now,
	}

	buf := make([]byte, ApprovalEventMUS.Size(event))
	ApprovalEventMUS.Marshal(event, buf)

	got, _, err := ApprovalEventMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.FromState != "" {
		t.Errorf("FromState = %q, want empty", got.FromState)
	}
	if !reflect.DeepEqual(got, event) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, event)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	now := microNow()
	episode := CanonicalEpisode{
		Id:              mustID(t),
		SeriesProfileId: mustID(t),
		TeiHeaderId:     mustID(t),
		Title:           "Episode 42",
		TeiXML:          "<TEI/>",
		Status:          EpisodeStatusDraft,
		ApprovalState:   ApprovalStateDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	buf := make([]byte, CanonicalEpisodeMUS.Size(episode))
	CanonicalEpisodeMUS.Marshal(episode, buf)

	_, _, err := CanonicalEpisodeMUS.Unmarshal(buf[:len(buf)/2])
	if err == nil {
		t.Fatal("Unmarshal() on truncated data succeeded, want error")
	}
}
