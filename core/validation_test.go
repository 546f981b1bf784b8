package core

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	return id
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{
			name:    "valid slug",
			slug:    "deep-dive-ai",
			wantErr: nil,
		},
		{
			name:    "single word",
			slug:    "technology",
			wantErr: nil,
		},
		{
			name:    "digits allowed",
			slug:    "season-2-recap",
			wantErr: nil,
		},
		{
			name:    "empty slug",
			slug:    "",
			wantErr: ErrEmptySlug,
		},
		{
			name:    "uppercase rejected",
			slug:    "Deep-Dive",
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "leading hyphen rejected",
			slug:    "-deep-dive",
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "trailing hyphen rejected",
			slug:    "deep-dive-",
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "spaces rejected",
			slug:    "deep dive",
			wantErr: ErrInvalidSlug,
		},
		{
			name:    "too long",
			slug:    strings.Repeat("a", MaxSlugLength+1),
			wantErr: ErrInvalidSlug,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSlug() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		wantErr error
	}{
		{name: "zero", weight: 0, wantErr: nil},
		{name: "one", weight: 1, wantErr: nil},
		{name: "interior", weight: 0.87, wantErr: nil},
		{name: "below range", weight: -0.01, wantErr: ErrWeightOutOfRange},
		{name: "above range", weight: 1.5, wantErr: ErrWeightOutOfRange},
		{name: "nan", weight: math.NaN(), wantErr: ErrWeightOutOfRange},
		{name: "positive infinity", weight: math.Inf(1), wantErr: ErrWeightOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeight(tt.weight)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateWeight(%v) error = %v, want %v", tt.weight, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeriesProfile(t *testing.T) {
	now := time.Now().UTC()
	id := mustID(t)

	tests := []struct {
		name    string
		profile *SeriesProfile
		wantErr error
	}{
		{
			name: "valid profile",
			profile: &SeriesProfile{
				Id:        id,
				Slug:      "deep-dive-ai",
				Title:     "Deep Dive AI",
				CreatedAt: now,
				UpdatedAt: now,
			},
			wantErr: nil,
		},
		{
			name:    "nil profile",
			profile: nil,
			wantErr: ErrInvalidSeriesProfile,
		},
		{
			name: "nil id",
			profile: &SeriesProfile{
				Slug:  "deep-dive-ai",
				Title: "Deep Dive AI",
			},
			wantErr: ErrNilID,
		},
		{
			name: "bad slug",
			profile: &SeriesProfile{
				Id:    id,
				Slug:  "Deep Dive",
				Title: "Deep Dive AI",
			},
			wantErr: ErrInvalidSlug,
		},
		{
			name: "missing title",
			profile: &SeriesProfile{
				Id:   id,
				Slug: "deep-dive-ai",
			},
			wantErr: ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeriesProfile(tt.profile)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSeriesProfile() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !errors.Is(err, ErrInvalidSeriesProfile) {
				t.Errorf("ValidateSeriesProfile() error = %v, want wrapped %v", err, ErrInvalidSeriesProfile)
			}
		})
	}
}

func TestValidateCanonicalEpisode(t *testing.T) {
	id := mustID(t)

	valid := CanonicalEpisode{
		Id:              id,
		SeriesProfileId: mustID(t),
		TeiHeaderId:     mustID(t),
		Title:           "Episode 1",
		TeiXML:          "<TEI/>",
		Status:          EpisodeStatusDraft,
		ApprovalState:   ApprovalStateDraft,
	}

	tests := []struct {
		name    string
		mutate  func(e *CanonicalEpisode)
		wantErr error
	}{
		{
			name:    "valid episode",
			mutate:  func(e *CanonicalEpisode) {},
			wantErr: nil,
		},
		{
			name:    "nil series id",
			mutate:  func(e *CanonicalEpisode) { e.SeriesProfileId = uuid.Nil },
			wantErr: ErrNilID,
		},
		{
			name:    "nil header id",
			mutate:  func(e *CanonicalEpisode) { e.TeiHeaderId = uuid.Nil },
			wantErr: ErrNilID,
		},
		{
			name:    "empty title",
			mutate:  func(e *CanonicalEpisode) { e.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty xml",
			mutate:  func(e *CanonicalEpisode) { e.TeiXML = "" },
			wantErr: ErrInvalidEpisode,
		},
		{
			name:    "unknown status",
			mutate:  func(e *CanonicalEpisode) { e.Status = "galactic" },
			wantErr: ErrInvalidEpisodeStatus,
		},
		{
			name:    "unknown approval state",
			mutate:  func(e *CanonicalEpisode) { e.ApprovalState = "maybe" },
			wantErr: ErrInvalidApprovalState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			episode := valid
			tt.mutate(&episode)
			err := ValidateCanonicalEpisode(&episode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCanonicalEpisode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceDocument(t *testing.T) {
	valid := SourceDocument{
		Id:             mustID(t),
		IngestionJobId: mustID(t),
		SourceType:     SourceTypeTranscript,
		SourceURI:      "memo://sources/transcript-1",
		Weight:         0.87,
		ContentHash:    ContentHash("body"),
	}

	tests := []struct {
		name    string
		mutate  func(d *SourceDocument)
		wantErr error
	}{
		{
			name:    "valid document",
			mutate:  func(d *SourceDocument) {},
			wantErr: nil,
		},
		{
			name:    "nil job id",
			mutate:  func(d *SourceDocument) { d.IngestionJobId = uuid.Nil },
			wantErr: ErrNilID,
		},
		{
			name:    "empty type",
			mutate:  func(d *SourceDocument) { d.SourceType = "" },
			wantErr: ErrEmptySourceType,
		},
		{
			name:    "empty uri",
			mutate:  func(d *SourceDocument) { d.SourceURI = "" },
			wantErr: ErrEmptySourceURI,
		},
		{
			name:    "weight above range",
			mutate:  func(d *SourceDocument) { d.Weight = 1.5 },
			wantErr: ErrWeightOutOfRange,
		},
		{
			name:    "weight below range",
			mutate:  func(d *SourceDocument) { d.Weight = -0.2 },
			wantErr: ErrWeightOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := valid
			tt.mutate(&document)
			err := ValidateSourceDocument(&document)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSourceDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIngestionJob(t *testing.T) {
	now := time.Now().UTC()

	job := IngestionJob{
		Id:              mustID(t),
		SeriesProfileId: mustID(t),
		Status:          IngestionStatusCompleted,
		RequestedAt:     now,
	}
	if err := ValidateIngestionJob(&job); err != nil {
		t.Errorf("ValidateIngestionJob() error = %v, want nil", err)
	}

	job.Status = "stalled"
	if err := ValidateIngestionJob(&job); !errors.Is(err, ErrInvalidIngestionStatus) {
		t.Errorf("ValidateIngestionJob() error = %v, want %v", err, ErrInvalidIngestionStatus)
	}

	job.Status = IngestionStatusCompleted
	job.RequestedAt = time.Time{}
	if err := ValidateIngestionJob(&job); !errors.Is(err, ErrInvalidIngestionJob) {
		t.Errorf("ValidateIngestionJob() error = %v, want %v", err, ErrInvalidIngestionJob)
	}
}

func TestValidateApprovalEvent(t *testing.T) {
	event := ApprovalEvent{
		Id:        mustID(t),
		EpisodeId: mustID(t),
		Actor:     "editor@example.com",
		ToState:   ApprovalStateDraft,
		Note:      "Initial ingestion.",
	}
	if err := ValidateApprovalEvent(&event); err != nil {
		t.Errorf("ValidateApprovalEvent() error = %v, want nil", err)
	}

	// FromState is optional but must be a known state when present.
	event.FromState = ApprovalStateDraft
	event.ToState = ApprovalStateSubmitted
	if err := ValidateApprovalEvent(&event); err != nil {
		t.Errorf("ValidateApprovalEvent() error = %v, want nil", err)
	}

	event.FromState = "limbo"
	if err := ValidateApprovalEvent(&event); !errors.Is(err, ErrInvalidApprovalState) {
		t.Errorf("ValidateApprovalEvent() error = %v, want %v", err, ErrInvalidApprovalState)
	}

	event.FromState = ""
	event.ToState = ""
	if err := ValidateApprovalEvent(&event); !errors.Is(err, ErrInvalidApprovalState) {
		t.Errorf("ValidateApprovalEvent() error = %v, want %v", err, ErrInvalidApprovalState)
	}
}
