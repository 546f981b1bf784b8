package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// NewID generates a time-ordered UUIDv7 for a new persisted record.
// Time-ordered identifiers keep Badger key ranges roughly insertion-ordered.
func NewID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate record id: %w", err)
	}
	return id, nil
}

// ContentHash computes a deterministic hex digest of source content using
// BLAKE2b-128 hashing. Identical content always produces identical hashes,
// which provenance records rely on to compare sources across ingestions.
func ContentHash(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// SourceType tags the declared kind of a raw source document.
// Values outside the known set are allowed and score as unknown.
type SourceType string

const (
	SourceTypeTranscript    SourceType = "transcript"
	SourceTypeBrief         SourceType = "brief"
	SourceTypeRSS           SourceType = "rss"
	SourceTypePressRelease  SourceType = "press_release"
	SourceTypeResearchNotes SourceType = "research_notes"
)

// EpisodeStatus tracks a canonical episode through its content lifecycle.
// The ingestion pipeline only ever creates episodes in EpisodeStatusDraft;
// every later transition belongs to external workflows.
type EpisodeStatus string

const (
	EpisodeStatusDraft           EpisodeStatus = "draft"
	EpisodeStatusInProgress      EpisodeStatus = "in_progress"
	EpisodeStatusQualityReview   EpisodeStatus = "quality_review"
	EpisodeStatusEditorialReview EpisodeStatus = "editorial_review"
	EpisodeStatusOnHold          EpisodeStatus = "on_hold"
	EpisodeStatusRejected        EpisodeStatus = "rejected"
	EpisodeStatusAudioGeneration EpisodeStatus = "audio_generation"
	EpisodeStatusPostProcessing  EpisodeStatus = "post_processing"
	EpisodeStatusReadyToPublish  EpisodeStatus = "ready_to_publish"
	EpisodeStatusScheduled       EpisodeStatus = "scheduled"
	EpisodeStatusPublished       EpisodeStatus = "published"
	EpisodeStatusUpdated         EpisodeStatus = "updated"
	EpisodeStatusFailed          EpisodeStatus = "failed"
	EpisodeStatusArchived        EpisodeStatus = "archived"
)

// ApprovalState is the approval workflow state of a canonical episode.
type ApprovalState string

const (
	ApprovalStateDraft     ApprovalState = "draft"
	ApprovalStateSubmitted ApprovalState = "submitted"
	ApprovalStateApproved  ApprovalState = "approved"
	ApprovalStateRejected  ApprovalState = "rejected"
)

// IngestionStatus is the lifecycle state of an ingestion job.
type IngestionStatus string

const (
	IngestionStatusPending   IngestionStatus = "pending"
	IngestionStatusRunning   IngestionStatus = "running"
	IngestionStatusCompleted IngestionStatus = "completed"
	IngestionStatusFailed    IngestionStatus = "failed"
)

// SeriesProfile holds series-level identity and configuration.
// Configuration carries free-form series settings; weighting coefficients
// live under its "weighting" key.
type SeriesProfile struct {
	Id            uuid.UUID
	Slug          string // unique across profiles, max 160 chars
	Title         string
	Description   string
	Configuration map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TeiHeader stores the parsed header of a canonical TEI document alongside
// the raw XML it was extracted from. Payload is the header subtree as a
// string-keyed map, including merged provenance.
type TeiHeader struct {
	Id        uuid.UUID
	Title     string
	Payload   map[string]any
	RawXML    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanonicalEpisode is the single reconciled content record representing one
// episode. It is created exactly once per ingestion job and never mutated by
// the ingestion pipeline after creation.
type CanonicalEpisode struct {
	Id              uuid.UUID
	SeriesProfileId uuid.UUID
	TeiHeaderId     uuid.UUID
	Title           string
	TeiXML          string
	Status          EpisodeStatus
	ApprovalState   ApprovalState
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IngestionJob records one ingestion run for a series.
type IngestionJob struct {
	Id              uuid.UUID
	SeriesProfileId uuid.UUID
	TargetEpisodeId uuid.UUID // uuid.Nil until the job has produced an episode
	Status          IngestionStatus
	RequestedAt     time.Time
	StartedAt       time.Time // zero until the job starts
	CompletedAt     time.Time // zero until the job finishes
	ErrorMessage    string    // empty unless Status is failed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SourceDocument captures one contributing source for an ingestion job,
// carrying the weight assigned during conflict resolution.
type SourceDocument struct {
	Id                 uuid.UUID
	IngestionJobId     uuid.UUID
	CanonicalEpisodeId uuid.UUID // uuid.Nil when the job produced no episode
	SourceType         SourceType
	SourceURI          string
	Weight             float64 // always within [0, 1] once persisted
	ContentHash        string
	Metadata           map[string]any
	CreatedAt          time.Time
}

// ApprovalEvent is one audit entry in an episode's approval history.
// Ingestion records a single initial event moving the episode into draft.
type ApprovalEvent struct {
	Id        uuid.UUID
	EpisodeId uuid.UUID
	Actor     string
	FromState ApprovalState // empty on the initial event
	ToState   ApprovalState
	Note      string
	Payload   map[string]any
	CreatedAt time.Time
}

// CaptureContext tags which workflow captured a provenance payload.
type CaptureContext string

const (
	// CaptureContextSourceIngestion marks provenance captured during
	// multi-source ingestion.
	CaptureContextSourceIngestion CaptureContext = "source_ingestion"
	// CaptureContextScriptGeneration is reserved for script-generation
	// provenance; the payload shape is shared with source ingestion.
	CaptureContextScriptGeneration CaptureContext = "script_generation"
)

// SourcePriority is one entry in a provenance priority list. Priorities are
// numbered from 1 in strict descending-weight order; equal weights keep
// their original submission order.
type SourcePriority struct {
	Priority    int        `json:"priority"`
	SourceURI   string     `json:"source_uri"`
	SourceType  SourceType `json:"source_type"`
	Weight      float64    `json:"weight"`
	ContentHash string     `json:"content_hash"`
}

// ProvenancePayload records which sources competed for a canonical episode,
// their relative weights, and the context of capture. It is embedded into
// the TEI header payload and must survive serialization unchanged.
type ProvenancePayload struct {
	CaptureContext     CaptureContext   `json:"capture_context"`
	IngestionTimestamp string           `json:"ingestion_timestamp"`
	SourcePriorities   []SourcePriority `json:"source_priorities"`
	ReviewerIdentities []string         `json:"reviewer_identities"`
}
