package ingest

import (
	"time"

	"github.com/poiesic/canonica/core"
)

// RawSourceInput is one submitted source before normalization. Inputs are
// treated as immutable once handed to the pipeline.
type RawSourceInput struct {
	// SourceType declares the kind of source (transcript, brief, rss, ...).
	SourceType core.SourceType
	// SourceURI locates the captured source. Must be non-empty.
	SourceURI string
	// Content is the raw text payload.
	Content string
	// ContentHash is the hex digest of Content. The normalizer computes
	// it from Content when left empty.
	ContentHash string
	// Metadata carries free-form capture metadata. A "title" entry takes
	// precedence during title inference.
	Metadata map[string]any
	// SubmittedBy identifies who captured the source, when known.
	SubmittedBy string
	// OrderIndex is the position of the source in the submission. Equal
	// weights are broken in favor of the lower index.
	OrderIndex int
}

// MultiSourceRequest asks the pipeline to ingest a set of raw sources as
// one canonical episode of a series.
type MultiSourceRequest struct {
	// SeriesSlug must match the slug of the profile the request is
	// submitted against.
	SeriesSlug string
	// RequestedBy identifies the requesting operator and becomes the
	// initial reviewer identity on the provenance trail.
	RequestedBy string
	// RawSources holds the submitted sources in submission order.
	RawSources []RawSourceInput
}

// NormalizedSource is one source after normalization: scored, titled, and
// wrapped in a minimal TEI fragment.
type NormalizedSource struct {
	Input       RawSourceInput
	Title       string
	TeiFragment string
	// ContentHash is the effective hash: the input's when provided,
	// otherwise computed from the input content.
	ContentHash string
	// Quality, Freshness, and Reliability all live in [0, 1].
	Quality     float64
	Freshness   float64
	Reliability float64
}

// WeightingResult pairs a normalized source with its computed weight and
// the factors that produced it.
type WeightingResult struct {
	Source NormalizedSource
	// Weight is clamped to [0, 1].
	Weight float64
	// Factors records every score and coefficient that entered the
	// computation, plus the unclamped raw weight.
	Factors map[string]any
}

// RejectedSource is a weighting result that lost conflict resolution.
type RejectedSource struct {
	WeightingResult
	// Reason states why the source was rejected.
	Reason string
}

// ConflictOutcome is the result of conflict resolution over a weighted
// source set.
type ConflictOutcome struct {
	// MergedTeiXML is the TEI document selected as canonical.
	MergedTeiXML string
	// MergedTitle is the display title of the canonical content.
	MergedTitle string
	// PreferredSources holds the sources selected as canonical.
	PreferredSources []WeightingResult
	// RejectedSources holds the losers, highest weight first.
	RejectedSources []RejectedSource
	// ResolutionNotes is a human-readable account of the decision.
	ResolutionNotes string
	// MergedAt records when the resolution happened.
	MergedAt time.Time
}

// Sources returns every weighted source in the outcome, preferred sources
// first, then rejected sources in rank order.
func (o ConflictOutcome) Sources() []WeightingResult {
	sources := make([]WeightingResult, 0, len(o.PreferredSources)+len(o.RejectedSources))
	sources = append(sources, o.PreferredSources...)
	for _, rejected := range o.RejectedSources {
		sources = append(sources, rejected.WeightingResult)
	}
	return sources
}
