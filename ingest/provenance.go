package ingest

import (
	"strings"
	"time"

	"github.com/poiesic/canonica/core"
)

// provenanceTimestampLayout renders capture timestamps as ISO-8601 with
// microsecond precision and an explicit UTC offset.
const provenanceTimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// BuildProvenance assembles the provenance payload embedded into the
// merged TEI header. Sources are ranked by weight descending with ties
// broken by submission order and numbered from one. Reviewer identities
// are stripped, deduplicated, and kept in first-seen order.
func BuildProvenance(results []WeightingResult, capturedAt time.Time, reviewers []string, captureContext core.CaptureContext) (core.ProvenancePayload, error) {
	if len(results) == 0 {
		return core.ProvenancePayload{}, ErrEmptySourceSet
	}
	if capturedAt.IsZero() {
		return core.ProvenancePayload{}, ErrZeroTimestamp
	}
	ranked := rankByWeight(results)
	priorities := make([]core.SourcePriority, 0, len(ranked))
	for i, result := range ranked {
		priorities = append(priorities, core.SourcePriority{
			Priority:    i + 1,
			SourceURI:   result.Source.Input.SourceURI,
			SourceType:  result.Source.Input.SourceType,
			Weight:      result.Weight,
			ContentHash: result.Source.ContentHash,
		})
	}
	return core.ProvenancePayload{
		CaptureContext:     captureContext,
		IngestionTimestamp: capturedAt.UTC().Format(provenanceTimestampLayout),
		SourcePriorities:   priorities,
		ReviewerIdentities: normalizeReviewers(reviewers),
	}, nil
}

func normalizeReviewers(reviewers []string) []string {
	seen := make(map[string]struct{}, len(reviewers))
	normalized := make([]string, 0, len(reviewers))
	for _, reviewer := range reviewers {
		trimmed := strings.TrimSpace(reviewer)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
