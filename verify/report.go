package verify

import (
	"time"

	"github.com/google/uuid"
)

// Check identifies one invariant the auditor re-validates.
type Check string

const (
	// CheckWeightBounds requires every stored source weight to be a finite
	// number within [0, 1].
	CheckWeightBounds Check = "weight_bounds"

	// CheckHeaderPresence requires every episode's TEI header to exist.
	CheckHeaderPresence Check = "header_presence"

	// CheckProvenance requires the provenance payload to extract cleanly
	// from the episode's header.
	CheckProvenance Check = "provenance_payload"

	// CheckPriorityOrdering requires provenance priorities to be numbered
	// contiguously from 1 with non-increasing weights.
	CheckPriorityOrdering Check = "priority_ordering"

	// CheckJobReference requires every source document to reference an
	// existing ingestion job.
	CheckJobReference Check = "job_reference"
)

// Violation records one failed check against one persisted record.
type Violation struct {
	// Entity names the record kind: "canonical_episode" or
	// "source_document".
	Entity string

	// Id identifies the violating record.
	Id uuid.UUID

	// Check names the invariant that failed.
	Check Check

	// Detail describes the failure in human-readable form.
	Detail string
}

// Report summarizes one audit run.
type Report struct {
	// EpisodesScanned counts the canonical episodes examined.
	EpisodesScanned int

	// SourcesScanned counts the source documents examined.
	SourcesScanned int

	// Violations lists every failed check in scan order.
	Violations []Violation

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Clean reports whether the audit found no violations.
func (r *Report) Clean() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(violation Violation) {
	r.Violations = append(r.Violations, violation)
}
