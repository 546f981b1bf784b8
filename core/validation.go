// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MaxSlugLength is the longest slug accepted for a series profile.
const MaxSlugLength = 160

// ValidateSlug validates a series slug.
//
// Validation rules:
//   - must not be empty
//   - at most MaxSlugLength characters
//   - lowercase letters, digits, and hyphens only
//   - must not start or end with a hyphen
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrEmptySlug
	}
	if len(slug) > MaxSlugLength {
		return fmt.Errorf("%w: %d characters exceeds maximum %d", ErrInvalidSlug, len(slug), MaxSlugLength)
	}
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
			if i == 0 || i == len(slug)-1 {
				return fmt.Errorf("%w: hyphen at position %d", ErrInvalidSlug, i)
			}
		default:
			return fmt.Errorf("%w: character %q at position %d", ErrInvalidSlug, c, i)
		}
	}
	return nil
}

// ValidateWeight validates that a weight is a finite number within [0, 1].
// The same rule backs the storage layer's CHECK on source documents.
func ValidateWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: got %v", ErrWeightOutOfRange, weight)
	}
	if weight < 0 || weight > 1 {
		return fmt.Errorf("%w: got %v", ErrWeightOutOfRange, weight)
	}
	return nil
}

// ValidateEpisodeStatus validates that an EpisodeStatus has a known value.
func ValidateEpisodeStatus(status EpisodeStatus) error {
	switch status {
	case EpisodeStatusDraft, EpisodeStatusInProgress, EpisodeStatusQualityReview,
		EpisodeStatusEditorialReview, EpisodeStatusOnHold, EpisodeStatusRejected,
		EpisodeStatusAudioGeneration, EpisodeStatusPostProcessing,
		EpisodeStatusReadyToPublish, EpisodeStatusScheduled, EpisodeStatusPublished,
		EpisodeStatusUpdated, EpisodeStatusFailed, EpisodeStatusArchived:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEpisodeStatus, status)
}

// ValidateApprovalState validates that an ApprovalState has a known value.
func ValidateApprovalState(state ApprovalState) error {
	switch state {
	case ApprovalStateDraft, ApprovalStateSubmitted, ApprovalStateApproved, ApprovalStateRejected:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidApprovalState, state)
}

// ValidateIngestionStatus validates that an IngestionStatus has a known value.
func ValidateIngestionStatus(status IngestionStatus) error {
	switch status {
	case IngestionStatusPending, IngestionStatusRunning, IngestionStatusCompleted, IngestionStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidIngestionStatus, status)
}

// ValidateSeriesProfile validates a SeriesProfile according to domain rules.
//
// Validation rules:
//   - Id must not be nil
//   - Slug must satisfy ValidateSlug
//   - Title must not be empty
//
// NOT validated:
//   - Configuration (free-form; weighting coefficients are validated by the
//     pipeline when a job begins)
func ValidateSeriesProfile(profile *SeriesProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidSeriesProfile)
	}
	if profile.Id == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidSeriesProfile, ErrNilID)
	}
	if err := ValidateSlug(profile.Slug); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSeriesProfile, err)
	}
	if profile.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSeriesProfile, ErrEmptyTitle)
	}
	return nil
}

// ValidateTeiHeader validates a TeiHeader according to domain rules.
func ValidateTeiHeader(header *TeiHeader) error {
	if header == nil {
		return fmt.Errorf("%w: header is nil", ErrInvalidTeiHeader)
	}
	if header.Id == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidTeiHeader, ErrNilID)
	}
	if header.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTeiHeader, ErrEmptyTitle)
	}
	if header.RawXML == "" {
		return fmt.Errorf("%w: raw xml cannot be empty", ErrInvalidTeiHeader)
	}
	return nil
}

// ValidateCanonicalEpisode validates a CanonicalEpisode according to domain rules.
//
// Validation rules:
//   - Id, SeriesProfileId, and TeiHeaderId must not be nil
//   - Title and TeiXML must not be empty
//   - Status and ApprovalState must have known values
func ValidateCanonicalEpisode(episode *CanonicalEpisode) error {
	if episode == nil {
		return fmt.Errorf("%w: episode is nil", ErrInvalidEpisode)
	}
	if episode.Id == uuid.Nil || episode.SeriesProfileId == uuid.Nil || episode.TeiHeaderId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidEpisode, ErrNilID)
	}
	if episode.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEpisode, ErrEmptyTitle)
	}
	if episode.TeiXML == "" {
		return fmt.Errorf("%w: tei xml cannot be empty", ErrInvalidEpisode)
	}
	if err := ValidateEpisodeStatus(episode.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEpisode, err)
	}
	if err := ValidateApprovalState(episode.ApprovalState); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEpisode, err)
	}
	return nil
}

// ValidateIngestionJob validates an IngestionJob according to domain rules.
func ValidateIngestionJob(job *IngestionJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidIngestionJob)
	}
	if job.Id == uuid.Nil || job.SeriesProfileId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidIngestionJob, ErrNilID)
	}
	if err := ValidateIngestionStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIngestionJob, err)
	}
	if job.RequestedAt.IsZero() {
		return fmt.Errorf("%w: requested timestamp cannot be zero", ErrInvalidIngestionJob)
	}
	return nil
}

// ValidateSourceDocument validates a SourceDocument according to domain rules.
//
// Validation rules:
//   - Id and IngestionJobId must not be nil
//   - SourceType and SourceURI must not be empty
//   - Weight must satisfy ValidateWeight
//
// NOT validated:
//   - ContentHash (may be empty for sources ingested before hashing existed)
//   - Metadata (free-form)
func ValidateSourceDocument(document *SourceDocument) error {
	if document == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidSourceDocument)
	}
	if document.Id == uuid.Nil || document.IngestionJobId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, ErrNilID)
	}
	if document.SourceType == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, ErrEmptySourceType)
	}
	if document.SourceURI == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, ErrEmptySourceURI)
	}
	if err := ValidateWeight(document.Weight); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, err)
	}
	return nil
}

// ValidateApprovalEvent validates an ApprovalEvent according to domain rules.
func ValidateApprovalEvent(event *ApprovalEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidApprovalEvent)
	}
	if event.Id == uuid.Nil || event.EpisodeId == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidApprovalEvent, ErrNilID)
	}
	if event.FromState != "" {
		if err := ValidateApprovalState(event.FromState); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidApprovalEvent, err)
		}
	}
	if err := ValidateApprovalState(event.ToState); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApprovalEvent, err)
	}
	return nil
}
