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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSeriesProfile indicates a SeriesProfile failed validation.
	ErrInvalidSeriesProfile = errors.New("invalid series profile")

	// ErrInvalidTeiHeader indicates a TeiHeader failed validation.
	ErrInvalidTeiHeader = errors.New("invalid tei header")

	// ErrInvalidEpisode indicates a CanonicalEpisode failed validation.
	ErrInvalidEpisode = errors.New("invalid canonical episode")

	// ErrInvalidIngestionJob indicates an IngestionJob failed validation.
	ErrInvalidIngestionJob = errors.New("invalid ingestion job")

	// ErrInvalidSourceDocument indicates a SourceDocument failed validation.
	ErrInvalidSourceDocument = errors.New("invalid source document")

	// ErrInvalidApprovalEvent indicates an ApprovalEvent failed validation.
	ErrInvalidApprovalEvent = errors.New("invalid approval event")

	// ErrNilID indicates a required identifier is the nil UUID.
	ErrNilID = errors.New("identifier cannot be nil")

	// ErrEmptySlug indicates the Slug field is empty.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrInvalidSlug indicates a slug contains characters outside
	// lowercase letters, digits, and interior hyphens, or exceeds the
	// maximum length.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptySourceURI indicates the SourceURI field is empty.
	ErrEmptySourceURI = errors.New("source uri cannot be empty")

	// ErrEmptySourceType indicates the SourceType field is empty.
	ErrEmptySourceType = errors.New("source type cannot be empty")

	// ErrWeightOutOfRange indicates a weight is outside [0, 1] or not a
	// finite number.
	ErrWeightOutOfRange = errors.New("weight must be a finite number within [0, 1]")

	// ErrInvalidEpisodeStatus indicates an unrecognized EpisodeStatus value.
	ErrInvalidEpisodeStatus = errors.New("invalid episode status")

	// ErrInvalidApprovalState indicates an unrecognized ApprovalState value.
	ErrInvalidApprovalState = errors.New("invalid approval state")

	// ErrInvalidIngestionStatus indicates an unrecognized IngestionStatus value.
	ErrInvalidIngestionStatus = errors.New("invalid ingestion status")
)
