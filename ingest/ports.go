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


package ingest

import "context"

// SourceNormalizer converts one raw source into a normalized source.
// Implementations must be safe for concurrent use; the pipeline fans
// normalization out over a worker pool.
type SourceNormalizer interface {
	// Normalize scores the source, infers its title, wraps the content in
	// a TEI fragment, and fills the content hash when absent.
	Normalize(ctx context.Context, raw RawSourceInput) (NormalizedSource, error)
}

// WeightingStrategy computes an authority weight for each normalized
// source. Implementations must be pure: no I/O, no mutation of inputs.
type WeightingStrategy interface {
	// ComputeWeights returns one result per source, preserving input
	// order. Every returned weight lives in [0, 1].
	ComputeWeights(sources []NormalizedSource, config SeriesWeightingConfig) ([]WeightingResult, error)
}

// ConflictResolver selects canonical content from a weighted source set.
// Implementations must be deterministic: the same results in the same
// order always produce the same outcome apart from the merge timestamp.
type ConflictResolver interface {
	// Resolve partitions the results into preferred and rejected sources
	// and produces the merged TEI document. Returns ErrEmptySourceSet
	// when results is empty.
	Resolve(results []WeightingResult) (ConflictOutcome, error)
}
