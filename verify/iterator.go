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


package verify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

const (
	// DefaultBatchSize is the default number of records fetched per scan.
	DefaultBatchSize = 100
)

// EpisodeIterator walks every canonical episode in ID order, in batches.
type EpisodeIterator struct {
	repo      storage.EpisodeRepository
	batchSize int
}

// NewEpisodeIterator creates an iterator over all canonical episodes.
// batchSize: number of episodes to fetch per scan (must be > 0)
func NewEpisodeIterator(repo storage.EpisodeRepository, batchSize int) *EpisodeIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EpisodeIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each batch of episodes until the scan is exhausted.
// Iteration stops on the first error from fn. Context cancellation is
// checked before each batch.
func (it *EpisodeIterator) ForEach(ctx context.Context, fn func([]*core.CanonicalEpisode) error) error {
	after := uuid.Nil
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.repo.ScanCanonicalEpisodes(ctx, after, it.batchSize)
		if err != nil {
			return fmt.Errorf("%w: scan canonical episodes after %s: %w", ErrScanFailed, after, err)
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		if len(batch) < it.batchSize {
			return nil
		}
		after = batch[len(batch)-1].Id
	}
}
