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

// SourceIterator walks every source document in ID order, in batches.
type SourceIterator struct {
	repo      storage.SourceDocumentRepository
	batchSize int
}

// NewSourceIterator creates an iterator over all source documents.
// batchSize: number of documents to fetch per scan (must be > 0)
func NewSourceIterator(repo storage.SourceDocumentRepository, batchSize int) *SourceIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &SourceIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each batch of source documents until the scan is
// exhausted. Iteration stops on the first error from fn. Context
// cancellation is checked before each batch.
func (it *SourceIterator) ForEach(ctx context.Context, fn func([]*core.SourceDocument) error) error {
	after := uuid.Nil
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.repo.ScanSourceDocuments(ctx, after, it.batchSize)
		if err != nil {
			return fmt.Errorf("%w: scan source documents after %s: %w", ErrScanFailed, after, err)
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
