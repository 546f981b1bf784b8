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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
	"github.com/poiesic/canonica/tei"
)

// Stores bundles the read repositories the auditor consults.
type Stores struct {
	Episodes storage.EpisodeRepository
	Headers  storage.TeiHeaderRepository
	Jobs     storage.IngestionJobRepository
	Sources  storage.SourceDocumentRepository
}

// Config holds configuration for an audit run.
type Config struct {
	// BatchSize is the number of records to fetch in each scan
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
	}
}

// Auditor re-checks the durable invariants of persisted canonical records.
type Auditor struct {
	stores   Stores
	config   *Config
	progress io.Writer
}

// NewAuditor creates a new auditor.
// progress: where to write progress output (typically os.Stderr); nil
// discards it
func NewAuditor(stores Stores, config *Config, progress io.Writer) *Auditor {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Auditor{
		stores:   stores,
		config:   config,
		progress: progress,
	}
}

// Run executes the audit. Every canonical episode and source document is
// scanned; violations are collected into the returned report. Run never
// mutates storage. A storage failure aborts the run with ErrScanFailed.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	fmt.Fprintf(a.progress, "Starting audit (batch size: %d)\n", a.config.BatchSize)

	if err := a.auditEpisodes(ctx, report); err != nil {
		return nil, err
	}
	if err := a.auditSources(ctx, report); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	fmt.Fprintf(a.progress, "Audit complete. Scanned %d episodes and %d source documents in %v: %d violation(s)\n",
		report.EpisodesScanned, report.SourcesScanned,
		report.Elapsed.Round(time.Millisecond), len(report.Violations))

	return report, nil
}

func (a *Auditor) auditEpisodes(ctx context.Context, report *Report) error {
	tracker := NewProgressTracker(a.progress, "episodes", a.config.ReportInterval)
	tracker.Start()

	iterator := NewEpisodeIterator(a.stores.Episodes, a.config.BatchSize)
	err := iterator.ForEach(ctx, func(batch []*core.CanonicalEpisode) error {
		for _, episode := range batch {
			if err := a.checkEpisode(ctx, episode, report); err != nil {
				return err
			}
		}

		report.EpisodesScanned += len(batch)
		tracker.Add(len(batch))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	return nil
}

func (a *Auditor) auditSources(ctx context.Context, report *Report) error {
	tracker := NewProgressTracker(a.progress, "source documents", a.config.ReportInterval)
	tracker.Start()

	// Sources from the same ingestion share a job; remember resolved ones.
	knownJobs := make(map[uuid.UUID]bool)

	iterator := NewSourceIterator(a.stores.Sources, a.config.BatchSize)
	err := iterator.ForEach(ctx, func(batch []*core.SourceDocument) error {
		for _, document := range batch {
			if err := a.checkSource(ctx, document, knownJobs, report); err != nil {
				return err
			}
		}

		report.SourcesScanned += len(batch)
		tracker.Add(len(batch))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	return nil
}

// checkEpisode verifies header presence, provenance extraction, and priority
// ordering for one canonical episode.
func (a *Auditor) checkEpisode(ctx context.Context, episode *core.CanonicalEpisode, report *Report) error {
	header, err := a.stores.Headers.GetTeiHeader(ctx, episode.TeiHeaderId)
	if errors.Is(err, storage.ErrNotFound) {
		report.add(Violation{
			Entity: "canonical_episode",
			Id:     episode.Id,
			Check:  CheckHeaderPresence,
			Detail: fmt.Sprintf("tei header %s not found", episode.TeiHeaderId),
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: episode %s header: %w", ErrScanFailed, episode.Id, err)
	}

	provenance, err := tei.ExtractProvenance(header.Payload)
	if err != nil {
		report.add(Violation{
			Entity: "canonical_episode",
			Id:     episode.Id,
			Check:  CheckProvenance,
			Detail: err.Error(),
		})
		return nil
	}

	if problem := priorityOrderingProblem(provenance.SourcePriorities); problem != "" {
		report.add(Violation{
			Entity: "canonical_episode",
			Id:     episode.Id,
			Check:  CheckPriorityOrdering,
			Detail: problem,
		})
	}

	return nil
}

// checkSource verifies weight bounds and the ingestion-job reference for one
// source document.
func (a *Auditor) checkSource(ctx context.Context, document *core.SourceDocument, knownJobs map[uuid.UUID]bool, report *Report) error {
	if err := core.ValidateWeight(document.Weight); err != nil {
		report.add(Violation{
			Entity: "source_document",
			Id:     document.Id,
			Check:  CheckWeightBounds,
			Detail: fmt.Sprintf("weight %v outside [0, 1]", document.Weight),
		})
	}

	if knownJobs[document.IngestionJobId] {
		return nil
	}

	_, err := a.stores.Jobs.GetIngestionJob(ctx, document.IngestionJobId)
	if errors.Is(err, storage.ErrNotFound) {
		report.add(Violation{
			Entity: "source_document",
			Id:     document.Id,
			Check:  CheckJobReference,
			Detail: fmt.Sprintf("ingestion job %s not found", document.IngestionJobId),
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: source %s job: %w", ErrScanFailed, document.Id, err)
	}

	knownJobs[document.IngestionJobId] = true
	return nil
}

// priorityOrderingProblem describes the first ordering defect in a
// provenance priority list, or returns "" when the list is sound.
// Priorities must be numbered contiguously from 1 and weights must not
// increase down the list; equal weights are legitimate ties.
func priorityOrderingProblem(priorities []core.SourcePriority) string {
	if len(priorities) == 0 {
		return "empty priority list"
	}

	for i, priority := range priorities {
		if priority.Priority != i+1 {
			return fmt.Sprintf("priority at position %d is %d, want %d", i, priority.Priority, i+1)
		}
		if i > 0 && priority.Weight > priorities[i-1].Weight {
			return fmt.Sprintf("weight %.3f at priority %d exceeds weight %.3f at priority %d",
				priority.Weight, priority.Priority, priorities[i-1].Weight, priorities[i-1].Priority)
		}
	}

	return ""
}
