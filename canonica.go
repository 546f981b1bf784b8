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


package canonica

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/ingest"
	"github.com/poiesic/canonica/storage"
	"github.com/poiesic/canonica/storage/badger"
	"github.com/poiesic/canonica/verify"
)

// Archive is the top-level entry point: one opened database with its
// repositories, unit-of-work factory, and ingestion pipeline.
type Archive struct {
	repos    *badger.Repositories
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	logger       *slog.Logger
	pipelineOpts []ingest.Option
}

// WithLogger sets the logger used by the archive and its pipeline.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(o *archiveOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPipelineOptions forwards options to the archive's ingestion
// pipeline, for example ingest.WithPoolSize or a replacement resolver.
func WithPipelineOptions(opts ...ingest.Option) ArchiveOption {
	return func(o *archiveOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// Open opens the archive database at filePath, creating it when absent.
func Open(filePath string, opts ...ArchiveOption) (*Archive, error) {
	// Apply options
	options := &archiveOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend with repositories and the unit-of-work factory
	repos, err := badger.NewRepositories(filePath)
	if err != nil {
		return nil, err
	}

	// Create the ingestion pipeline; explicit pipeline options win over
	// the archive-level logger.
	pipelineOpts := append([]ingest.Option{ingest.WithLogger(options.logger)}, options.pipelineOpts...)
	pipeline, err := ingest.NewPipeline(repos.Factory, pipelineOpts...)
	if err != nil {
		repos.Close()
		return nil, err
	}

	return &Archive{
		repos:    repos,
		pipeline: pipeline,
		logger:   options.logger,
	}, nil
}

func (a *Archive) Close() error {
	// Release the pipeline's worker pool first
	a.pipeline.Release()

	if err := a.repos.Close(); err != nil {
		a.logger.Error("error closing archive storage", "err", err)
		return err
	}
	return nil
}

func (a *Archive) Series() storage.SeriesProfileRepository {
	return a.repos.Series
}

func (a *Archive) Headers() storage.TeiHeaderRepository {
	return a.repos.Headers
}

func (a *Archive) Episodes() storage.EpisodeRepository {
	return a.repos.Episodes
}

func (a *Archive) Jobs() storage.IngestionJobRepository {
	return a.repos.Jobs
}

func (a *Archive) Sources() storage.SourceDocumentRepository {
	return a.repos.Sources
}

func (a *Archive) Approvals() storage.ApprovalEventRepository {
	return a.repos.Approvals
}

func (a *Archive) UnitOfWorks() storage.UnitOfWorkFactory {
	return a.repos.Factory
}

// CreateSeries persists a new series profile. The slug must be unique
// across the archive; a duplicate fails with storage.ErrDuplicateSlug.
// Malformed weighting coefficients in the configuration are rejected
// here with ingest.ErrConfiguration, before any ingestion can trip over
// them.
func (a *Archive) CreateSeries(ctx context.Context, slug, title, description string, configuration map[string]any) (*core.SeriesProfile, error) {
	if _, err := ingest.ParseWeightingConfig(configuration); err != nil {
		return nil, err
	}

	id, err := core.NewID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	profile := &core.SeriesProfile{
		Id:            id,
		Slug:          slug,
		Title:         title,
		Description:   description,
		Configuration: configuration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := core.ValidateSeriesProfile(profile); err != nil {
		return nil, err
	}

	uow, err := a.repos.Factory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.Series().Add(profile); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	a.logger.Info("series profile created", "slug", slug, "id", id)
	return profile, nil
}

// IngestMultiSource loads the series profile the request names and runs
// the full ingestion pipeline against it, returning the persisted
// canonical episode.
func (a *Archive) IngestMultiSource(ctx context.Context, request ingest.MultiSourceRequest) (*core.CanonicalEpisode, error) {
	profile, err := a.repos.Series.GetSeriesProfileBySlug(ctx, request.SeriesSlug)
	if err != nil {
		return nil, fmt.Errorf("load series profile %q: %w", request.SeriesSlug, err)
	}
	return a.pipeline.Ingest(ctx, profile, request)
}

// NewAuditor builds an audit scanner over the archive's persisted records.
func (a *Archive) NewAuditor(config *verify.Config, progress io.Writer) *verify.Auditor {
	return verify.NewAuditor(verify.Stores{
		Episodes: a.repos.Episodes,
		Headers:  a.repos.Headers,
		Jobs:     a.repos.Jobs,
		Sources:  a.repos.Sources,
	}, config, progress)
}
