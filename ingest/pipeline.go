package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
	"github.com/poiesic/canonica/tei"
)

// Pipeline orchestrates multi-source ingestion: it normalizes raw sources
// concurrently, weights them, resolves conflicts, and persists the
// canonical episode with its full audit trail in one transaction.
type Pipeline struct {
	uowFactory    storage.UnitOfWorkFactory
	normalizer    SourceNormalizer
	weighting     WeightingStrategy
	resolver      ConflictResolver
	normalizePool *ants.Pool
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent normalization.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.normalizePool != nil {
			p.normalizePool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.normalizePool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithNormalizer replaces the default typed-score normalizer.
func WithNormalizer(normalizer SourceNormalizer) Option {
	return func(p *Pipeline) error {
		if normalizer == nil {
			return ErrNormalizerRequired
		}
		p.normalizer = normalizer
		return nil
	}
}

// WithWeightingStrategy replaces the default weighted-average strategy.
func WithWeightingStrategy(strategy WeightingStrategy) Option {
	return func(p *Pipeline) error {
		if strategy == nil {
			return ErrWeightingStrategyRequired
		}
		p.weighting = strategy
		return nil
	}
}

// WithResolver replaces the default highest-weight resolver.
func WithResolver(resolver ConflictResolver) Option {
	return func(p *Pipeline) error {
		if resolver == nil {
			return ErrResolverRequired
		}
		p.resolver = resolver
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(uowFactory storage.UnitOfWorkFactory, opts ...Option) (*Pipeline, error) {
	if uowFactory == nil {
		return nil, ErrUnitOfWorkFactoryRequired
	}

	normalizer, err := NewTypedScoreNormalizer(nil)
	if err != nil {
		return nil, err
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		uowFactory:    uowFactory,
		normalizer:    normalizer,
		weighting:     NewWeightedAverageStrategy(),
		resolver:      NewHighestWeightResolver(),
		normalizePool: pool,
		logger:        slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest runs the full ingestion workflow for one multi-source request
// against a series profile and returns the created canonical episode.
//
// The request must carry at least one raw source and name the profile's
// slug. Any stage failure, or a canceled context, aborts the whole
// ingestion and leaves storage untouched.
func (p *Pipeline) Ingest(ctx context.Context, profile *core.SeriesProfile, request MultiSourceRequest) (*core.CanonicalEpisode, error) {
	if profile == nil {
		return nil, ErrSeriesProfileRequired
	}
	if len(request.RawSources) == 0 {
		return nil, ErrEmptySourceSet
	}
	if request.SeriesSlug != profile.Slug {
		return nil, fmt.Errorf("%w: request %q, profile %q", ErrSeriesMismatch, request.SeriesSlug, profile.Slug)
	}

	config, err := ParseWeightingConfig(profile.Configuration)
	if err != nil {
		return nil, err
	}

	normalized, err := p.normalizeAll(ctx, request.RawSources)
	if err != nil {
		return nil, err
	}

	weighted, err := p.weighting.ComputeWeights(normalized, config)
	if err != nil {
		return nil, fmt.Errorf("compute weights: %w", err)
	}

	outcome, err := p.resolver.Resolve(weighted)
	if err != nil {
		return nil, fmt.Errorf("resolve conflicts: %w", err)
	}

	now := time.Now().UTC()
	var reviewers []string
	if strings.TrimSpace(request.RequestedBy) != "" {
		reviewers = []string{request.RequestedBy}
	}

	provenance, err := BuildProvenance(weighted, now, reviewers, core.CaptureContextSourceIngestion)
	if err != nil {
		return nil, fmt.Errorf("build provenance: %w", err)
	}

	header, err := tei.ParseHeader(outcome.MergedTeiXML)
	if err != nil {
		return nil, fmt.Errorf("%w: parse merged document: %w", ErrNormalization, err)
	}
	payload, err := tei.MergeProvenance(header.Payload, provenance)
	if err != nil {
		return nil, fmt.Errorf("embed provenance: %w", err)
	}

	episode, err := p.persist(ctx, profile, request, weighted, outcome, payload, now)
	if err != nil {
		return nil, err
	}

	p.logger.Info("multi-source ingestion completed",
		"series", profile.Slug,
		"episode_id", episode.Id,
		"title", episode.Title,
		"preferred", len(outcome.PreferredSources),
		"rejected", len(outcome.RejectedSources))

	return episode, nil
}

// normalizeAll fans raw sources out over the worker pool. The first
// failure cancels the remaining work and is returned.
func (p *Pipeline) normalizeAll(ctx context.Context, raws []RawSourceInput) ([]NormalizedSource, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	normalized := make([]NormalizedSource, len(raws))
	for i, raw := range raws {
		wg.Add(1)
		submitErr := p.normalizePool.Submit(func() {
			defer wg.Done()
			source, err := p.normalizer.Normalize(ctx, raw)
			if err != nil {
				fail(fmt.Errorf("%w: source %q: %w", ErrNormalization, raw.SourceURI, err))
				return
			}
			normalized[i] = source
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit normalization task: %w", submitErr))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return normalized, nil
}

// persist writes the episode, its TEI header, the ingestion job, the
// source documents, and the initial approval event in one unit of work.
// Entities that depend on earlier ones are staged after a flush so that
// referential integrity checks can see their targets.
func (p *Pipeline) persist(
	ctx context.Context,
	profile *core.SeriesProfile,
	request MultiSourceRequest,
	weighted []WeightingResult,
	outcome ConflictOutcome,
	headerPayload map[string]any,
	now time.Time,
) (*core.CanonicalEpisode, error) {
	headerID, err := core.NewID()
	if err != nil {
		return nil, err
	}
	episodeID, err := core.NewID()
	if err != nil {
		return nil, err
	}
	jobID, err := core.NewID()
	if err != nil {
		return nil, err
	}
	eventID, err := core.NewID()
	if err != nil {
		return nil, err
	}

	header := &core.TeiHeader{
		Id:        headerID,
		Title:     outcome.MergedTitle,
		Payload:   headerPayload,
		RawXML:    outcome.MergedTeiXML,
		CreatedAt: now,
		UpdatedAt: now,
	}
	episode := &core.CanonicalEpisode{
		Id:              episodeID,
		SeriesProfileId: profile.Id,
		TeiHeaderId:     headerID,
		Title:           outcome.MergedTitle,
		TeiXML:          outcome.MergedTeiXML,
		Status:          core.EpisodeStatusDraft,
		ApprovalState:   core.ApprovalStateDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job := &core.IngestionJob{
		Id:              jobID,
		SeriesProfileId: profile.Id,
		TargetEpisodeId: episodeID,
		Status:          core.IngestionStatusCompleted,
		RequestedAt:     now,
		StartedAt:       now,
		CompletedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	conflictMetadata := conflictResolutionMetadata(outcome)
	sourceURIs := make([]string, 0, len(weighted))
	documents := make([]*core.SourceDocument, 0, len(weighted))
	for _, result := range weighted {
		id, idErr := core.NewID()
		if idErr != nil {
			return nil, idErr
		}
		sourceURIs = append(sourceURIs, result.Source.Input.SourceURI)
		documents = append(documents, &core.SourceDocument{
			Id:                 id,
			IngestionJobId:     jobID,
			CanonicalEpisodeId: episodeID,
			SourceType:         result.Source.Input.SourceType,
			SourceURI:          result.Source.Input.SourceURI,
			Weight:             result.Weight,
			ContentHash:        result.Source.ContentHash,
			Metadata:           enrichedSourceMetadata(result, conflictMetadata),
			CreatedAt:          now,
		})
	}

	event := &core.ApprovalEvent{
		Id:        eventID,
		EpisodeId: episodeID,
		Actor:     request.RequestedBy,
		ToState:   core.ApprovalStateDraft,
		Note:      "Initial ingestion.",
		Payload:   map[string]any{"sources": sourceURIs},
		CreatedAt: now,
	}

	uow, err := p.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.Headers().Add(header); err != nil {
		return nil, err
	}
	if err := uow.Flush(); err != nil {
		return nil, err
	}
	if err := uow.Episodes().Add(episode); err != nil {
		return nil, err
	}
	if err := uow.Jobs().Add(job); err != nil {
		return nil, err
	}
	for _, document := range documents {
		if err := uow.Sources().Add(document); err != nil {
			return nil, err
		}
	}
	if err := uow.Flush(); err != nil {
		return nil, err
	}
	if err := uow.Approvals().Add(event); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return episode, nil
}

// conflictResolutionMetadata builds the audit summary injected into every
// persisted source document.
func conflictResolutionMetadata(outcome ConflictOutcome) map[string]any {
	preferred := make([]string, 0, len(outcome.PreferredSources))
	for _, result := range outcome.PreferredSources {
		preferred = append(preferred, result.Source.Input.SourceURI)
	}
	rejected := make([]string, 0, len(outcome.RejectedSources))
	for _, result := range outcome.RejectedSources {
		rejected = append(rejected, result.Source.Input.SourceURI)
	}
	return map[string]any{
		"preferred_sources": preferred,
		"rejected_sources":  rejected,
		"resolution_notes":  outcome.ResolutionNotes,
	}
}

func enrichedSourceMetadata(result WeightingResult, conflictMetadata map[string]any) map[string]any {
	metadata := make(map[string]any, len(result.Source.Input.Metadata)+2)
	for k, v := range result.Source.Input.Metadata {
		metadata[k] = v
	}
	if strings.TrimSpace(result.Source.Input.SubmittedBy) != "" {
		metadata["submitted_by"] = result.Source.Input.SubmittedBy
	}
	metadata["conflict_resolution"] = conflictMetadata
	return metadata
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.normalizePool != nil {
		p.normalizePool.Release()
	}
}
