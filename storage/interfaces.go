package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
)

// Repository provides common operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// SeriesProfileRepository provides read access to series profiles.
type SeriesProfileRepository interface {
	Repository
	// GetSeriesProfile retrieves a single series profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetSeriesProfile(ctx context.Context, id uuid.UUID) (*core.SeriesProfile, error)

	// GetSeriesProfileBySlug retrieves a series profile by its unique slug.
	// Returns ErrNotFound if no profile carries the slug.
	GetSeriesProfileBySlug(ctx context.Context, slug string) (*core.SeriesProfile, error)

	// ListSeriesProfiles retrieves all series profiles, ordered by ID.
	ListSeriesProfiles(ctx context.Context) ([]*core.SeriesProfile, error)
}

// TeiHeaderRepository provides read access to TEI headers.
type TeiHeaderRepository interface {
	Repository
	// GetTeiHeader retrieves a single TEI header by ID.
	// Returns ErrNotFound if the header doesn't exist.
	GetTeiHeader(ctx context.Context, id uuid.UUID) (*core.TeiHeader, error)
}

// EpisodeRepository provides read access to canonical episodes.
type EpisodeRepository interface {
	Repository
	// GetCanonicalEpisode retrieves a single episode by ID.
	// Returns ErrNotFound if the episode doesn't exist.
	GetCanonicalEpisode(ctx context.Context, id uuid.UUID) (*core.CanonicalEpisode, error)

	// ListEpisodesBySeries retrieves all episodes belonging to a series,
	// ordered by ID (creation order for version 7 UUIDs).
	ListEpisodesBySeries(ctx context.Context, seriesProfileID uuid.UUID) ([]*core.CanonicalEpisode, error)

	// ScanCanonicalEpisodes retrieves up to limit episodes with IDs greater
	// than after, ordered by ID. Pass uuid.Nil to start from the beginning.
	// Returns ErrInvalidQuery if limit is not positive.
	ScanCanonicalEpisodes(ctx context.Context, after uuid.UUID, limit int) ([]*core.CanonicalEpisode, error)
}

// IngestionJobRepository provides read access to ingestion jobs.
type IngestionJobRepository interface {
	Repository
	// GetIngestionJob retrieves a single ingestion job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetIngestionJob(ctx context.Context, id uuid.UUID) (*core.IngestionJob, error)

	// ListJobsBySeries retrieves all ingestion jobs recorded against a
	// series, ordered by ID.
	ListJobsBySeries(ctx context.Context, seriesProfileID uuid.UUID) ([]*core.IngestionJob, error)
}

// SourceDocumentRepository provides read access to source documents.
type SourceDocumentRepository interface {
	Repository
	// GetSourceDocument retrieves a single source document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetSourceDocument(ctx context.Context, id uuid.UUID) (*core.SourceDocument, error)

	// ListSourcesByEpisode retrieves all source documents attached to an
	// episode, ordered by ID.
	ListSourcesByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*core.SourceDocument, error)

	// ScanSourceDocuments retrieves up to limit source documents with IDs
	// greater than after, ordered by ID. Pass uuid.Nil to start from the
	// beginning. Returns ErrInvalidQuery if limit is not positive.
	ScanSourceDocuments(ctx context.Context, after uuid.UUID, limit int) ([]*core.SourceDocument, error)
}

// ApprovalEventRepository provides read access to approval events.
type ApprovalEventRepository interface {
	Repository
	// ListApprovalEventsByEpisode retrieves the approval trail for an
	// episode, ordered by ID (append order for version 7 UUIDs).
	ListApprovalEventsByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*core.ApprovalEvent, error)
}

// SeriesProfileWriter stages series profiles inside a unit of work.
type SeriesProfileWriter interface {
	// Add stages a series profile for write.
	Add(profile *core.SeriesProfile) error
}

// TeiHeaderWriter stages TEI headers inside a unit of work.
type TeiHeaderWriter interface {
	// Add stages a TEI header for write.
	Add(header *core.TeiHeader) error
}

// EpisodeWriter stages canonical episodes inside a unit of work.
type EpisodeWriter interface {
	// Add stages a canonical episode for write.
	Add(episode *core.CanonicalEpisode) error
}

// IngestionJobWriter stages ingestion jobs inside a unit of work.
type IngestionJobWriter interface {
	// Add stages an ingestion job for write.
	Add(job *core.IngestionJob) error
}

// SourceDocumentWriter stages source documents inside a unit of work.
type SourceDocumentWriter interface {
	// Add stages a source document for write.
	Add(document *core.SourceDocument) error
}

// ApprovalEventWriter stages approval events inside a unit of work.
type ApprovalEventWriter interface {
	// Add stages an approval event for write.
	Add(event *core.ApprovalEvent) error
}

// UnitOfWork groups a set of staged writes into one atomic transaction.
//
// Writes staged through the entity writers are not visible to readers
// until Commit succeeds. Flush applies staged writes to the transaction
// so that later stages in the same unit of work can depend on them (for
// example an episode referencing a header flushed moments earlier), and
// runs the integrity checks: unique series slug, source weight bounds,
// and referential integrity between entities.
//
// Rollback discards the transaction and is safe to call any number of
// times, including after Commit. The idiomatic shape is:
//
//	uow, err := factory.Begin(ctx)
//	if err != nil {
//	    return err
//	}
//	defer uow.Rollback()
//	// ... stage, flush, stage ...
//	return uow.Commit()
type UnitOfWork interface {
	// Series returns the writer for series profiles.
	Series() SeriesProfileWriter

	// Headers returns the writer for TEI headers.
	Headers() TeiHeaderWriter

	// Episodes returns the writer for canonical episodes.
	Episodes() EpisodeWriter

	// Jobs returns the writer for ingestion jobs.
	Jobs() IngestionJobWriter

	// Sources returns the writer for source documents.
	Sources() SourceDocumentWriter

	// Approvals returns the writer for approval events.
	Approvals() ApprovalEventWriter

	// Flush applies all staged writes to the open transaction without
	// committing. Integrity violations surface here wrapped in
	// ErrIntegrity; nothing becomes durable until Commit.
	Flush() error

	// Commit flushes any remaining staged writes and commits the
	// transaction. Returns ErrTransactionFailed if the backend rejects
	// the commit.
	Commit() error

	// Rollback discards the transaction. Calling Rollback after Commit,
	// or more than once, is a no-op.
	Rollback() error
}

// UnitOfWorkFactory opens new units of work against a backend.
type UnitOfWorkFactory interface {
	// Begin opens a unit of work. The context bounds the lifetime of the
	// transaction.
	Begin(ctx context.Context) (UnitOfWork, error)
}
