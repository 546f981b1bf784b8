package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// UnitOfWorkFactory implements storage.UnitOfWorkFactory for BadgerDB.
type UnitOfWorkFactory struct {
	backend *Backend
}

var _ storage.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(backend *Backend) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{backend: backend}
}

// Begin opens a unit of work backed by a single BadgerDB write transaction.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &unitOfWork{tx: f.backend.db.NewTransaction(true)}, nil
}

// unitOfWork stages entity writes and applies them to one BadgerDB
// transaction at flush time. Integrity checks run against the
// transaction's view, which includes records flushed earlier in the same
// unit of work, so staging order matters for referential integrity.
type unitOfWork struct {
	tx      *badger.Txn
	pending []any
	done    bool
}

var _ storage.UnitOfWork = (*unitOfWork)(nil)

// Series implements storage.UnitOfWork.
func (u *unitOfWork) Series() storage.SeriesProfileWriter { return seriesWriter{u} }

// Headers implements storage.UnitOfWork.
func (u *unitOfWork) Headers() storage.TeiHeaderWriter { return headerWriter{u} }

// Episodes implements storage.UnitOfWork.
func (u *unitOfWork) Episodes() storage.EpisodeWriter { return episodeWriter{u} }

// Jobs implements storage.UnitOfWork.
func (u *unitOfWork) Jobs() storage.IngestionJobWriter { return jobWriter{u} }

// Sources implements storage.UnitOfWork.
func (u *unitOfWork) Sources() storage.SourceDocumentWriter { return sourceWriter{u} }

// Approvals implements storage.UnitOfWork.
func (u *unitOfWork) Approvals() storage.ApprovalEventWriter { return approvalWriter{u} }

type seriesWriter struct{ uow *unitOfWork }

func (w seriesWriter) Add(profile *core.SeriesProfile) error { return w.uow.stage(profile) }

type headerWriter struct{ uow *unitOfWork }

func (w headerWriter) Add(header *core.TeiHeader) error { return w.uow.stage(header) }

type episodeWriter struct{ uow *unitOfWork }

func (w episodeWriter) Add(episode *core.CanonicalEpisode) error { return w.uow.stage(episode) }

type jobWriter struct{ uow *unitOfWork }

func (w jobWriter) Add(job *core.IngestionJob) error { return w.uow.stage(job) }

type sourceWriter struct{ uow *unitOfWork }

func (w sourceWriter) Add(document *core.SourceDocument) error { return w.uow.stage(document) }

type approvalWriter struct{ uow *unitOfWork }

func (w approvalWriter) Add(event *core.ApprovalEvent) error { return w.uow.stage(event) }

func (u *unitOfWork) stage(entity any) error {
	if u.done {
		return fmt.Errorf("%w: unit of work already finished", storage.ErrTransactionFailed)
	}
	u.pending = append(u.pending, entity)
	return nil
}

// Flush applies all staged writes to the open transaction in staging
// order. Nothing becomes durable until Commit.
func (u *unitOfWork) Flush() error {
	if u.done {
		return fmt.Errorf("%w: unit of work already finished", storage.ErrTransactionFailed)
	}
	for _, entity := range u.pending {
		if err := u.apply(entity); err != nil {
			return err
		}
	}
	u.pending = u.pending[:0]
	return nil
}

// Commit flushes remaining staged writes and commits the transaction.
func (u *unitOfWork) Commit() error {
	if err := u.Flush(); err != nil {
		return err
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
	}
	return nil
}

// Rollback discards the transaction. Safe to call after Commit, and more
// than once.
func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.tx.Discard()
	return nil
}

func (u *unitOfWork) apply(entity any) error {
	switch e := entity.(type) {
	case *core.SeriesProfile:
		return u.applySeriesProfile(e)
	case *core.TeiHeader:
		return u.applyTeiHeader(e)
	case *core.CanonicalEpisode:
		return u.applyEpisode(e)
	case *core.IngestionJob:
		return u.applyIngestionJob(e)
	case *core.SourceDocument:
		return u.applySourceDocument(e)
	case *core.ApprovalEvent:
		return u.applyApprovalEvent(e)
	default:
		return fmt.Errorf("%w: unsupported entity type %T", storage.ErrIntegrity, entity)
	}
}

func (u *unitOfWork) applySeriesProfile(profile *core.SeriesProfile) error {
	if err := core.ValidateSeriesProfile(profile); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}

	// The slug must be unique across stored profiles and profiles flushed
	// earlier in this transaction. Re-adding the same profile is allowed.
	slugKey := makeSeriesSlugKey(profile.Slug)
	existing, err := readValue(u.tx, slugKey)
	if err != nil {
		return err
	}
	if existing != nil {
		owner, err := uuid.FromBytes(existing)
		if err != nil {
			return err
		}
		if owner != profile.Id {
			return fmt.Errorf("%w: %q", storage.ErrDuplicateSlug, profile.Slug)
		}
	}

	if err := u.tx.Set(makeSeriesProfileKey(profile.Id), storage.MarshalSeriesProfile(profile)); err != nil {
		return err
	}
	return u.tx.Set(slugKey, uuidBytes(profile.Id))
}

func (u *unitOfWork) applyTeiHeader(header *core.TeiHeader) error {
	if err := core.ValidateTeiHeader(header); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}

	textValue, blob, err := storage.EncodeText(header.RawXML, storage.MinimumCompressBytes)
	if err != nil {
		return err
	}
	stored := *header
	stored.RawXML = textValue

	if err := u.tx.Set(makeTeiHeaderKey(header.Id), storage.MarshalTeiHeader(&stored)); err != nil {
		return err
	}
	return u.setBlob(makeTeiHeaderBlobKey(header.Id), blob)
}

func (u *unitOfWork) applyEpisode(episode *core.CanonicalEpisode) error {
	if err := core.ValidateCanonicalEpisode(episode); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}
	if err := u.requireKey(makeSeriesProfileKey(episode.SeriesProfileId), "series profile", episode.SeriesProfileId); err != nil {
		return err
	}
	if err := u.requireKey(makeTeiHeaderKey(episode.TeiHeaderId), "tei header", episode.TeiHeaderId); err != nil {
		return err
	}

	textValue, blob, err := storage.EncodeText(episode.TeiXML, storage.MinimumCompressBytes)
	if err != nil {
		return err
	}
	stored := *episode
	stored.TeiXML = textValue

	if err := u.tx.Set(makeEpisodeKey(episode.Id), storage.MarshalCanonicalEpisode(&stored)); err != nil {
		return err
	}
	if err := u.setBlob(makeEpisodeBlobKey(episode.Id), blob); err != nil {
		return err
	}
	return u.tx.Set(makeEpisodeSeriesKey(episode.SeriesProfileId, episode.Id), uuidBytes(episode.Id))
}

func (u *unitOfWork) applyIngestionJob(job *core.IngestionJob) error {
	if err := core.ValidateIngestionJob(job); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}
	if err := u.requireKey(makeSeriesProfileKey(job.SeriesProfileId), "series profile", job.SeriesProfileId); err != nil {
		return err
	}
	if job.TargetEpisodeId != uuid.Nil {
		if err := u.requireKey(makeEpisodeKey(job.TargetEpisodeId), "canonical episode", job.TargetEpisodeId); err != nil {
			return err
		}
	}

	if err := u.tx.Set(makeJobKey(job.Id), storage.MarshalIngestionJob(job)); err != nil {
		return err
	}
	return u.tx.Set(makeJobSeriesKey(job.SeriesProfileId, job.Id), uuidBytes(job.Id))
}

func (u *unitOfWork) applySourceDocument(document *core.SourceDocument) error {
	if document != nil {
		if err := core.ValidateWeight(document.Weight); err != nil {
			return fmt.Errorf("%w: source document %s", storage.ErrWeightCheckFailed, document.Id)
		}
	}
	if err := core.ValidateSourceDocument(document); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}
	if err := u.requireKey(makeJobKey(document.IngestionJobId), "ingestion job", document.IngestionJobId); err != nil {
		return err
	}
	if document.CanonicalEpisodeId != uuid.Nil {
		if err := u.requireKey(makeEpisodeKey(document.CanonicalEpisodeId), "canonical episode", document.CanonicalEpisodeId); err != nil {
			return err
		}
	}

	if err := u.tx.Set(makeSourceDocumentKey(document.Id), storage.MarshalSourceDocument(document)); err != nil {
		return err
	}
	if document.CanonicalEpisodeId == uuid.Nil {
		return nil
	}
	return u.tx.Set(makeSourceEpisodeKey(document.CanonicalEpisodeId, document.Id), uuidBytes(document.Id))
}

func (u *unitOfWork) applyApprovalEvent(event *core.ApprovalEvent) error {
	if err := core.ValidateApprovalEvent(event); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIntegrity, err)
	}
	if err := u.requireKey(makeEpisodeKey(event.EpisodeId), "canonical episode", event.EpisodeId); err != nil {
		return err
	}

	if err := u.tx.Set(makeApprovalEventKey(event.Id), storage.MarshalApprovalEvent(event)); err != nil {
		return err
	}
	return u.tx.Set(makeApprovalEpisodeKey(event.EpisodeId, event.Id), uuidBytes(event.Id))
}

// requireKey enforces referential integrity: the key must be present in
// the transaction's view, stored or flushed earlier in this unit of work.
func (u *unitOfWork) requireKey(key []byte, kind string, id uuid.UUID) error {
	exists, err := keyExists(u.tx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s %s", storage.ErrForeignKeyAbsent, kind, id)
	}
	return nil
}

// setBlob writes the companion compressed record, or clears it when the
// payload is stored plain.
func (u *unitOfWork) setBlob(key []byte, blob []byte) error {
	if blob == nil {
		return u.tx.Delete(key)
	}
	return u.tx.Set(key, blob)
}

// uuidBytes returns a fresh byte slice holding the UUID, safe to hand to
// the transaction.
func uuidBytes(id uuid.UUID) []byte {
	buf := make([]byte, 16)
	copy(buf, id[:])
	return buf
}
