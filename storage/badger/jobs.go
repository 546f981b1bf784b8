package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// IngestionJobRepository implements storage.IngestionJobRepository for BadgerDB.
type IngestionJobRepository struct {
	backend *Backend
}

var _ storage.IngestionJobRepository = (*IngestionJobRepository)(nil)

// NewIngestionJobRepository creates a new IngestionJobRepository.
func NewIngestionJobRepository(backend *Backend) *IngestionJobRepository {
	return &IngestionJobRepository{backend: backend}
}

// Close implements storage.Repository.
func (r *IngestionJobRepository) Close() error {
	return nil
}

// GetIngestionJob retrieves a single ingestion job by ID.
func (r *IngestionJobRepository) GetIngestionJob(ctx context.Context, id uuid.UUID) (*core.IngestionJob, error) {
	var result *core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readIngestionJob(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListJobsBySeries retrieves all ingestion jobs recorded against a
// series, ordered by ID.
func (r *IngestionJobRepository) ListJobsBySeries(ctx context.Context, seriesProfileID uuid.UUID) ([]*core.IngestionJob, error) {
	var results []*core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeKey(jobSeriesPrefix, seriesProfileID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			idBytes, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := uuid.FromBytes(idBytes)
			if err != nil {
				return err
			}
			job, err := readIngestionJob(tx, id)
			if err != nil {
				return err
			}
			if job == nil {
				return storage.ErrNotFound
			}
			results = append(results, job)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readIngestionJob reads a job record. Returns nil when absent.
func readIngestionJob(tx *badger.Txn, id uuid.UUID) (*core.IngestionJob, error) {
	item, err := tx.Get(makeJobKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.IngestionJob
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		job, unmarshalErr = storage.UnmarshalIngestionJob(val)
		return unmarshalErr
	})
	return job, err
}
