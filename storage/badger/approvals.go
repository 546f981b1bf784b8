package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// ApprovalEventRepository implements storage.ApprovalEventRepository for BadgerDB.
type ApprovalEventRepository struct {
	backend *Backend
}

var _ storage.ApprovalEventRepository = (*ApprovalEventRepository)(nil)

// NewApprovalEventRepository creates a new ApprovalEventRepository.
func NewApprovalEventRepository(backend *Backend) *ApprovalEventRepository {
	return &ApprovalEventRepository{backend: backend}
}

// Close implements storage.Repository.
func (r *ApprovalEventRepository) Close() error {
	return nil
}

// ListApprovalEventsByEpisode retrieves the approval trail for an
// episode, ordered by ID.
func (r *ApprovalEventRepository) ListApprovalEventsByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*core.ApprovalEvent, error) {
	var results []*core.ApprovalEvent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeKey(eventEpisodePrefix, episodeID)
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
			event, err := readApprovalEvent(tx, id)
			if err != nil {
				return err
			}
			if event == nil {
				return storage.ErrNotFound
			}
			results = append(results, event)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readApprovalEvent reads an event record. Returns nil when absent.
func readApprovalEvent(tx *badger.Txn, id uuid.UUID) (*core.ApprovalEvent, error) {
	item, err := tx.Get(makeApprovalEventKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var event *core.ApprovalEvent
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		event, unmarshalErr = storage.UnmarshalApprovalEvent(val)
		return unmarshalErr
	})
	return event, err
}
