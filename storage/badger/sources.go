package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// SourceDocumentRepository implements storage.SourceDocumentRepository for BadgerDB.
type SourceDocumentRepository struct {
	backend *Backend
}

var _ storage.SourceDocumentRepository = (*SourceDocumentRepository)(nil)

// NewSourceDocumentRepository creates a new SourceDocumentRepository.
func NewSourceDocumentRepository(backend *Backend) *SourceDocumentRepository {
	return &SourceDocumentRepository{backend: backend}
}

// Close implements storage.Repository.
func (r *SourceDocumentRepository) Close() error {
	return nil
}

// GetSourceDocument retrieves a single source document by ID.
func (r *SourceDocumentRepository) GetSourceDocument(ctx context.Context, id uuid.UUID) (*core.SourceDocument, error) {
	var result *core.SourceDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSourceDocument(tx, id)
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

// ListSourcesByEpisode retrieves all source documents attached to an
// episode, ordered by ID.
func (r *SourceDocumentRepository) ListSourcesByEpisode(ctx context.Context, episodeID uuid.UUID) ([]*core.SourceDocument, error) {
	var results []*core.SourceDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeKey(sourceEpisodePrefix, episodeID)
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
			document, err := readSourceDocument(tx, id)
			if err != nil {
				return err
			}
			if document == nil {
				return storage.ErrNotFound
			}
			results = append(results, document)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ScanSourceDocuments retrieves up to limit source documents with IDs
// greater than after, ordered by ID.
func (r *SourceDocumentRepository) ScanSourceDocuments(ctx context.Context, after uuid.UUID, limit int) ([]*core.SourceDocument, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	var results []*core.SourceDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sourcePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the first key strictly greater than the after key.
		seek := append(makeSourceDocumentKey(after), 0)
		for iter.Seek(seek); iter.Valid() && len(results) < limit; iter.Next() {
			var document *core.SourceDocument
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				document, unmarshalErr = storage.UnmarshalSourceDocument(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			results = append(results, document)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readSourceDocument reads a source document record. Returns nil when absent.
func readSourceDocument(tx *badger.Txn, id uuid.UUID) (*core.SourceDocument, error) {
	item, err := tx.Get(makeSourceDocumentKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var document *core.SourceDocument
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		document, unmarshalErr = storage.UnmarshalSourceDocument(val)
		return unmarshalErr
	})
	return document, err
}
