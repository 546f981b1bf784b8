package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// TeiHeaderRepository implements storage.TeiHeaderRepository for BadgerDB.
type TeiHeaderRepository struct {
	backend *Backend
}

var _ storage.TeiHeaderRepository = (*TeiHeaderRepository)(nil)

// NewTeiHeaderRepository creates a new TeiHeaderRepository.
func NewTeiHeaderRepository(backend *Backend) *TeiHeaderRepository {
	return &TeiHeaderRepository{backend: backend}
}

// Close implements storage.Repository.
func (r *TeiHeaderRepository) Close() error {
	return nil
}

// GetTeiHeader retrieves a single TEI header by ID.
func (r *TeiHeaderRepository) GetTeiHeader(ctx context.Context, id uuid.UUID) (*core.TeiHeader, error) {
	var result *core.TeiHeader
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTeiHeader(tx, id)
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

// readTeiHeader reads a header record and decodes its possibly-compressed
// raw XML. Returns nil when absent.
func readTeiHeader(tx *badger.Txn, id uuid.UUID) (*core.TeiHeader, error) {
	item, err := tx.Get(makeTeiHeaderKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var header *core.TeiHeader
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		header, unmarshalErr = storage.UnmarshalTeiHeader(val)
		return unmarshalErr
	})
	if err != nil {
		return nil, err
	}

	blob, err := readValue(tx, makeTeiHeaderBlobKey(id))
	if err != nil {
		return nil, err
	}
	header.RawXML, err = storage.DecodeText(header.RawXML, blob, "tei_header.raw_xml")
	if err != nil {
		return nil, err
	}
	return header, nil
}
