package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// SeriesProfileRepository implements storage.SeriesProfileRepository for BadgerDB.
type SeriesProfileRepository struct {
	backend *Backend
}

var _ storage.SeriesProfileRepository = (*SeriesProfileRepository)(nil)

// NewSeriesProfileRepository creates a new SeriesProfileRepository.
func NewSeriesProfileRepository(backend *Backend) *SeriesProfileRepository {
	return &SeriesProfileRepository{backend: backend}
}

// Close implements storage.Repository. The repository holds no resources
// of its own; the backend owns the database handle.
func (r *SeriesProfileRepository) Close() error {
	return nil
}

// GetSeriesProfile retrieves a single series profile by ID.
func (r *SeriesProfileRepository) GetSeriesProfile(ctx context.Context, id uuid.UUID) (*core.SeriesProfile, error) {
	var result *core.SeriesProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSeriesProfile(tx, makeSeriesProfileKey(id))
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

// GetSeriesProfileBySlug retrieves a series profile by its unique slug.
func (r *SeriesProfileRepository) GetSeriesProfileBySlug(ctx context.Context, slug string) (*core.SeriesProfile, error) {
	var result *core.SeriesProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		idBytes, err := readValue(tx, makeSeriesSlugKey(slug))
		if err != nil {
			return err
		}
		if idBytes == nil {
			return storage.ErrNotFound
		}
		id, err := uuid.FromBytes(idBytes)
		if err != nil {
			return err
		}
		result, err = readSeriesProfile(tx, makeSeriesProfileKey(id))
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

// ListSeriesProfiles retrieves all series profiles, ordered by ID.
func (r *SeriesProfileRepository) ListSeriesProfiles(ctx context.Context) ([]*core.SeriesProfile, error) {
	var results []*core.SeriesProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(seriesProfilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.SeriesProfile
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				profile, unmarshalErr = storage.UnmarshalSeriesProfile(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			results = append(results, profile)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readSeriesProfile reads a profile record. Returns nil when absent.
func readSeriesProfile(tx *badger.Txn, key []byte) (*core.SeriesProfile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.SeriesProfile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalSeriesProfile(val)
		return unmarshalErr
	})
	return profile, err
}
