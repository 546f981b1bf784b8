package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage"
)

// EpisodeRepository implements storage.EpisodeRepository for BadgerDB.
type EpisodeRepository struct {
	backend *Backend
}

var _ storage.EpisodeRepository = (*EpisodeRepository)(nil)

// NewEpisodeRepository creates a new EpisodeRepository.
func NewEpisodeRepository(backend *Backend) *EpisodeRepository {
	return &EpisodeRepository{backend: backend}
}

// Close implements storage.Repository.
func (r *EpisodeRepository) Close() error {
	return nil
}

// GetCanonicalEpisode retrieves a single episode by ID.
func (r *EpisodeRepository) GetCanonicalEpisode(ctx context.Context, id uuid.UUID) (*core.CanonicalEpisode, error) {
	var result *core.CanonicalEpisode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEpisode(tx, id)
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

// ListEpisodesBySeries retrieves all episodes belonging to a series,
// ordered by ID.
func (r *EpisodeRepository) ListEpisodesBySeries(ctx context.Context, seriesProfileID uuid.UUID) ([]*core.CanonicalEpisode, error) {
	var results []*core.CanonicalEpisode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeKey(episodeSeriesPrefix, seriesProfileID)
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
			episode, err := readEpisode(tx, id)
			if err != nil {
				return err
			}
			if episode == nil {
				return storage.ErrNotFound
			}
			results = append(results, episode)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ScanCanonicalEpisodes retrieves up to limit episodes with IDs greater
// than after, ordered by ID.
func (r *EpisodeRepository) ScanCanonicalEpisodes(ctx context.Context, after uuid.UUID, limit int) ([]*core.CanonicalEpisode, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	var results []*core.CanonicalEpisode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(episodePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the first key strictly greater than the after key.
		seek := append(makeEpisodeKey(after), 0)
		for iter.Seek(seek); iter.Valid() && len(results) < limit; iter.Next() {
			var episode *core.CanonicalEpisode
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				episode, unmarshalErr = storage.UnmarshalCanonicalEpisode(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			episode, err = decodeEpisodeXML(tx, episode)
			if err != nil {
				return err
			}
			results = append(results, episode)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readEpisode reads an episode record and decodes its possibly-compressed
// TEI XML. Returns nil when absent.
func readEpisode(tx *badger.Txn, id uuid.UUID) (*core.CanonicalEpisode, error) {
	item, err := tx.Get(makeEpisodeKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var episode *core.CanonicalEpisode
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		episode, unmarshalErr = storage.UnmarshalCanonicalEpisode(val)
		return unmarshalErr
	})
	if err != nil {
		return nil, err
	}
	return decodeEpisodeXML(tx, episode)
}

func decodeEpisodeXML(tx *badger.Txn, episode *core.CanonicalEpisode) (*core.CanonicalEpisode, error) {
	blob, err := readValue(tx, makeEpisodeBlobKey(episode.Id))
	if err != nil {
		return nil, err
	}
	episode.TeiXML, err = storage.DecodeText(episode.TeiXML, blob, "canonical_episode.tei_xml")
	if err != nil {
		return nil, err
	}
	return episode, nil
}
