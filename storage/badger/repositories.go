package badger

import (
	"github.com/poiesic/canonica/storage"
)

// Repositories bundles read access to every entity with the unit-of-work
// factory, all sharing one BadgerDB backend.
type Repositories struct {
	backend *Backend

	Series    storage.SeriesProfileRepository
	Headers   storage.TeiHeaderRepository
	Episodes  storage.EpisodeRepository
	Jobs      storage.IngestionJobRepository
	Sources   storage.SourceDocumentRepository
	Approvals storage.ApprovalEventRepository
	Factory   storage.UnitOfWorkFactory
}

// NewRepositories opens the database at filePath and wires repositories
// and the unit-of-work factory on top of it. Caller must Close when done.
func NewRepositories(filePath string) (*Repositories, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return newRepositories(backend), nil
}

func newRepositories(backend *Backend) *Repositories {
	return &Repositories{
		backend:   backend,
		Series:    NewSeriesProfileRepository(backend),
		Headers:   NewTeiHeaderRepository(backend),
		Episodes:  NewEpisodeRepository(backend),
		Jobs:      NewIngestionJobRepository(backend),
		Sources:   NewSourceDocumentRepository(backend),
		Approvals: NewApprovalEventRepository(backend),
		Factory:   NewUnitOfWorkFactory(backend),
	}
}

// Close closes every repository and shuts the backend down.
func (r *Repositories) Close() error {
	repos := []storage.Repository{
		r.Approvals, r.Sources, r.Jobs, r.Episodes, r.Headers, r.Series,
	}
	for _, repo := range repos {
		if err := repo.Close(); err != nil {
			return err
		}
	}
	return r.backend.Close()
}
