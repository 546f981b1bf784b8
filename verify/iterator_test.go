package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuditStorage(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

// seedEpisodes persists n episodes under one series, each with its own
// header, and returns them in creation order.
func seedEpisodes(t *testing.T, repos *badger.Repositories, n int) []*core.CanonicalEpisode {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	uow, err := repos.Factory.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback()

	profile := &core.SeriesProfile{
		Id:        auditID(t),
		Slug:      "deep-currents",
		Title:     "Deep Currents",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, uow.Series().Add(profile))
	require.NoError(t, uow.Flush())

	episodes := make([]*core.CanonicalEpisode, 0, n)
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Episode %d", i+1)
		header := &core.TeiHeader{
			Id:        auditID(t),
			Title:     title,
			Payload:   map[string]any{"title": title},
			RawXML:    "<TEI><text><body><p>" + title + "</p></body></text></TEI>",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, uow.Headers().Add(header))
		require.NoError(t, uow.Flush())

		episode := &core.CanonicalEpisode{
			Id:              auditID(t),
			SeriesProfileId: profile.Id,
			TeiHeaderId:     header.Id,
			Title:           title,
			TeiXML:          header.RawXML,
			Status:          core.EpisodeStatusDraft,
			ApprovalState:   core.ApprovalStateDraft,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		require.NoError(t, uow.Episodes().Add(episode))
		require.NoError(t, uow.Flush())
		episodes = append(episodes, episode)
	}

	require.NoError(t, uow.Commit())
	return episodes
}

// seedSources persists n source documents against one ingestion job and
// returns them in creation order.
func seedSources(t *testing.T, repos *badger.Repositories, n int) []*core.SourceDocument {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	episodes := seedEpisodes(t, repos, 1)
	episode := episodes[0]

	uow, err := repos.Factory.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback()

	job := &core.IngestionJob{
		Id:              auditID(t),
		SeriesProfileId: episode.SeriesProfileId,
		TargetEpisodeId: episode.Id,
		Status:          core.IngestionStatusCompleted,
		RequestedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, uow.Jobs().Add(job))
	require.NoError(t, uow.Flush())

	sources := make([]*core.SourceDocument, 0, n)
	for i := 0; i < n; i++ {
		document := &core.SourceDocument{
			Id:                 auditID(t),
			IngestionJobId:     job.Id,
			CanonicalEpisodeId: episode.Id,
			SourceType:         core.SourceTypeTranscript,
			SourceURI:          fmt.Sprintf("s3://episodic/sources/audit/%d.vtt", i+1),
			Weight:             0.5,
			ContentHash:        "cafe0000cafe0000cafe0000cafe0000",
			CreatedAt:          now,
		}
		require.NoError(t, uow.Sources().Add(document))
		sources = append(sources, document)
	}
	require.NoError(t, uow.Commit())
	return sources
}

func TestEpisodeIterator_Batches(t *testing.T) {
	repos := setupAuditStorage(t)
	episodes := seedEpisodes(t, repos, 7)

	iterator := NewEpisodeIterator(repos.Episodes, 3)

	var sizes []int
	var seen []uuid.UUID
	err := iterator.ForEach(context.Background(), func(batch []*core.CanonicalEpisode) error {
		sizes = append(sizes, len(batch))
		for _, episode := range batch {
			seen = append(seen, episode.Id)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1}, sizes)
	require.Len(t, seen, len(episodes))
	for i, episode := range episodes {
		assert.Equal(t, episode.Id, seen[i], "episodes should arrive in creation order")
	}
}

func TestEpisodeIterator_ExactMultiple(t *testing.T) {
	repos := setupAuditStorage(t)
	seedEpisodes(t, repos, 4)

	iterator := NewEpisodeIterator(repos.Episodes, 2)

	var sizes []int
	err := iterator.ForEach(context.Background(), func(batch []*core.CanonicalEpisode) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sizes)
}

func TestEpisodeIterator_Empty(t *testing.T) {
	repos := setupAuditStorage(t)

	iterator := NewEpisodeIterator(repos.Episodes, 10)

	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.CanonicalEpisode) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls, "fn should not run for empty storage")
}

func TestEpisodeIterator_StopsOnFnError(t *testing.T) {
	repos := setupAuditStorage(t)
	seedEpisodes(t, repos, 5)

	iterator := NewEpisodeIterator(repos.Episodes, 2)

	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.CanonicalEpisode) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls, "iteration should stop on first fn error")
}

func TestEpisodeIterator_ContextCanceled(t *testing.T) {
	repos := setupAuditStorage(t)
	seedEpisodes(t, repos, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iterator := NewEpisodeIterator(repos.Episodes, 10)
	err := iterator.ForEach(ctx, func(batch []*core.CanonicalEpisode) error {
		t.Fatal("fn should not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEpisodeIterator_ScanError(t *testing.T) {
	store := &fakeEpisodeStore{scanErr: assert.AnError}

	iterator := NewEpisodeIterator(store, 10)
	err := iterator.ForEach(context.Background(), func(batch []*core.CanonicalEpisode) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrScanFailed)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEpisodeIterator_DefaultBatchSize(t *testing.T) {
	repos := setupAuditStorage(t)

	iterator := NewEpisodeIterator(repos.Episodes, 0)
	assert.Equal(t, DefaultBatchSize, iterator.batchSize)

	iterator = NewEpisodeIterator(repos.Episodes, -5)
	assert.Equal(t, DefaultBatchSize, iterator.batchSize)
}

func TestSourceIterator_Batches(t *testing.T) {
	repos := setupAuditStorage(t)
	sources := seedSources(t, repos, 5)

	iterator := NewSourceIterator(repos.Sources, 2)

	var sizes []int
	var seen []uuid.UUID
	err := iterator.ForEach(context.Background(), func(batch []*core.SourceDocument) error {
		sizes = append(sizes, len(batch))
		for _, document := range batch {
			seen = append(seen, document.Id)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, sizes)
	require.Len(t, seen, len(sources))
	for i, document := range sources {
		assert.Equal(t, document.Id, seen[i], "documents should arrive in creation order")
	}
}

func TestSourceIterator_ScanError(t *testing.T) {
	store := &fakeSourceStore{scanErr: assert.AnError}

	iterator := NewSourceIterator(store, 10)
	err := iterator.ForEach(context.Background(), func(batch []*core.SourceDocument) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrScanFailed)
}
