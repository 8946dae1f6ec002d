package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"community/app/models"
	"community/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures delivered entries and can be told to fail.
type recordingSink struct {
	mu        sync.Mutex
	delivered []*models.OutboxEntry
	failWith  error
}

func (s *recordingSink) Deliver(_ context.Context, entry *models.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.delivered = append(s.delivered, entry)
	return nil
}

func (s *recordingSink) setFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *recordingSink) deliveredTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.delivered))
	for _, entry := range s.delivered {
		types = append(types, entry.EventType)
	}
	return types
}

func newDispatcherFixture(t *testing.T) (*repositories.Store, *repositories.BadgerOutboxRepository, *recordingSink, *Dispatcher) {
	t.Helper()
	store, err := repositories.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})

	repo := repositories.NewBadgerOutboxRepository(store.DB())
	sink := &recordingSink{}
	dispatcher := NewDispatcher(repo, sink, 10*time.Millisecond, 50, 3, time.Hour)
	return store, repo, sink, dispatcher
}

func appendEntries(t *testing.T, store *repositories.Store, repo *repositories.BadgerOutboxRepository, n int) []*models.OutboxEntry {
	t.Helper()
	entries := make([]*models.OutboxEntry, 0, n)
	for i := 0; i < n; i++ {
		_, event, err := models.NewPost("user-1", models.PostContent{Text: "payload"})
		require.NoError(t, err)
		entry, err := models.NewOutboxEntry(event)
		require.NoError(t, err)
		require.NoError(t, store.Update(func(txn *badger.Txn) error {
			return repo.Append(txn, entry)
		}))
		entries = append(entries, entry)
	}
	return entries
}

func TestDispatchOncePublishes(t *testing.T) {
	store, repo, sink, dispatcher := newDispatcherFixture(t)
	appendEntries(t, store, repo, 3)

	published, err := dispatcher.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, published)
	assert.Len(t, sink.deliveredTypes(), 3)

	count, err := repo.CountUnpublished()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A second pass finds nothing to do.
	published, err = dispatcher.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
	assert.Len(t, sink.deliveredTypes(), 3, "published entries are not redelivered")
}

func TestDispatchOnceRetriesOnFailure(t *testing.T) {
	store, repo, sink, dispatcher := newDispatcherFixture(t)
	appendEntries(t, store, repo, 1)

	sink.setFailure(errors.New("broker down"))

	published, err := dispatcher.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)

	batch, err := repo.ClaimBatch(3, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 1, batch[0].RetryCount)

	// Recovery: the entry is still claimable and publishes on the next pass.
	sink.setFailure(nil)
	published, err = dispatcher.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	count, err := repo.CountUnpublished()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDispatchDeadLettersAfterMaxRetries(t *testing.T) {
	store, repo, sink, dispatcher := newDispatcherFixture(t)
	appendEntries(t, store, repo, 1)

	sink.setFailure(errors.New("poison payload"))

	// maxRetries is 3; each pass claims and fails once.
	for i := 0; i < 3; i++ {
		published, err := dispatcher.DispatchOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, published)
	}

	batch, err := repo.ClaimBatch(3, 10)
	require.NoError(t, err)
	assert.Empty(t, batch, "exhausted entries are never claimed again")

	dead, err := repo.DeadLetters(3)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, 3, dead[0].RetryCount)
	assert.False(t, dead[0].Published)

	// Even a healthy sink never sees the dead letter again.
	sink.setFailure(nil)
	published, err := dispatcher.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}

func TestDispatchHonorsBatchSize(t *testing.T) {
	store, repo, sink, _ := newDispatcherFixture(t)
	appendEntries(t, store, repo, 5)

	small := NewDispatcher(repo, sink, 10*time.Millisecond, 2, 3, time.Hour)
	published, err := small.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)

	count, err := repo.CountUnpublished()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewDispatcherNormalizesDurations(t *testing.T) {
	_, repo, sink, _ := newDispatcherFixture(t)

	dispatcher := NewDispatcher(repo, sink, 0, 50, 3, 0)

	// Run would panic building tickers if the zero durations survived.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, dispatcher.Run(ctx))
}

func TestDispatchStopsOnCancelledContext(t *testing.T) {
	store, repo, _, dispatcher := newDispatcherFixture(t)
	appendEntries(t, store, repo, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dispatcher.DispatchOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDrainsUntilCancelled(t *testing.T) {
	store, repo, sink, dispatcher := newDispatcherFixture(t)
	appendEntries(t, store, repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- dispatcher.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		count, err := repo.CountUnpublished()
		return err == nil && count == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, sink.deliveredTypes(), 2)
}
