package repositories

import (
	"errors"
	"time"

	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOutboxRepository implements OutboxRepository using BadgerDB. Keys
// embed the occurrence time, so scans yield entries in occurredAt order.
type BadgerOutboxRepository struct {
	db *badger.DB
}

// NewBadgerOutboxRepository creates a new BadgerOutboxRepository
func NewBadgerOutboxRepository(db *badger.DB) *BadgerOutboxRepository {
	return &BadgerOutboxRepository{db: db}
}

// Append writes entries inside the caller's transaction. The caller saves
// the aggregate in the same transaction; that shared commit is what keeps
// state changes and their events from diverging.
func (r *BadgerOutboxRepository) Append(txn *badger.Txn, entries ...*models.OutboxEntry) error {
	for _, entry := range entries {
		data, err := marshalEntity(entry)
		if err != nil {
			return err
		}
		if err := txn.Set(outboxKey(entry), data); err != nil {
			return err
		}
	}
	return nil
}

// ClaimBatch returns up to limit entries that are unpublished and under the
// retry limit, oldest first. Claiming is advisory; the atomic transition
// happens in MarkPublished, so racing dispatchers are safe.
func (r *BadgerOutboxRepository) ClaimBatch(maxRetries, limit int) ([]*models.OutboxEntry, error) {
	return r.scan(limit, func(e *models.OutboxEntry) bool {
		return e.Eligible(maxRetries)
	})
}

// MarkPublished transitions an entry to published exactly once. It returns
// false when another dispatcher already claimed the entry, either because
// the stored entry is already published or because the conditional update
// lost a commit race.
func (r *BadgerOutboxRepository) MarkPublished(entry *models.OutboxEntry) (bool, error) {
	key := outboxKey(entry)
	var won bool
	var publishedAt time.Time

	err := r.db.Update(func(txn *badger.Txn) error {
		won = false
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored models.OutboxEntry
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Published {
			return nil
		}

		publishedAt = time.Now().UTC()
		stored.Published = true
		stored.PublishedAt = &publishedAt
		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return false, nil
		}
		return false, err
	}

	if won {
		entry.Published = true
		entry.PublishedAt = &publishedAt
	}
	return won, nil
}

// MarkRetry records a failed delivery attempt: retry count up, last retry
// timestamp set. A concurrently published entry is left alone.
func (r *BadgerOutboxRepository) MarkRetry(entry *models.OutboxEntry) error {
	key := outboxKey(entry)
	var retryCount int
	var lastRetryAt time.Time

	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored models.OutboxEntry
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Published {
			retryCount = stored.RetryCount
			return nil
		}

		lastRetryAt = time.Now().UTC()
		stored.RetryCount++
		stored.LastRetryAt = &lastRetryAt
		retryCount = stored.RetryCount

		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return nil
		}
		return err
	}

	entry.RetryCount = retryCount
	if !lastRetryAt.IsZero() {
		entry.LastRetryAt = &lastRetryAt
	}
	return nil
}

// DeadLetters returns entries that exhausted their retries without being
// published. They are never claimed again and never deleted here; the
// operational alert path owns them.
func (r *BadgerOutboxRepository) DeadLetters(maxRetries int) ([]*models.OutboxEntry, error) {
	return r.scan(0, func(e *models.OutboxEntry) bool {
		return !e.Published && e.RetryCount >= maxRetries
	})
}

// FindStale returns unpublished entries that occurred before the cutoff,
// regardless of retry count.
func (r *BadgerOutboxRepository) FindStale(before time.Time) ([]*models.OutboxEntry, error) {
	return r.scan(0, func(e *models.OutboxEntry) bool {
		return e.Stale(before)
	})
}

// CountUnpublished counts entries not yet published.
func (r *BadgerOutboxRepository) CountUnpublished() (int, error) {
	entries, err := r.scan(0, func(e *models.OutboxEntry) bool {
		return !e.Published
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DeletePublishedBefore removes published entries older than the cutoff.
// This is the retention sweep; it never touches unpublished entries.
func (r *BadgerOutboxRepository) DeletePublishedBefore(cutoff time.Time) (int, error) {
	victims, err := r.scan(0, func(e *models.OutboxEntry) bool {
		return e.Published && e.OccurredAt.Before(cutoff)
	})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, entry := range victims {
		err := r.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(outboxKey(entry))
		})
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// scan iterates the outbox prefix collecting entries matching the filter.
// A limit of 0 means no limit.
func (r *BadgerOutboxRepository) scan(limit int, match func(*models.OutboxEntry) bool) ([]*models.OutboxEntry, error) {
	var entries []*models.OutboxEntry
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(OutboxKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			item := it.Item()
			var entry models.OutboxEntry
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &entry)
			})
			if err != nil {
				return err
			}
			if match(&entry) {
				entries = append(entries, &entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
