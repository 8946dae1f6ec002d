package repositories

import (
	"errors"
	"fmt"
	"os"

	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps the Badger database. A Badger transaction is the unit of work
// for this service: the aggregate write and the outbox append for one
// command always share a single Update transaction, so either both are
// committed or neither is.
type Store struct {
	db     *badger.DB
	path   string
	isTemp bool
}

// Open opens the database at path. An empty path opens a throwaway
// database in a unique temporary directory, removed on Close; tests rely
// on this for isolation.
func Open(path string) (*Store, error) {
	isTemp := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "community_test_db_")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %v", err)
		}
		path = tempPath
		isTemp = true
	}

	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	if isTemp {
		if err := db.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to drop all keys: %v", err)
		}
	}

	return &Store{db: db, path: path, isTemp: isTemp}, nil
}

// DB exposes the underlying Badger handle for repository constructors.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Update runs fn inside one read-write transaction. Badger detects
// conflicting concurrent transactions at commit; a losing writer gets a
// ConflictError instead of silently overwriting.
func (s *Store) Update(fn func(txn *badger.Txn) error) error {
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return &models.ConflictError{Reason: "concurrent modification, retry the command"}
	}
	return err
}

// View runs fn inside one read-only transaction.
func (s *Store) View(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Close closes the database and removes it entirely if it was temporary.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	if s.isTemp {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("failed to cleanup test database: %v", err)
		}
	}
	return nil
}
