package repositories

import (
	"community/app/identity"
	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerProfileRepository is the local backing store for the profile cache.
// Writes are last-writer-wins: refreshes store idempotent snapshots, so a
// lost update is harmless.
type BadgerProfileRepository struct {
	db *badger.DB
}

// NewBadgerProfileRepository creates a new BadgerProfileRepository
func NewBadgerProfileRepository(db *badger.DB) *BadgerProfileRepository {
	return &BadgerProfileRepository{db: db}
}

// Save stores or replaces a profile snapshot.
func (r *BadgerProfileRepository) Save(snapshot *identity.ProfileSnapshot) error {
	data, err := marshalEntity(snapshot)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(snapshot.UserID), data)
	})
}

// FindByID retrieves a cached profile snapshot.
func (r *BadgerProfileRepository) FindByID(userID string) (*identity.ProfileSnapshot, error) {
	var snapshot identity.ProfileSnapshot

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &snapshot)
		})
	})

	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete evicts a cached profile snapshot.
func (r *BadgerProfileRepository) Delete(userID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(profileKey(userID))
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(profileKey(userID))
	})
}
