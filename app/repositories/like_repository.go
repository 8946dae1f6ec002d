package repositories

import (
	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerLikeRepository implements LikeRepository using BadgerDB
type BadgerLikeRepository struct {
	db *badger.DB
}

// NewBadgerLikeRepository creates a new BadgerLikeRepository
func NewBadgerLikeRepository(db *badger.DB) *BadgerLikeRepository {
	return &BadgerLikeRepository{db: db}
}

// Insert writes a like inside the caller's transaction. The existence check
// and the write share the transaction, so concurrent duplicate attempts are
// resolved here: one commits, the others fail.
func (r *BadgerLikeRepository) Insert(txn *badger.Txn, like *models.Like) error {
	key := likeKey(like.PostID, like.UserID)

	_, err := txn.Get(key)
	if err == nil {
		return &models.ConflictError{Reason: "user has already liked this post"}
	}
	if err != badger.ErrKeyNotFound {
		return err
	}

	data, err := marshalEntity(like)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// Get retrieves a like by its composite (postID, userID) identity.
func (r *BadgerLikeRepository) Get(postID, userID string) (*models.Like, error) {
	var like models.Like

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(likeKey(postID, userID))
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &like)
		})
	})

	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Delete removes a like inside the caller's transaction. Unliking is a row
// deletion; there is no "unliked" record.
func (r *BadgerLikeRepository) Delete(txn *badger.Txn, postID, userID string) error {
	key := likeKey(postID, userID)

	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	return txn.Delete(key)
}

// CountByPost counts the likes on a post.
func (r *BadgerLikeRepository) CountByPost(postID string) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := likePrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
