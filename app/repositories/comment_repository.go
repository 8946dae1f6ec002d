package repositories

import (
	"sort"

	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Save writes the comment inside the caller's transaction with the same
// optimistic version check as posts.
func (r *BadgerCommentRepository) Save(txn *badger.Txn, comment *models.Comment) error {
	key := commentKey(comment.ID)

	item, err := txn.Get(key)
	switch {
	case err == badger.ErrKeyNotFound:
		if comment.Version != 0 {
			return models.ErrNotFound
		}
	case err != nil:
		return err
	default:
		var stored models.Comment
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Version != comment.Version {
			return &models.ConflictError{Reason: "comment was modified concurrently"}
		}
	}

	comment.Version++
	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commentKey(id))
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
	})

	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all live comments for a post, oldest first.
func (r *BadgerCommentRepository) ListByPost(postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var comment models.Comment
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return err
			}
			if comment.PostID == postID && !comment.Deleted {
				comments = append(comments, &comment)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
