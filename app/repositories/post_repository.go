package repositories

import (
	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Save writes the post inside the caller's transaction with an optimistic
// version check: the stored version must match the version the caller
// loaded, otherwise another writer got there first and the save fails with
// a ConflictError.
func (r *BadgerPostRepository) Save(txn *badger.Txn, post *models.Post) error {
	key := postKey(post.ID)

	item, err := txn.Get(key)
	switch {
	case err == badger.ErrKeyNotFound:
		if post.Version != 0 {
			return models.ErrNotFound
		}
	case err != nil:
		return err
	default:
		var stored models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Version != post.Version {
			return &models.ConflictError{Reason: "post was modified concurrently"}
		}
	}

	post.Version++
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves a paginated list of posts, skipping soft-deleted ones.
func (r *BadgerPostRepository) List(limit, offset int) ([]*models.Post, error) {
	return r.list(limit, offset, func(*models.Post) bool { return true })
}

// ListByAuthor retrieves a paginated list of one author's posts.
func (r *BadgerPostRepository) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	return r.list(limit, offset, func(p *models.Post) bool { return p.AuthorID == authorID })
}

func (r *BadgerPostRepository) list(limit, offset int, match func(*models.Post) bool) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		count := 0
		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var post models.Post
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if post.Deleted || !match(&post) {
				continue
			}
			if count < offset {
				count++
				continue
			}
			if count >= offset+limit {
				break
			}
			posts = append(posts, &post)
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
