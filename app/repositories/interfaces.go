package repositories

import (
	"time"

	"community/app/models"

	"github.com/dgraph-io/badger/v4"
)

// UnitOfWork runs repository operations atomically. Save and Append calls
// that must commit together are issued inside a single Update.
type UnitOfWork interface {
	Update(fn func(txn *badger.Txn) error) error
	View(fn func(txn *badger.Txn) error) error
}

// PostRepository defines the interface for post data access. Save takes the
// caller's transaction so the write can share a unit of work with the
// outbox append.
type PostRepository interface {
	Save(txn *badger.Txn, post *models.Post) error
	GetByID(id string) (*models.Post, error)
	List(limit, offset int) ([]*models.Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error)
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Save(txn *badger.Txn, comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByPost(postID string) ([]*models.Comment, error)
}

// LikeRepository defines the interface for like data access. Insert fails
// with a ConflictError when the (postID, userID) pair already exists; the
// check runs inside the same transaction as the write, which makes it the
// authoritative uniqueness guard.
type LikeRepository interface {
	Insert(txn *badger.Txn, like *models.Like) error
	Get(postID, userID string) (*models.Like, error)
	Delete(txn *badger.Txn, postID, userID string) error
	CountByPost(postID string) (int, error)
}

// OutboxRepository defines the interface for the durable event journal.
// Append shares the caller's transaction; the claim/mark operations run in
// their own transactions since dispatch is decoupled from commands.
type OutboxRepository interface {
	Append(txn *badger.Txn, entries ...*models.OutboxEntry) error
	ClaimBatch(maxRetries, limit int) ([]*models.OutboxEntry, error)
	MarkPublished(entry *models.OutboxEntry) (bool, error)
	MarkRetry(entry *models.OutboxEntry) error
	DeadLetters(maxRetries int) ([]*models.OutboxEntry, error)
	FindStale(before time.Time) ([]*models.OutboxEntry, error)
	CountUnpublished() (int, error)
	DeletePublishedBefore(cutoff time.Time) (int, error)
}
