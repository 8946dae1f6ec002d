package services

import (
	"testing"

	"community/app/auth"
	"community/app/identity"
	"community/app/repositories"
	"community/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

// fixture wires the services against a throwaway Badger store and a mock
// user directory with three known users: alice, bob, and admin.
type fixture struct {
	store       *repositories.Store
	directory   *mock.Directory
	profiles    *identity.ProfileCache
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	outbox      repositories.OutboxRepository
	posts       *PostService
	comments    *CommentService
	likes       *LikeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := repositories.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})

	directory := mock.NewDirectory()
	directory.AddUser("alice", "alice", "Alice")
	directory.AddUser("bob", "bob", "Bob")
	directory.AddUser("admin", "admin", "Admin", auth.AdminRole)

	profiles := identity.NewProfileCache(
		repositories.NewBadgerProfileRepository(store.DB()),
		directory,
		identity.DefaultStaleAfter,
	)

	postRepo := repositories.NewBadgerPostRepository(store.DB())
	commentRepo := repositories.NewBadgerCommentRepository(store.DB())
	likeRepo := repositories.NewBadgerLikeRepository(store.DB())
	outboxRepo := repositories.NewBadgerOutboxRepository(store.DB())

	return &fixture{
		store:       store,
		directory:   directory,
		profiles:    profiles,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		outbox:      outboxRepo,
		posts:       NewPostService(postRepo, outboxRepo, store, profiles),
		comments:    NewCommentService(commentRepo, postRepo, outboxRepo, store, profiles),
		likes:       NewLikeService(likeRepo, postRepo, outboxRepo, store, profiles),
	}
}

// outboxEventTypes returns the event types of all outbox entries, in key
// order.
func (f *fixture) outboxEventTypes(t *testing.T) []string {
	t.Helper()
	entries, err := f.outbox.ClaimBatch(1000, 0)
	require.NoError(t, err)
	types := make([]string, 0, len(entries))
	for _, entry := range entries {
		types = append(types, entry.EventType)
	}
	return types
}
