package services

import (
	"context"
	"testing"

	"community/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createTestPost(t, f, "alice")

	require.NoError(t, f.likes.LikePost(ctx, post.ID, "bob"))

	count, err := f.likes.CountLikes(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, []string{models.EventPostCreated, models.EventPostLiked}, f.outboxEventTypes(t))
}

func TestLikePostTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createTestPost(t, f, "alice")

	require.NoError(t, f.likes.LikePost(ctx, post.ID, "bob"))
	err := f.likes.LikePost(ctx, post.ID, "bob")
	var conflictErr *models.ConflictError
	assert.ErrorAs(t, err, &conflictErr)

	count, err := f.likes.CountLikes(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The duplicate attempt must not leave a second PostLiked behind.
	assert.Equal(t, []string{models.EventPostCreated, models.EventPostLiked}, f.outboxEventTypes(t))
}

func TestLikeDeletedPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createTestPost(t, f, "alice")
	require.NoError(t, f.posts.DeletePost(ctx, post.ID, "alice"))

	err := f.likes.LikePost(ctx, post.ID, "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLikeMissingPost(t *testing.T) {
	f := newFixture(t)

	err := f.likes.LikePost(context.Background(), "no-such-post", "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUnlikePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createTestPost(t, f, "alice")

	require.NoError(t, f.likes.LikePost(ctx, post.ID, "bob"))
	require.NoError(t, f.likes.UnlikePost(ctx, post.ID, "bob"))

	count, err := f.likes.CountLikes(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Like then unlike leaves both events; unliking removes the row, not
	// the history.
	assert.Equal(t,
		[]string{models.EventPostCreated, models.EventPostLiked, models.EventPostUnliked},
		f.outboxEventTypes(t))

	// Liking again after an unlike is allowed.
	require.NoError(t, f.likes.LikePost(ctx, post.ID, "bob"))
}

func TestUnlikeWithoutLike(t *testing.T) {
	f := newFixture(t)
	post := createTestPost(t, f, "alice")

	err := f.likes.UnlikePost(context.Background(), post.ID, "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Equal(t, []string{models.EventPostCreated}, f.outboxEventTypes(t))
}

func TestLikeCountPerPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := createTestPost(t, f, "alice")
	second := createTestPost(t, f, "alice")

	require.NoError(t, f.likes.LikePost(ctx, first.ID, "bob"))
	require.NoError(t, f.likes.LikePost(ctx, first.ID, "admin"))
	require.NoError(t, f.likes.LikePost(ctx, second.ID, "bob"))

	count, err := f.likes.CountLikes(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = f.likes.CountLikes(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
