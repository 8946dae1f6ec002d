package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin([]string{"USER", "ADMIN"}))
	assert.False(t, IsAdmin([]string{"USER"}))
	assert.False(t, IsAdmin(nil))
}

func TestCanEditPost(t *testing.T) {
	assert.True(t, CanEditPost("u1", "u1").Allowed)
	assert.False(t, CanEditPost("u1", "u2").Allowed)
	assert.False(t, CanEditPost("", "u2").Allowed)
	assert.False(t, CanEditPost("u1", "").Allowed)
}

func TestCanDeletePost(t *testing.T) {
	assert.True(t, CanDeletePost("u1", "u1", nil).Allowed, "owner deletes own post")
	assert.True(t, CanDeletePost("u1", "u2", []string{AdminRole}).Allowed, "admin deletes any post")
	assert.False(t, CanDeletePost("u1", "u2", []string{"USER"}).Allowed)

	denied := CanDeletePost("u1", "u2", nil)
	assert.False(t, denied.Allowed)
	assert.NotEmpty(t, denied.Reason)
}

func TestCanEditComment(t *testing.T) {
	assert.True(t, CanEditComment("u1", "u1").Allowed)
	assert.False(t, CanEditComment("u1", "u2").Allowed)
}

func TestCanDeleteComment(t *testing.T) {
	// comment author
	assert.True(t, CanDeleteComment("owner", "author", "author", nil).Allowed)
	// post owner
	assert.True(t, CanDeleteComment("owner", "author", "owner", nil).Allowed)
	// admin
	assert.True(t, CanDeleteComment("owner", "author", "mod", []string{AdminRole}).Allowed)
	// anyone else
	assert.False(t, CanDeleteComment("owner", "author", "stranger", []string{"USER"}).Allowed)
	assert.False(t, CanDeleteComment("owner", "author", "", nil).Allowed)
}

func TestRulesAreDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, CanDeletePost("a", "b", []string{"USER"}), CanDeletePost("a", "b", []string{"USER"}))
	}
}
