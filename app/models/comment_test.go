package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	comment, event, err := NewComment("post-1", "user-1", "  nice post  ")
	require.NoError(t, err)

	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "post-1", comment.PostID)
	assert.Equal(t, "user-1", comment.AuthorID)
	assert.Equal(t, "nice post", comment.Content.Text, "text should be trimmed")
	assert.False(t, comment.Deleted)

	header := event.Header()
	assert.Equal(t, EventCommentAdded, header.EventType)
	assert.Equal(t, comment.ID, header.AggregateID)
}

func TestNewCommentValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "blank text", text: "   "},
		{name: "text too long", text: strings.Repeat("a", 301)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *ValidationError
			_, _, err := NewComment("post-1", "user-1", tt.text)
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	t.Run("text at max length", func(t *testing.T) {
		_, _, err := NewComment("post-1", "user-1", strings.Repeat("a", 300))
		assert.NoError(t, err)
	})
}

func TestCommentEdit(t *testing.T) {
	comment, _, err := NewComment("post-1", "user-1", "original")
	require.NoError(t, err)

	event, err := comment.Edit("edited", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Content.Text)
	assert.NotNil(t, comment.EditedAt)
	assert.Equal(t, EventCommentEdited, event.Header().EventType)
}

func TestCommentEditByNonAuthor(t *testing.T) {
	comment, _, err := NewComment("post-1", "user-1", "original")
	require.NoError(t, err)

	var authErr *AuthorizationError
	_, err = comment.Edit("edited", "user-2")
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "original", comment.Content.Text)
}

func TestCommentDeleteIsTerminal(t *testing.T) {
	comment, _, err := NewComment("post-1", "user-1", "original")
	require.NoError(t, err)

	event, err := comment.Delete("user-1")
	require.NoError(t, err)
	assert.True(t, comment.Deleted)
	assert.Equal(t, EventCommentDeleted, event.Header().EventType)

	var conflictErr *ConflictError
	_, err = comment.Delete("user-1")
	assert.ErrorAs(t, err, &conflictErr)

	_, err = comment.Edit("edited", "user-1")
	assert.ErrorAs(t, err, &conflictErr)
}
