package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImages(n int) []ImageRef {
	images := make([]ImageRef, 0, n)
	for i := 0; i < n; i++ {
		images = append(images, ImageRef{URL: "https://cdn.example.com/img.png", AltText: "an image"})
	}
	return images
}

func TestPostContentValidation(t *testing.T) {
	tests := []struct {
		name    string
		content PostContent
		wantErr bool
	}{
		{
			name:    "text only",
			content: PostContent{Text: "hello world"},
			wantErr: false,
		},
		{
			name:    "images only",
			content: PostContent{Images: validImages(1)},
			wantErr: false,
		},
		{
			name:    "text and images",
			content: PostContent{Text: "hello", Images: validImages(5)},
			wantErr: false,
		},
		{
			name:    "text at max length",
			content: PostContent{Text: strings.Repeat("a", 500)},
			wantErr: false,
		},
		{
			name:    "text too long",
			content: PostContent{Text: strings.Repeat("a", 501)},
			wantErr: true,
		},
		{
			name:    "no text and no images",
			content: PostContent{},
			wantErr: true,
		},
		{
			name:    "blank text and no images",
			content: PostContent{Text: "   "},
			wantErr: true,
		},
		{
			name:    "too many images",
			content: PostContent{Images: validImages(6)},
			wantErr: true,
		},
		{
			name:    "image url without scheme",
			content: PostContent{Images: []ImageRef{{URL: "cdn.example.com/img.png"}}},
			wantErr: true,
		},
		{
			name:    "image url with ftp scheme",
			content: PostContent{Images: []ImageRef{{URL: "ftp://cdn.example.com/img.png"}}},
			wantErr: true,
		},
		{
			name:    "blank image url",
			content: PostContent{Images: []ImageRef{{URL: "  "}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.content.Validate()
			if tt.wantErr {
				var validationErr *ValidationError
				assert.Error(t, err)
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPost(t *testing.T) {
	content := PostContent{Text: "first post", Images: validImages(2)}

	post, event, err := NewPost("user-1", content)
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "user-1", post.AuthorID)
	assert.Equal(t, content, post.Content)
	assert.False(t, post.Deleted)
	assert.Nil(t, post.EditedAt)
	assert.False(t, post.CreatedAt.IsZero())

	header := event.Header()
	assert.Equal(t, EventPostCreated, header.EventType)
	assert.Equal(t, post.ID, header.AggregateID)
	assert.False(t, header.OccurredAt.IsZero())
}

func TestNewPostMissingAuthor(t *testing.T) {
	var validationErr *ValidationError
	_, _, err := NewPost("", PostContent{Text: "x"})
	assert.ErrorAs(t, err, &validationErr)
}

func TestPostEdit(t *testing.T) {
	post, _, err := NewPost("user-1", PostContent{Text: "original"})
	require.NoError(t, err)

	event, err := post.Edit(PostContent{Text: "edited"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "edited", post.Content.Text)
	assert.NotNil(t, post.EditedAt)
	assert.Equal(t, EventPostEdited, event.Header().EventType)
}

func TestPostEditByNonAuthor(t *testing.T) {
	post, _, err := NewPost("user-1", PostContent{Text: "original"})
	require.NoError(t, err)

	var authErr *AuthorizationError
	_, err = post.Edit(PostContent{Text: "edited"}, "user-2")
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "original", post.Content.Text)
	assert.Nil(t, post.EditedAt)
}

func TestPostEditAfterDelete(t *testing.T) {
	post, _, err := NewPost("user-1", PostContent{Text: "original"})
	require.NoError(t, err)

	_, err = post.Delete("user-1")
	require.NoError(t, err)

	// Deleted is terminal: even the author gets a conflict, not an
	// authorization error.
	var conflictErr *ConflictError
	_, err = post.Edit(PostContent{Text: "edited"}, "user-1")
	assert.ErrorAs(t, err, &conflictErr)

	_, err = post.Edit(PostContent{Text: "edited"}, "user-2")
	assert.ErrorAs(t, err, &conflictErr)
}

func TestPostEditInvalidContent(t *testing.T) {
	post, _, err := NewPost("user-1", PostContent{Text: "original"})
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = post.Edit(PostContent{}, "user-1")
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "original", post.Content.Text)
}

func TestPostDelete(t *testing.T) {
	post, _, err := NewPost("user-1", PostContent{Text: "original"})
	require.NoError(t, err)

	event, err := post.Delete("admin-1")
	require.NoError(t, err)
	assert.True(t, post.Deleted)
	assert.Equal(t, EventPostDeleted, event.Header().EventType)

	var conflictErr *ConflictError
	_, err = post.Delete("admin-1")
	assert.ErrorAs(t, err, &conflictErr)
}
