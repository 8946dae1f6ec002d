package models

import (
	"time"

	"github.com/google/uuid"
)

// NewComment creates a comment on a post and returns it together with the
// CommentAdded event.
func NewComment(postID, authorID, text string) (*Comment, Event, error) {
	if postID == "" {
		return nil, nil, &ValidationError{Reason: "post id is required"}
	}
	if authorID == "" {
		return nil, nil, &ValidationError{Reason: "author id is required"}
	}
	content, err := NewCommentContent(text)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	event := CommentAdded{
		EventHeader: newHeader(EventCommentAdded, comment.ID),
		PostID:      postID,
		AuthorID:    authorID,
		Text:        content.Text,
	}
	return comment, event, nil
}

// Edit replaces the comment's text. Only the comment's own author may edit.
func (c *Comment) Edit(text string, editorID string) (Event, error) {
	if c.Deleted {
		return nil, &ConflictError{Reason: "cannot edit a deleted comment"}
	}
	if c.AuthorID != editorID {
		return nil, &AuthorizationError{Reason: "only the comment author can edit the comment"}
	}
	content, err := NewCommentContent(text)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.Content = content
	c.EditedAt = &now
	c.UpdatedAt = now

	return CommentEdited{
		EventHeader: newHeader(EventCommentEdited, c.ID),
		PostID:      c.PostID,
		EditorID:    editorID,
		Text:        content.Text,
	}, nil
}

// Delete marks the comment deleted. Delete authorization (author, post
// owner, or admin) is resolved by the caller.
func (c *Comment) Delete(deleterID string) (Event, error) {
	if c.Deleted {
		return nil, &ConflictError{Reason: "comment is already deleted"}
	}

	c.Deleted = true
	c.UpdatedAt = time.Now().UTC()

	return CommentDeleted{
		EventHeader: newHeader(EventCommentDeleted, c.ID),
		PostID:      c.PostID,
		DeletedBy:   deleterID,
	}, nil
}
