package models

import (
	"time"

	"github.com/google/uuid"
)

// NewPost creates a post with the given content and returns it together
// with the PostCreated event. No I/O happens here; persisting the post and
// the event is the caller's job.
func NewPost(authorID string, content PostContent) (*Post, Event, error) {
	if authorID == "" {
		return nil, nil, &ValidationError{Reason: "author id is required"}
	}
	if err := content.Validate(); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	event := PostCreated{
		EventHeader: newHeader(EventPostCreated, post.ID),
		AuthorID:    authorID,
		Content:     content,
	}
	return post, event, nil
}

// Edit replaces the post's content. A deleted post rejects any edit, and
// only the author may edit.
func (p *Post) Edit(newContent PostContent, editorID string) (Event, error) {
	if p.Deleted {
		return nil, &ConflictError{Reason: "cannot edit a deleted post"}
	}
	if p.AuthorID != editorID {
		return nil, &AuthorizationError{Reason: "only the post owner can edit the post"}
	}
	if err := newContent.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Content = newContent
	p.EditedAt = &now
	p.UpdatedAt = now

	return PostEdited{
		EventHeader: newHeader(EventPostEdited, p.ID),
		EditorID:    editorID,
		Content:     newContent,
	}, nil
}

// Delete marks the post deleted. Deleting twice is a conflict. Whether the
// deleter is allowed to delete (owner or admin) is decided by the caller
// before invoking this.
func (p *Post) Delete(deleterID string) (Event, error) {
	if p.Deleted {
		return nil, &ConflictError{Reason: "post is already deleted"}
	}

	p.Deleted = true
	p.UpdatedAt = time.Now().UTC()

	return PostDeleted{
		EventHeader: newHeader(EventPostDeleted, p.ID),
		DeletedBy:   deleterID,
	}, nil
}
