package models

import "time"

// Event type tags. These are part of the wire contract consumed by
// downstream services and must not be renamed.
const (
	EventPostCreated    = "PostCreated"
	EventPostEdited     = "PostEdited"
	EventPostDeleted    = "PostDeleted"
	EventCommentAdded   = "CommentAdded"
	EventCommentEdited  = "CommentEdited"
	EventCommentDeleted = "CommentDeleted"
	EventPostLiked      = "PostLiked"
	EventPostUnliked    = "PostUnliked"
)

// EventHeader carries the fields common to every domain event. Embedding it
// flattens the fields into the event's JSON payload.
type EventHeader struct {
	EventType   string    `json:"eventType"`
	AggregateID string    `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Header returns the event header; it makes any struct embedding
// EventHeader satisfy the Event interface.
func (h EventHeader) Header() EventHeader { return h }

// Event is an immutable fact produced by an aggregate transition. Events
// never persist themselves; the service layer appends them to the outbox in
// the same unit of work as the aggregate write.
type Event interface {
	Header() EventHeader
}

func newHeader(eventType, aggregateID string) EventHeader {
	return EventHeader{
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
	}
}

// PostCreated is emitted when a new post is created.
type PostCreated struct {
	EventHeader
	AuthorID string      `json:"authorId"`
	Content  PostContent `json:"content"`
}

// PostEdited is emitted when a post's content is replaced.
type PostEdited struct {
	EventHeader
	EditorID string      `json:"editorId"`
	Content  PostContent `json:"content"`
}

// PostDeleted is emitted when a post is soft-deleted.
type PostDeleted struct {
	EventHeader
	DeletedBy string `json:"deletedBy"`
}

// CommentAdded is emitted when a comment is added to a post.
type CommentAdded struct {
	EventHeader
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
}

// CommentEdited is emitted when a comment's text is replaced.
type CommentEdited struct {
	EventHeader
	PostID   string `json:"postId"`
	EditorID string `json:"editorId"`
	Text     string `json:"text"`
}

// CommentDeleted is emitted when a comment is soft-deleted.
type CommentDeleted struct {
	EventHeader
	PostID    string `json:"postId"`
	DeletedBy string `json:"deletedBy"`
}

// PostLiked is emitted when a user likes a post. The aggregate id is the
// post id; the user is carried in the payload.
type PostLiked struct {
	EventHeader
	UserID string `json:"userId"`
}

// PostUnliked is emitted when a user removes their like from a post.
type PostUnliked struct {
	EventHeader
	UserID string `json:"userId"`
}
