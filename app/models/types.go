package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Post represents a social post. Deleted is terminal: no transition is
// defined out of the deleted state.
type Post struct {
	ID        string      `json:"id" validate:"required"`
	AuthorID  string      `json:"authorId" validate:"required"`
	Content   PostContent `json:"content"`
	EditedAt  *time.Time  `json:"editedAt,omitempty"`
	Deleted   bool        `json:"deleted"`
	CreatedAt time.Time   `json:"createdAt" validate:"required"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Version   int         `json:"version"`
}

// Comment represents a comment on a post. It holds a back-reference to the
// post, not the post itself.
type Comment struct {
	ID        string         `json:"id" validate:"required"`
	PostID    string         `json:"postId" validate:"required"`
	AuthorID  string         `json:"authorId" validate:"required"`
	Content   CommentContent `json:"content"`
	EditedAt  *time.Time     `json:"editedAt,omitempty"`
	Deleted   bool           `json:"deleted"`
	CreatedAt time.Time      `json:"createdAt" validate:"required"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Version   int            `json:"version"`
}

// Like represents a user's like on a post. Identity is the (PostID, UserID)
// pair; existence of the record is the whole state.
type Like struct {
	PostID  string    `json:"postId" validate:"required"`
	UserID  string    `json:"userId" validate:"required"`
	LikedAt time.Time `json:"likedAt" validate:"required"`
}
