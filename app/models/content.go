package models

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxPostTextLength is the maximum number of characters in a post's text.
	MaxPostTextLength = 500
	// MaxPostImages is the maximum number of images a post may carry.
	MaxPostImages = 5
	// MaxCommentLength is the maximum number of characters in a comment.
	MaxCommentLength = 300
)

// ImageRef is a reference to an image hosted elsewhere, with optional alt
// text for accessibility.
type ImageRef struct {
	URL     string `json:"url" validate:"required,http_url"`
	AltText string `json:"altText,omitempty"`
}

// PostContent is the content of a post: optional text plus up to five
// images. At least one of the two must be present.
type PostContent struct {
	Text   string     `json:"text,omitempty"`
	Images []ImageRef `json:"images,omitempty" validate:"dive"`
}

// Validate checks the post content invariants.
func (c PostContent) Validate() error {
	if strings.TrimSpace(c.Text) == "" && len(c.Images) == 0 {
		return &ValidationError{Reason: "at least one of text or images must be provided"}
	}
	if utf8.RuneCountInString(c.Text) > MaxPostTextLength {
		return &ValidationError{Reason: "post text exceeds 500 characters"}
	}
	if len(c.Images) > MaxPostImages {
		return &ValidationError{Reason: "post cannot have more than 5 images"}
	}
	if err := validate.Struct(c); err != nil {
		return &ValidationError{Reason: "image url must be a valid http/https url"}
	}
	return nil
}

// HasText reports whether the content carries non-blank text.
func (c PostContent) HasText() bool {
	return strings.TrimSpace(c.Text) != ""
}

// HasImages reports whether the content carries any images.
func (c PostContent) HasImages() bool {
	return len(c.Images) > 0
}

// CommentContent is the text of a comment, trimmed, 1-300 characters.
type CommentContent struct {
	Text string `json:"text"`
}

// NewCommentContent trims the text and validates the length bounds.
func NewCommentContent(text string) (CommentContent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return CommentContent{}, &ValidationError{Reason: "comment text cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return CommentContent{}, &ValidationError{Reason: "comment text exceeds 300 characters"}
	}
	return CommentContent{Text: trimmed}, nil
}
