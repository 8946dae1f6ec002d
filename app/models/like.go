package models

import "time"

// NewLike creates a like for the (postID, userID) pair and the PostLiked
// event. Uniqueness of the pair is enforced at the storage layer; the
// service pre-checks as a fast path.
func NewLike(postID, userID string) (*Like, Event, error) {
	if postID == "" {
		return nil, nil, &ValidationError{Reason: "post id is required"}
	}
	if userID == "" {
		return nil, nil, &ValidationError{Reason: "user id is required"}
	}

	like := &Like{
		PostID:  postID,
		UserID:  userID,
		LikedAt: time.Now().UTC(),
	}

	event := PostLiked{
		EventHeader: newHeader(EventPostLiked, postID),
		UserID:      userID,
	}
	return like, event, nil
}

// Unlike emits the PostUnliked event. Removing the row is the caller's
// responsibility; there is no "unliked" state.
func (l *Like) Unlike() Event {
	return PostUnliked{
		EventHeader: newHeader(EventPostUnliked, l.PostID),
		UserID:      l.UserID,
	}
}
