package services

import (
	"context"
	"fmt"

	"community/app/identity"
	"community/app/models"
	"community/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// LikeService handles liking and unliking posts. The (postID, userID) pair
// is the like's identity; unliking removes the row.
type LikeService struct {
	likes    repositories.LikeRepository
	posts    repositories.PostRepository
	outbox   repositories.OutboxRepository
	uow      repositories.UnitOfWork
	profiles *identity.ProfileCache
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likes repositories.LikeRepository,
	posts repositories.PostRepository,
	outbox repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	profiles *identity.ProfileCache,
) *LikeService {
	return &LikeService{
		likes:    likes,
		posts:    posts,
		outbox:   outbox,
		uow:      uow,
		profiles: profiles,
	}
}

// LikePost records a like. The Get here is only a fast-path check; the
// insert inside the transaction is the authoritative uniqueness guard, so
// racing duplicates still resolve to exactly one like.
func (s *LikeService) LikePost(ctx context.Context, postID, userID string) error {
	if err := requireUser(ctx, s.profiles, userID); err != nil {
		return err
	}

	post, err := s.posts.GetByID(postID)
	if err != nil {
		return fmt.Errorf("post %s: %w", postID, err)
	}
	if post.Deleted {
		return fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	if _, err := s.likes.Get(postID, userID); err == nil {
		return &models.ConflictError{Reason: "user has already liked this post"}
	}

	like, event, err := models.NewLike(postID, userID)
	if err != nil {
		return err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return err
	}

	return s.uow.Update(func(txn *badger.Txn) error {
		if err := s.likes.Insert(txn, like); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
}

// UnlikePost removes a like. Unliking something never liked is NotFound.
func (s *LikeService) UnlikePost(ctx context.Context, postID, userID string) error {
	if err := requireUser(ctx, s.profiles, userID); err != nil {
		return err
	}

	like, err := s.likes.Get(postID, userID)
	if err != nil {
		return fmt.Errorf("like on post %s by user %s: %w", postID, userID, err)
	}

	event := like.Unlike()
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return err
	}

	return s.uow.Update(func(txn *badger.Txn) error {
		if err := s.likes.Delete(txn, postID, userID); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
}

// CountLikes counts the likes on a post.
func (s *LikeService) CountLikes(postID string) (int, error) {
	return s.likes.CountByPost(postID)
}
