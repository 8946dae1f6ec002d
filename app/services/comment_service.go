package services

import (
	"context"
	"errors"
	"fmt"

	"community/app/auth"
	"community/app/identity"
	"community/app/models"
	"community/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// CommentService handles the comment lifecycle under a post.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	outbox   repositories.OutboxRepository
	uow      repositories.UnitOfWork
	profiles *identity.ProfileCache
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	outbox repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	profiles *identity.ProfileCache,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		outbox:   outbox,
		uow:      uow,
		profiles: profiles,
	}
}

// AddComment adds a comment to a live post.
func (s *CommentService) AddComment(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	if err := requireUser(ctx, s.profiles, authorID); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, err)
	}
	if post.Deleted {
		return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	comment, event, err := models.NewComment(postID, authorID, text)
	if err != nil {
		return nil, err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return nil, err
	}

	err = s.uow.Update(func(txn *badger.Txn) error {
		if err := s.comments.Save(txn, comment); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// EditComment replaces a comment's text. Only the comment's own author may
// edit.
func (s *CommentService) EditComment(ctx context.Context, commentID, editorID, text string) (*models.Comment, error) {
	if err := requireUser(ctx, s.profiles, editorID); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, err)
	}

	event, err := comment.Edit(text, editorID)
	if err != nil {
		return nil, err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return nil, err
	}

	err = s.uow.Update(func(txn *badger.Txn) error {
		if err := s.comments.Save(txn, comment); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment soft-deletes a comment. The comment author, the post owner,
// or an admin may delete; the rule spans two aggregates, so it is resolved
// here with the post's ownership looked up separately.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, deleterID string) error {
	if err := requireUser(ctx, s.profiles, deleterID); err != nil {
		return err
	}

	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return fmt.Errorf("comment %s: %w", commentID, err)
	}

	// A missing post leaves the owner unknown and the delete falls back to
	// author-or-admin; any other lookup failure must not weaken the check.
	postOwnerID := ""
	switch post, err := s.posts.GetByID(comment.PostID); {
	case err == nil:
		postOwnerID = post.AuthorID
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("post %s: %w", comment.PostID, err)
	}

	if deleterID != comment.AuthorID && deleterID != postOwnerID {
		roles, err := rolesOf(ctx, s.profiles, deleterID)
		if err != nil {
			return err
		}
		if decision := auth.CanDeleteComment(postOwnerID, comment.AuthorID, deleterID, roles); !decision.Allowed {
			return &models.AuthorizationError{Reason: decision.Reason}
		}
	}

	event, err := comment.Delete(deleterID)
	if err != nil {
		return err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return err
	}

	return s.uow.Update(func(txn *badger.Txn) error {
		if err := s.comments.Save(txn, comment); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
}

// ListByPost retrieves a post's live comments, oldest first.
func (s *CommentService) ListByPost(postID string) ([]*models.Comment, error) {
	return s.comments.ListByPost(postID)
}
