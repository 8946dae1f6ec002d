package services

import (
	"context"
	"fmt"

	"community/app/auth"
	"community/app/identity"
	"community/app/models"
	"community/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// PostService handles the post lifecycle: create, edit, soft-delete, read.
type PostService struct {
	posts    repositories.PostRepository
	outbox   repositories.OutboxRepository
	uow      repositories.UnitOfWork
	profiles *identity.ProfileCache
}

// NewPostService creates a new PostService
func NewPostService(
	posts repositories.PostRepository,
	outbox repositories.OutboxRepository,
	uow repositories.UnitOfWork,
	profiles *identity.ProfileCache,
) *PostService {
	return &PostService{
		posts:    posts,
		outbox:   outbox,
		uow:      uow,
		profiles: profiles,
	}
}

// CreatePost creates a new post after validating the author exists.
func (s *PostService) CreatePost(ctx context.Context, authorID string, content models.PostContent) (*models.Post, error) {
	if err := requireUser(ctx, s.profiles, authorID); err != nil {
		return nil, err
	}

	post, event, err := models.NewPost(authorID, content)
	if err != nil {
		return nil, err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return nil, err
	}

	err = s.uow.Update(func(txn *badger.Txn) error {
		if err := s.posts.Save(txn, post); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost replaces a post's content. Only the author may edit; a deleted
// post rejects the edit.
func (s *PostService) EditPost(ctx context.Context, postID, editorID string, content models.PostContent) (*models.Post, error) {
	if err := requireUser(ctx, s.profiles, editorID); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, err)
	}

	event, err := post.Edit(content, editorID)
	if err != nil {
		return nil, err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return nil, err
	}

	err = s.uow.Update(func(txn *badger.Txn) error {
		if err := s.posts.Save(txn, post); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes a post. Deletion is allowed for the owner or an
// admin, which makes it a cross-aggregate decision resolved here rather
// than inside the aggregate.
func (s *PostService) DeletePost(ctx context.Context, postID, deleterID string) error {
	if err := requireUser(ctx, s.profiles, deleterID); err != nil {
		return err
	}

	post, err := s.posts.GetByID(postID)
	if err != nil {
		return fmt.Errorf("post %s: %w", postID, err)
	}

	if post.AuthorID != deleterID {
		roles, err := rolesOf(ctx, s.profiles, deleterID)
		if err != nil {
			return err
		}
		if decision := auth.CanDeletePost(post.AuthorID, deleterID, roles); !decision.Allowed {
			return &models.AuthorizationError{Reason: decision.Reason}
		}
	}

	event, err := post.Delete(deleterID)
	if err != nil {
		return err
	}
	entry, err := models.NewOutboxEntry(event)
	if err != nil {
		return err
	}

	return s.uow.Update(func(txn *badger.Txn) error {
		if err := s.posts.Save(txn, post); err != nil {
			return err
		}
		return s.outbox.Append(txn, entry)
	})
}

// GetPost retrieves a live post by ID. Soft-deleted posts read as absent.
func (s *PostService) GetPost(postID string) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, err)
	}
	if post.Deleted {
		return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}
	return post, nil
}

// ListPosts retrieves a paginated list of live posts.
func (s *PostService) ListPosts(page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.posts.List(perPage, (page-1)*perPage)
}

// ListPostsByAuthor retrieves a paginated list of one author's live posts.
func (s *PostService) ListPostsByAuthor(authorID string, page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.posts.ListByAuthor(authorID, perPage, (page-1)*perPage)
}
