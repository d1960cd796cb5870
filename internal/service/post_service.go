package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blog-server/internal/domain"
	"blog-server/internal/repository"
)

// CreatePostInput carries the fields accepted when publishing a post.
type CreatePostInput struct {
	Title     string
	Content   string
	Author    string
	CreatedAt *time.Time
}

// PostService exposes CRUD over posts. The plain Update and Delete act on any id;
// the Owned variants also require the post author to match the caller.
type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	Update(ctx context.Context, id string, title, content *string) (*domain.Post, error)
	UpdateOwned(ctx context.Context, callerID, id string, title, content *string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteOwned(ctx context.Context, callerID, id string) error
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) Create(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	verr := &domain.ValidationError{}
	if isBlank(in.Title) {
		verr.Add("title", "Title is required")
	}
	if isBlank(in.Content) {
		verr.Add("content", "Content is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	post := &domain.Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Author:    in.Author,
		CreatedAt: time.Now().UTC(),
	}
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		post.CreatedAt = in.CreatedAt.UTC()
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *postService) Update(ctx context.Context, id string, title, content *string) (*domain.Post, error) {
	return s.update(ctx, "", id, title, content)
}

func (s *postService) UpdateOwned(ctx context.Context, callerID, id string, title, content *string) (*domain.Post, error) {
	if callerID == "" {
		return nil, domain.ErrForbidden
	}
	return s.update(ctx, callerID, id, title, content)
}

// update applies the supplied fields. An empty callerID skips the ownership check.
func (s *postService) update(ctx context.Context, callerID, id string, title, content *string) (*domain.Post, error) {
	verr := &domain.ValidationError{}
	if title != nil && isBlank(*title) {
		verr.Add("title", "Title cannot be empty")
	}
	if content != nil && isBlank(*content) {
		verr.Add("content", "Content cannot be empty")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != "" && post.Author != callerID {
		return nil, domain.ErrForbidden
	}

	if title != nil {
		post.Title = *title
	}
	if content != nil {
		post.Content = *content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}

func (s *postService) DeleteOwned(ctx context.Context, callerID, id string) error {
	if callerID == "" {
		return domain.ErrForbidden
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != callerID {
		return domain.ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}
