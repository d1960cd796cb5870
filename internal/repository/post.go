package repository

import (
	"context"

	"blog-server/internal/domain"
)

// PostRepository exposes persistence operations for blog posts.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.Post, error)
}
