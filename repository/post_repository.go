package repository

import (
	"context"

	"github.com/ieeeestu/site/models"
)

// PostFilter, List için filtre. PublishedOnly public sayfalar içindir.
type PostFilter struct {
	PublishedOnly bool
	Limit         int
}

// PostRepository, blog yazıları. Listeler yayın tarihine göre azalan sıradadır.
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, filter PostFilter) ([]models.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error
}
