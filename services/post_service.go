package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/repository"
	"github.com/ieeeestu/site/ws"
)

// PostService, blog yazıları.
type PostService interface {
	// ListPublished, yayındaki yazıları döner. limit <= 0 ise sınır yok.
	ListPublished(ctx context.Context, limit int) ([]models.BlogPost, error)
	// GetPublishedBySlug, yayında olmayan yazı için ErrNotFound döner.
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListAdmin(ctx context.Context) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	Create(ctx context.Context, req *models.CreatePostRequest) (*models.BlogPost, error)
	Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type postService struct {
	postRepo repository.PostRepository
	hub      ws.EventPublisher
}

// NewPostService, constructor.
func NewPostService(postRepo repository.PostRepository, hub ws.EventPublisher) PostService {
	return &postService{postRepo: postRepo, hub: hub}
}

func (s *postService) ListPublished(ctx context.Context, limit int) ([]models.BlogPost, error) {
	return s.postRepo.List(ctx, repository.PostFilter{PublishedOnly: true, Limit: limit})
}

func (s *postService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.postRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, fmt.Errorf("%w: post", pkg.ErrNotFound)
	}
	return post, nil
}

func (s *postService) ListAdmin(ctx context.Context) ([]models.BlogPost, error) {
	return s.postRepo.List(ctx, repository.PostFilter{})
}

func (s *postService) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	slug, err := uniqueSlug(baseSlug("post", req.Title.EN, req.Title.TR), func(c string) (bool, error) {
		return s.postRepo.SlugExists(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Slug:      slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Author:    req.Author,
		Category:  req.Category,
		Image:     req.Image,
		Date:      req.Date,
		Published: req.Published,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	log.Printf("[blog] created %s (%s, published=%t)", post.ID, post.Slug, post.Published)
	publishContent(s.hub, ws.ContentPost, ws.ActionCreate, post.ID)
	return post, nil
}

func (s *postService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(post)
	if err := post.Title.Validate(); err != nil {
		return nil, validationError(err)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	publishContent(s.hub, ws.ContentPost, ws.ActionUpdate, post.ID)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", pkg.ErrBadRequest)
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("[blog] deleted %s", id)
	publishContent(s.hub, ws.ContentPost, ws.ActionDelete, id)
	return nil
}
