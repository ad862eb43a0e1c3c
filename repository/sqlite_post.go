package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
)

const postColumns = `id, slug, title, excerpt, content, author, category, image, date, published, created_at, updated_at`

type sqlitePostRepo struct {
	db database.TxQuerier
}

// NewSQLitePostRepo, constructor.
func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

func scanPost(row rowScanner) (*models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Author, &p.Category,
		&p.Image, &p.Date, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.BlogPost) error {
	post.ID = newID()
	post.CreatedAt = now()
	post.UpdatedAt = post.CreatedAt

	query := `INSERT INTO blog_posts (` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Author, post.Category,
		post.Image, post.Date, post.Published, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: post slug %q already in use", pkg.ErrAlreadyExists, post.Slug)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sqlitePostRepo) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *sqlitePostRepo) getOne(ctx context.Context, field, value string) (*models.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE ` + field + ` = ?`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by %s: %w", field, err)
	}
	return post, nil
}

func (r *sqlitePostRepo) List(ctx context.Context, filter PostFilter) ([]models.BlogPost, error) {
	var args []any

	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if filter.PublishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

func (r *sqlitePostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post slug: %w", err)
	}
	return exists, nil
}

func (r *sqlitePostRepo) Update(ctx context.Context, post *models.BlogPost) error {
	post.UpdatedAt = now()

	query := `
		UPDATE blog_posts SET title = ?, excerpt = ?, content = ?, author = ?, category = ?,
			image = ?, date = ?, published = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Excerpt, post.Content, post.Author, post.Category,
		post.Image, post.Date, post.Published, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return checkAffected(result, "post")
}

func (r *sqlitePostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return checkAffected(result, "post")
}
