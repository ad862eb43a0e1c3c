package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
)

type sqliteSubscriberRepo struct {
	db database.TxQuerier
}

// NewSQLiteSubscriberRepo, constructor.
func NewSQLiteSubscriberRepo(db database.TxQuerier) SubscriberRepository {
	return &sqliteSubscriberRepo{db: db}
}

func (r *sqliteSubscriberRepo) Create(ctx context.Context, sub *models.Subscriber) error {
	sub.ID = newID()
	if sub.SubscribedAt.IsZero() {
		sub.SubscribedAt = now()
	}
	if sub.Source == "" {
		sub.Source = models.SubscriberSourceFooter
	}

	query := `
		INSERT INTO newsletter_subscribers (id, email, locale, source, subscribed_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, sub.ID, sub.Email, sub.Locale, sub.Source, sub.SubscribedAt)
	if err != nil {
		// Eşzamanlı iki kayıttan ikincisi buraya düşer.
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already subscribed", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

func (r *sqliteSubscriberRepo) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `
		SELECT id, email, locale, source, subscribed_at
		FROM newsletter_subscribers WHERE email = ?`

	var s models.Subscriber
	err := r.db.QueryRowContext(ctx, query, email).Scan(&s.ID, &s.Email, &s.Locale, &s.Source, &s.SubscribedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: subscriber", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscriber: %w", err)
	}
	return &s, nil
}

func (r *sqliteSubscriberRepo) List(ctx context.Context) ([]models.Subscriber, error) {
	return r.query(ctx, `
		SELECT id, email, locale, source, subscribed_at
		FROM newsletter_subscribers ORDER BY subscribed_at DESC`)
}

func (r *sqliteSubscriberRepo) Search(ctx context.Context, q string) ([]models.Subscriber, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return r.List(ctx)
	}

	return r.query(ctx, `
		SELECT id, email, locale, source, subscribed_at
		FROM newsletter_subscribers WHERE email LIKE ? ESCAPE '\'
		ORDER BY subscribed_at DESC`, likePattern(q))
}

func (r *sqliteSubscriberRepo) query(ctx context.Context, query string, args ...any) ([]models.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscriber{}
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Locale, &s.Source, &s.SubscribedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriber rows: %w", err)
	}
	return subs, nil
}

func (r *sqliteSubscriberRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM newsletter_subscribers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *sqliteSubscriberRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM newsletter_subscribers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	return checkAffected(result, "subscriber")
}
