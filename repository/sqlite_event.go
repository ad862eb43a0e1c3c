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

const eventColumns = `id, slug, title, description, location, category, participants, status_label,
	date, time, image, status, registration_url, created_at, updated_at`

type sqliteEventRepo struct {
	db database.TxQuerier
}

// NewSQLiteEventRepo, constructor.
func NewSQLiteEventRepo(db database.TxQuerier) EventRepository {
	return &sqliteEventRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e   models.Event
		reg sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &e.Description, &e.Location, &e.Category, &e.Participants, &e.StatusLabel,
		&e.Date, &e.Time, &e.Image, &e.Status, &reg, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reg.Valid && reg.String != "" {
		e.RegistrationURL = &reg.String
	}
	return &e, nil
}

func (r *sqliteEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = newID()
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt

	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Slug, event.Title, event.Description, event.Location, event.Category,
		event.Participants, event.StatusLabel, event.Date, event.Time, event.Image, event.Status,
		event.RegistrationURL, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event slug %q already in use", pkg.ErrAlreadyExists, event.Slug)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *sqliteEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sqliteEventRepo) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *sqliteEventRepo) getOne(ctx context.Context, field, value string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + field + ` = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: event", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by %s: %w", field, err)
	}
	return event, nil
}

func (r *sqliteEventRepo) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, time DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *sqliteEventRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event slug: %w", err)
	}
	return exists, nil
}

// Update, slug ve created_at hariç tüm alanları yazar.
func (r *sqliteEventRepo) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = now()

	query := `
		UPDATE events SET title = ?, description = ?, location = ?, category = ?, participants = ?,
			status_label = ?, date = ?, time = ?, image = ?, status = ?, registration_url = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.Location, event.Category, event.Participants,
		event.StatusLabel, event.Date, event.Time, event.Image, event.Status, event.RegistrationURL,
		event.UpdatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffected(result, "event")
}

func (r *sqliteEventRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffected(result, "event")
}
