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

type sqliteSessionRepo struct {
	db database.TxQuerier
}

// NewSQLiteSessionRepo, constructor. Refresh rotasyonunda *sql.Tx ile de çağrılır.
func NewSQLiteSessionRepo(db database.TxQuerier) SessionRepository {
	return &sqliteSessionRepo{db: db}
}

func (r *sqliteSessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = newID()
	session.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, admin_id, refresh_token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.AdminID, session.RefreshToken, session.ExpiresAt.UTC(), session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, admin_id, refresh_token, expires_at, created_at
		FROM sessions WHERE refresh_token = ?`

	var s models.Session
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&s.ID, &s.AdminID, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}
	return &s, nil
}

func (r *sqliteSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) DeleteByAdminID(ctx context.Context, adminID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE admin_id = ?`, adminID); err != nil {
		return fmt.Errorf("failed to delete admin sessions: %w", err)
	}
	return nil
}

// DeleteExpired, süresi dolmuş oturumları siler ve silinen sayıyı döner.
func (r *sqliteSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
