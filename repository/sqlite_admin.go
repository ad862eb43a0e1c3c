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

type sqliteAdminRepo struct {
	db database.TxQuerier
}

// NewSQLiteAdminRepo, constructor.
func NewSQLiteAdminRepo(db database.TxQuerier) AdminRepository {
	return &sqliteAdminRepo{db: db}
}

func (r *sqliteAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = newID()
	admin.CreatedAt = now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *sqliteAdminRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sqliteAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, "email", email)
}

func (r *sqliteAdminRepo) getOne(ctx context.Context, field, value string) (*models.Admin, error) {
	query := `SELECT id, email, password_hash, created_at FROM admins WHERE ` + field + ` = ?`

	var a models.Admin
	err := r.db.QueryRowContext(ctx, query, value).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: admin", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by %s: %w", field, err)
	}
	return &a, nil
}

func (r *sqliteAdminRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
