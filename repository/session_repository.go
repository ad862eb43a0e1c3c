package repository

import (
	"context"

	"github.com/ieeeestu/site/models"
)

// SessionRepository, refresh token oturumları.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByAdminID(ctx context.Context, adminID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
