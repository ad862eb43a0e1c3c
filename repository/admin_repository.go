package repository

import (
	"context"

	"github.com/ieeeestu/site/models"
)

// AdminRepository, admin hesapları.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}
