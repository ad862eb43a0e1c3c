package repository

import (
	"context"

	"github.com/ieeeestu/site/models"
)

// SubscriberRepository, bülten aboneleri. Email normalize edilmiş olarak gelir.
type SubscriberRepository interface {
	Create(ctx context.Context, sub *models.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	// List, en yeni abone başta olacak şekilde tüm aboneleri döner.
	List(ctx context.Context) ([]models.Subscriber, error)
	// Search, email'inde q geçen aboneleri döner (büyük/küçük harf duyarsız).
	Search(ctx context.Context, q string) ([]models.Subscriber, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
