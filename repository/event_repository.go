package repository

import (
	"context"

	"github.com/ieeeestu/site/models"
)

// EventFilter, List için opsiyonel eşitlik filtresi. Boş filtre tüm kayıtları döner.
type EventFilter struct {
	Status models.EventStatus
	Limit  int
}

// EventRepository, etkinlik kayıtları. Listeler tarihe göre azalan sıradadır.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}
