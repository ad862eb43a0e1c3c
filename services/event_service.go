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

// EventService, etkinlik iş mantığı. Public sayfalar ve admin CRUD aynı servisi kullanır.
type EventService interface {
	// ListPublic, status boşsa tüm etkinlikleri tarihe göre azalan sırada döner.
	ListPublic(ctx context.Context, status models.EventStatus) ([]models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	ListAdmin(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	eventRepo repository.EventRepository
	hub       ws.EventPublisher
}

// NewEventService, constructor. hub nil olabilir.
func NewEventService(eventRepo repository.EventRepository, hub ws.EventPublisher) EventService {
	return &eventService{eventRepo: eventRepo, hub: hub}
}

func (s *eventService) ListPublic(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	if status != "" && status != models.EventStatusUpcoming && status != models.EventStatusPast {
		return nil, fmt.Errorf("%w: invalid status", pkg.ErrBadRequest)
	}
	return s.eventRepo.List(ctx, repository.EventFilter{Status: status})
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return s.eventRepo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *eventService) ListAdmin(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.List(ctx, repository.EventFilter{})
}

func (s *eventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	slug, err := uniqueSlug(baseSlug("event", req.Title.EN, req.Title.TR), func(c string) (bool, error) {
		return s.eventRepo.SlugExists(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Slug:         slug,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Category:     req.Category,
		Participants: req.Participants,
		StatusLabel:  req.StatusLabel,
		Date:         req.Date,
		Time:         req.Time,
		Image:        req.Image,
		Status:       req.Status,
	}
	if event.Image == "" {
		event.Image = models.DefaultEventImage
	}
	if req.RegistrationURL != "" {
		u := req.RegistrationURL
		event.RegistrationURL = &u
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("[events] created %s (%s)", event.ID, event.Slug)
	publishContent(s.hub, ws.ContentEvent, ws.ActionCreate, event.ID)
	return event, nil
}

// Update, slug'a dokunmaz; yayınlanmış linkler kırılmasın.
func (s *eventService) Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(event)
	if err := event.Title.Validate(); err != nil {
		return nil, validationError(err)
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	publishContent(s.hub, ws.ContentEvent, ws.ActionUpdate, event.ID)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", pkg.ErrBadRequest)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("[events] deleted %s", id)
	publishContent(s.hub, ws.ContentEvent, ws.ActionDelete, id)
	return nil
}
