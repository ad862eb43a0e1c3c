package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/email"
	"github.com/ieeeestu/site/repository"
	"github.com/ieeeestu/site/ws"
)

// NewsletterService, bülten abonelikleri ve kampanya gönderimi.
type NewsletterService interface {
	// Subscribe, honeypot dolu ise hiçbir şey yazmadan başarılı döner.
	// Doğrulama hataları models.Err* ile birlikte ErrBadRequest sarar;
	// aynı email tekrar gelirse ErrAlreadyExists.
	Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResult, error)
	SendWelcome(ctx context.Context, req *models.WelcomeRequest) error
	List(ctx context.Context) ([]models.Subscriber, error)
	Search(ctx context.Context, q string) ([]models.Subscriber, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	// SendCampaign, her adrese ayrı email gönderir. Tek bir hata diğerlerini durdurmaz.
	SendCampaign(ctx context.Context, req *models.CampaignRequest) (*models.CampaignResult, error)
}

type newsletterService struct {
	subRepo     repository.SubscriberRepository
	sender      email.EmailSender
	hub         ws.EventPublisher
	concurrency int
}

// NewNewsletterService, constructor. concurrency <= 0 ise sınırsız.
func NewNewsletterService(
	subRepo repository.SubscriberRepository,
	sender email.EmailSender,
	hub ws.EventPublisher,
	concurrency int,
) NewsletterService {
	return &newsletterService{
		subRepo:     subRepo,
		sender:      sender,
		hub:         hub,
		concurrency: concurrency,
	}
}

func (s *newsletterService) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResult, error) {
	if req.IsBot() {
		log.Printf("[newsletter] honeypot triggered, request ignored")
		return &models.SubscribeResult{Success: true}, nil
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pkg.ErrBadRequest, err)
	}

	if _, err := s.subRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already subscribed", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	// Ön kontrol ile insert arasında yarış olursa UNIQUE index ErrAlreadyExists döndürür.
	sub := &models.Subscriber{
		Email:  req.Email,
		Locale: req.Locale,
		Source: models.SubscriberSourceFooter,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	log.Printf("[newsletter] new subscriber %s (%s)", sub.Email, sub.Locale)
	publishContent(s.hub, ws.ContentSubscriber, ws.ActionCreate, sub.ID)

	result := &models.SubscribeResult{Success: true}
	if err := s.sender.SendWelcome(ctx, sub.Email, sub.Locale); err != nil {
		log.Printf("[newsletter] welcome email to %s failed: %v", sub.Email, err)
		result.EmailError = err.Error()
	} else {
		result.WelcomeSent = true
	}
	return result, nil
}

func (s *newsletterService) SendWelcome(ctx context.Context, req *models.WelcomeRequest) error {
	if err := req.Validate(); err != nil {
		return validationError(err)
	}
	if !s.sender.Configured() {
		return email.ErrNotConfigured
	}
	if err := s.sender.SendWelcome(ctx, req.Email, req.Locale); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *newsletterService) List(ctx context.Context) ([]models.Subscriber, error) {
	return s.subRepo.List(ctx)
}

// Search, boş sorguda tüm listeyi döner.
func (s *newsletterService) Search(ctx context.Context, q string) ([]models.Subscriber, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.subRepo.List(ctx)
	}
	return s.subRepo.Search(ctx, q)
}

func (s *newsletterService) Count(ctx context.Context) (int, error) {
	return s.subRepo.Count(ctx)
}

func (s *newsletterService) Delete(ctx context.Context, id string) error {
	if err := validation.Validate(strings.TrimSpace(id), validation.Required); err != nil {
		return fmt.Errorf("%w: id is required", pkg.ErrBadRequest)
	}
	if err := s.subRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("[newsletter] subscriber deleted %s", id)
	publishContent(s.hub, ws.ContentSubscriber, ws.ActionDelete, id)
	return nil
}

func (s *newsletterService) SendCampaign(ctx context.Context, req *models.CampaignRequest) (*models.CampaignResult, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	if !s.sender.Configured() {
		return nil, email.ErrNotConfigured
	}

	var (
		g      errgroup.Group
		sent   atomic.Int64
		failed atomic.Int64
	)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for _, to := range req.Emails {
		g.Go(func() error {
			msg := email.Message{To: []string{to}, Subject: req.Subject, HTML: req.HTML}
			if err := s.sender.Send(ctx, msg); err != nil {
				log.Printf("[newsletter] campaign send to %s failed: %v", to, err)
				failed.Add(1)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := &models.CampaignResult{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
		Total:  len(req.Emails),
	}
	log.Printf("[newsletter] campaign %q finished: sent=%d failed=%d total=%d",
		req.Subject, result.Sent, result.Failed, result.Total)
	return result, nil
}
