// Package main, service katmanı başlatma.
//
// initServices, service implementasyonlarını ve rate limiter'ı oluşturur.
// Email ve GitHub opsiyoneldir: ayarlanmamışsa email gönderimleri
// ErrNotConfigured ile reddedilir, görseller yerel diske yazılır.
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/ieeeestu/site/config"
	"github.com/ieeeestu/site/pkg/email"
	"github.com/ieeeestu/site/pkg/ratelimit"
	"github.com/ieeeestu/site/pkg/storage"
	"github.com/ieeeestu/site/services"
	"github.com/ieeeestu/site/ws"
)

// uploadURLPrefix, disk'e yazılan görsellerin servis edildiği yol.
const uploadURLPrefix = "/static/uploads"

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth       services.AuthService
	Event      services.EventService
	Post       services.PostService
	Newsletter services.NewsletterService
	Upload     services.UploadService

	EmailEnabled bool
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
func initServices(db *sql.DB, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters, error) {
	// ─── Email (opsiyonel) ───
	var emailSender email.EmailSender
	if cfg.Email.Enabled() {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Server.PublicURL)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.From)
	} else {
		emailSender = email.NewDisabledSender()
		log.Println("[main] email service disabled (RESEND_API_KEY not set)")
	}

	// ─── Görsel deposu: GitHub, yoksa disk ───
	var imageStore storage.ImageStore
	if cfg.GitHub.Enabled() {
		imageStore = storage.NewGitHubStore(cfg.GitHub.Token, storage.GitHubConfig{
			Owner:   cfg.GitHub.Owner,
			Repo:    cfg.GitHub.Repo,
			Branch:  cfg.GitHub.Branch,
			BaseURL: cfg.GitHub.PublicBaseURL,
		})
		log.Printf("[main] image uploads go to github.com/%s/%s@%s", cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)
	} else {
		disk, err := storage.NewDiskStore(cfg.Upload.Dir, uploadURLPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init upload dir: %w", err)
		}
		imageStore = disk
		log.Printf("[main] image uploads go to disk (%s)", cfg.Upload.Dir)
	}

	svcs := &Services{
		Auth: services.NewAuthService(
			db, repos.Admin, repos.Session, hub,
			cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
		),
		Event: services.NewEventService(repos.Event, hub),
		Post:  services.NewPostService(repos.Post, hub),
		Newsletter: services.NewNewsletterService(
			repos.Subscriber, emailSender, hub, cfg.Newsletter.CampaignConcurrency,
		),
		Upload:       services.NewUploadService(imageStore, cfg.Upload.MaxSize),
		EmailEnabled: emailSender.Configured(),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(cfg.Admin.LoginMaxAttempts, cfg.Admin.LoginWindow),
	}

	return svcs, limiters, nil
}
