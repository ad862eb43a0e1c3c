// Package config, uygulamanın tüm ayarlarını environment'tan okur.
//
// Geliştirmede .env dosyası godotenv ile yüklenir; production'da gerçek
// environment variable'lar kullanılır. Alanlar caarlos0/env tag'leri ile
// tanımlıdır, varsayılanlar envDefault'tadır.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyonu.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Email      EmailConfig
	GitHub     GitHubConfig
	Upload     UploadConfig
	Admin      AdminConfig
	Newsletter NewsletterConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host           string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"SERVER_PORT" envDefault:"9090"`
	PublicURL      string   `env:"SITE_URL" envDefault:"https://ieeeestu.org"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	SecureCookies  bool     `env:"COOKIE_SECURE" envDefault:"false"`
}

// DatabaseConfig, SQLite ayarları.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" envDefault:"./data/ieeeestu.db"`
}

// JWTConfig, token ayarları. Secret zorunludur.
type JWTConfig struct {
	Secret             string `env:"JWT_SECRET,required"`
	AccessTokenExpiry  int    `env:"JWT_ACCESS_EXPIRY_MINUTES" envDefault:"60"`
	RefreshTokenExpiry int    `env:"JWT_REFRESH_EXPIRY_DAYS" envDefault:"7"`
}

// EmailConfig, Resend ayarları. API key yoksa email gönderimi kapalıdır.
type EmailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"EMAIL_FROM" envDefault:"IEEE ESTU <info@ieeeestu.org>"`
}

// Enabled, Resend'in ayarlı olup olmadığını döner.
func (c EmailConfig) Enabled() bool { return c.ResendAPIKey != "" }

// GitHubConfig, görsellerin commit edileceği repo. Eksikse diske yazılır.
type GitHubConfig struct {
	Token         string `env:"GITHUB_TOKEN"`
	Owner         string `env:"GITHUB_REPO_OWNER"`
	Repo          string `env:"GITHUB_REPO_NAME"`
	Branch        string `env:"GITHUB_BRANCH" envDefault:"main"`
	PublicBaseURL string `env:"GITHUB_PUBLIC_BASE_URL"`
}

// Enabled, token, owner ve repo'nun üçü de dolu ise true.
func (c GitHubConfig) Enabled() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}

// UploadConfig, görsel yükleme ayarları.
type UploadConfig struct {
	Dir     string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`
	MaxSize int64  `env:"UPLOAD_MAX_SIZE" envDefault:"5242880"` // 5MB
}

// AdminConfig, ilk admin hesabı ve login limiter.
type AdminConfig struct {
	Email            string        `env:"ADMIN_EMAIL"`
	Password         string        `env:"ADMIN_PASSWORD"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"2m"`
}

// NewsletterConfig, abonelik ve kampanya ayarları.
type NewsletterConfig struct {
	Cooldown            time.Duration `env:"NEWSLETTER_COOLDOWN" envDefault:"5m"`
	CampaignConcurrency int           `env:"NEWSLETTER_CAMPAIGN_CONCURRENCY" envDefault:"10"`
}

// Load, .env dosyasını (varsa) yükler ve Config'i process environment'ından okur.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFrom, verilen map'ten okur. Process environment'ına bakmaz.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	case c.JWT.AccessTokenExpiry <= 0:
		return errors.New("JWT_ACCESS_EXPIRY_MINUTES must be positive")
	case c.JWT.RefreshTokenExpiry <= 0:
		return errors.New("JWT_REFRESH_EXPIRY_DAYS must be positive")
	case c.Upload.MaxSize <= 0:
		return errors.New("UPLOAD_MAX_SIZE must be positive")
	case (c.Admin.Email == "") != (c.Admin.Password == ""):
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	case c.Newsletter.CampaignConcurrency <= 0:
		return errors.New("NEWSLETTER_CAMPAIGN_CONCURRENCY must be positive")
	}
	return nil
}

// Addr, HTTP server'ın dinleyeceği adres (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
