// Package main, handler katmanı başlatma.
//
// initHandlers, HTTP handler'larını oluşturur. Handler'lar ince tutulur:
// parse + service çağrısı + yanıt.
package main

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/ieeeestu/site/config"
	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/pkg/routes"
	"github.com/ieeeestu/site/static"
	"github.com/ieeeestu/site/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Pages      *handlers.PageHandler
	Auth       *handlers.AuthHandler
	Newsletter *handlers.NewsletterHandler
	Upload     *handlers.UploadHandler
	AdminAPI   *handlers.AdminAPIHandler
	AdminPages *handlers.AdminPageHandler
	Stats      *handlers.StatsHandler
	WS         *ws.Handler
}

// initHandlers, gömülü şablonları parse eder ve handler'ları oluşturur.
func initHandlers(db *sql.DB, svcs *Services, limiters *RateLimiters, hub *ws.Hub, table *routes.Table, cookies handlers.SessionCookies, cfg *config.Config) (*Handlers, error) {
	templatesFS, err := fs.Sub(static.Templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}
	renderer, err := handlers.NewRenderer(templatesFS, table)
	if err != nil {
		return nil, err
	}

	pages := handlers.NewPageHandler(renderer, table, svcs.Event, svcs.Post)

	return &Handlers{
		Pages:      pages,
		Auth:       handlers.NewAuthHandler(svcs.Auth, limiters.Login, cookies, pages),
		Newsletter: handlers.NewNewsletterHandler(svcs.Newsletter, cfg.Newsletter.Cooldown, cfg.Server.SecureCookies),
		Upload:     handlers.NewUploadHandler(svcs.Upload, cfg.Upload.MaxSize),
		AdminAPI:   handlers.NewAdminAPIHandler(svcs.Event, svcs.Post),
		AdminPages: handlers.NewAdminPageHandler(
			renderer, svcs.Event, svcs.Post, svcs.Newsletter, svcs.Upload,
			cfg.Upload.MaxSize, svcs.EmailEnabled,
		),
		Stats: handlers.NewStatsHandler(db, hub, svcs.Event, svcs.Post, svcs.Newsletter),
		WS:    ws.NewHandler(hub, svcs.Auth, handlers.SessionCookieName),
	}, nil
}
