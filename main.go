// Package main, IEEE ESTU sitesinin giriş noktasıdır.
//
// Bu dosyanın görevi Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (gömülü migration'lar)
//  3. i18n çevirilerini yükle
//  4. WebSocket Hub'ı başlat
//  5. Repository, service ve handler katmanlarını kur (init_*.go)
//  6. İlk admin hesabını oluştur
//  7. Route'ları bağla, LocaleRouter + CORS ile sar
//  8. HTTP Server'ı başlat
//  9. Graceful shutdown
//
// Global değişken YOK, her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ieeeestu/site/config"
	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/middleware"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/routes"
	"github.com/ieeeestu/site/ws"
	"github.com/rs/cors"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] ieeeestu site starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open migrations: %v", err)
	}
	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. i18n ───
	locales, err := fs.Sub(i18n.EmbeddedLocales, "locales")
	if err != nil {
		log.Fatalf("[main] failed to open locales: %v", err)
	}
	if err := i18n.Load(locales); err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}

	// ─── 4. WebSocket Hub ───
	//
	// Hub, admin panelindeki açık bağlantıları tutar. Service'ler hub'a
	// EventPublisher interface'i üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Katmanlar ───
	repos := initRepositories(db.Conn)

	svcs, limiters, err := initServices(db.Conn, repos, hub, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize services: %v", err)
	}

	table := routes.Default()
	cookies := handlers.SessionCookies{Secure: cfg.Server.SecureCookies}

	h, err := initHandlers(db.Conn, svcs, limiters, hub, table, cookies, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize handlers: %v", err)
	}

	// ─── 6. Bootstrap Admin ───
	if cfg.Admin.Email != "" {
		if err := svcs.Auth.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatalf("[main] failed to ensure admin: %v", err)
		}
	}

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	startSessionPruner(jobsCtx, svcs.Auth)

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, cookies, cfg.Upload.Dir)

	localeRouter := middleware.NewLocaleRouter(table)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            false,
	})

	handler := corsHandler.Handler(localeRouter.Handler(mux))

	// ─── 8. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 9. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı (5sn timeout).
	stopJobs()
	limiters.Login.Stop()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
