// Package main, HTTP route registration.
//
// initRoutes, tüm endpoint'leri mux'a bağlar. Üç grup vardır:
//   - /api/...    JSON API (auth, newsletter, upload, admin CRUD)
//   - /admin/...  session cookie ile korunan admin ekranları
//   - /{locale}/... LocaleRouter'ın rewrite ettiği public sayfalar
//
// Public sayfalar ayrı bir mux'ta tutulur; ana mux'ta eşleşmeyen her şey oraya düşer.
package main

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/middleware"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/services"
	"github.com/ieeeestu/site/static"
)

// staticPages, içeriği çeviri dosyasından gelen sayfalar: iç yol → çeviri key'i.
var staticPages = map[string]string{
	"hakkimizda":   "about",
	"ekibimiz":     "team",
	"komiteler":    "committees",
	"takimlar":     "subteams",
	"sponsorlar":   "sponsors",
	"iletisim":     "contact",
	"xtreme":       "xtreme",
	"privacy":      "privacy",
	"terms":        "terms",
	"membership":   "membership",
	"events/apply": "apply",
}

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Go 1.22 mux en spesifik pattern'i seçer, yine de
// literal path'ler (events/apply) parametrik olanlardan (events/{slug}) önce yazılır.
func initRoutes(mux *http.ServeMux, h *Handlers, authService services.AuthService, cookies handlers.SessionCookies, uploadDir string) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, cookies)

	// ─── Middleware Chain Helpers ───
	bearer := func(handler http.HandlerFunc) http.Handler {
		return authMw.RequireBearer(http.HandlerFunc(handler))
	}
	session := func(handler http.HandlerFunc) http.Handler {
		return authMw.RequireSession(http.HandlerFunc(handler))
	}

	// ╔══════════════════════════════════════════╗
	// ║  JSON API                                ║
	// ╚══════════════════════════════════════════╝

	// Health & stats
	mux.HandleFunc("GET /api/health", h.Stats.Health)
	mux.HandleFunc("GET /api/stats", h.Stats.GetPublicStats)

	// Auth
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Newsletter
	mux.HandleFunc("POST /api/newsletter/subscribe", h.Newsletter.Subscribe)
	mux.HandleFunc("POST /api/newsletter/welcome", h.Newsletter.Welcome)
	mux.Handle("POST /api/newsletter/campaign", bearer(h.Newsletter.Campaign))
	mux.Handle("GET /api/admin/newsletter", bearer(h.Newsletter.ListSubscribers))
	mux.Handle("DELETE /api/admin/newsletter", bearer(h.Newsletter.DeleteSubscriber))

	// Upload
	mux.Handle("POST /api/upload", bearer(h.Upload.Upload))
	mux.Handle("DELETE /api/upload", bearer(h.Upload.Delete))

	// Admin CRUD
	mux.Handle("GET /api/admin/events", bearer(h.AdminAPI.ListEvents))
	mux.Handle("POST /api/admin/events", bearer(h.AdminAPI.CreateEvent))
	mux.Handle("GET /api/admin/events/{id}", bearer(h.AdminAPI.GetEvent))
	mux.Handle("PATCH /api/admin/events/{id}", bearer(h.AdminAPI.UpdateEvent))
	mux.Handle("DELETE /api/admin/events/{id}", bearer(h.AdminAPI.DeleteEvent))
	mux.Handle("GET /api/admin/posts", bearer(h.AdminAPI.ListPosts))
	mux.Handle("POST /api/admin/posts", bearer(h.AdminAPI.CreatePost))
	mux.Handle("GET /api/admin/posts/{id}", bearer(h.AdminAPI.GetPost))
	mux.Handle("PATCH /api/admin/posts/{id}", bearer(h.AdminAPI.UpdatePost))
	mux.Handle("DELETE /api/admin/posts/{id}", bearer(h.AdminAPI.DeletePost))

	// Eşleşmeyen /api/ istekleri HTML 404 yerine JSON hata alır.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		pkg.Error(w, pkg.ErrNotFound)
	})

	// ╔══════════════════════════════════════════╗
	// ║  ADMIN EKRANLARI                         ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /admin", session(h.AdminPages.Dashboard))
	mux.Handle("GET /admin/{$}", session(h.AdminPages.Dashboard))
	mux.HandleFunc("POST /admin/logout", h.Auth.AdminLogout)

	mux.Handle("GET /admin/events", session(h.AdminPages.Events))
	mux.Handle("GET /admin/events/create", session(h.AdminPages.NewEvent))
	mux.Handle("POST /admin/events/create", session(h.AdminPages.CreateEvent))
	mux.Handle("GET /admin/events/edit/{id}", session(h.AdminPages.EditEvent))
	mux.Handle("POST /admin/events/edit/{id}", session(h.AdminPages.UpdateEvent))
	mux.Handle("POST /admin/events/delete/{id}", session(h.AdminPages.DeleteEvent))

	mux.Handle("GET /admin/blog", session(h.AdminPages.Posts))
	mux.Handle("GET /admin/blog/create", session(h.AdminPages.NewPost))
	mux.Handle("POST /admin/blog/create", session(h.AdminPages.CreatePost))
	mux.Handle("GET /admin/blog/edit/{id}", session(h.AdminPages.EditPost))
	mux.Handle("POST /admin/blog/edit/{id}", session(h.AdminPages.UpdatePost))
	mux.Handle("POST /admin/blog/delete/{id}", session(h.AdminPages.DeletePost))

	mux.Handle("GET /admin/newsletter", session(h.AdminPages.Newsletter))
	mux.Handle("GET /admin/newsletter/export.csv", session(h.AdminPages.ExportSubscribers))
	mux.Handle("POST /admin/newsletter/delete/{id}", session(h.AdminPages.DeleteSubscriber))
	mux.Handle("POST /admin/newsletter/campaign", session(h.AdminPages.SendCampaign))

	// Eşleşmeyen admin yolları panel içinde 404 alır.
	mux.Handle("/admin/", session(h.AdminPages.NotFound))

	// WebSocket: token cookie'den okunur, doğrulamayı ws.Handler yapar.
	mux.HandleFunc("GET /admin/ws", h.WS.HandleConnection)

	// ╔══════════════════════════════════════════╗
	// ║  STATİK DOSYALAR                         ║
	// ╚══════════════════════════════════════════╝

	assets, err := fs.Sub(static.Assets, "assets")
	if err != nil {
		panic(err) // embed path'i derleme zamanında sabit
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(assets)))
	mux.Handle("GET /images/", http.FileServerFS(assets))
	mux.Handle("GET /static/uploads/", http.StripPrefix("/static/uploads/",
		http.FileServerFS(noDirFS{os.DirFS(uploadDir)})))

	// ╔══════════════════════════════════════════╗
	// ║  PUBLIC SAYFALAR                         ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("/", pageRoutes(h))
}

// pageRoutes, LocaleRouter'ın ürettiği /{locale}/... iç yollarını karşılar.
func pageRoutes(h *Handlers) http.Handler {
	pages := http.NewServeMux()

	pages.HandleFunc("GET /{locale}", h.Pages.Home)
	for internal, key := range staticPages {
		pages.HandleFunc("GET /{locale}/"+internal, h.Pages.Static(key))
	}
	pages.HandleFunc("GET /{locale}/events", h.Pages.Events)
	pages.HandleFunc("GET /{locale}/events/{slug}", h.Pages.Event)
	pages.HandleFunc("GET /{locale}/blog", h.Pages.Blog)
	pages.HandleFunc("GET /{locale}/blog/{slug}", h.Pages.Post)
	pages.HandleFunc("GET /{locale}/login", h.Pages.Login)
	pages.HandleFunc("POST /{locale}/login", h.Auth.LoginForm)

	pages.HandleFunc("/", h.Pages.NotFound)
	return pages
}

// noDirFS, dizin listelemeyi kapatır: dizin açma istekleri fs.ErrNotExist döner.
type noDirFS struct {
	fs.FS
}

func (n noDirFS) Open(name string) (fs.File, error) {
	f, err := n.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
