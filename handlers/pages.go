package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/routes"
	"github.com/ieeeestu/site/services"
)

// homeListLimit, ana sayfada gösterilen etkinlik/yazı sayısı.
const homeListLimit = 3

// PageHandler, public sayfaları render eder.
// Sayfa mux'ı iç yollarla çalışır (/tr/hakkimizda); locale router isteği
// buraya gelmeden önce rewrite eder ve locale'i context'e koyar.
type PageHandler struct {
	renderer     *Renderer
	table        *routes.Table
	eventService services.EventService
	postService  services.PostService
}

// NewPageHandler, constructor.
func NewPageHandler(renderer *Renderer, table *routes.Table, eventService services.EventService, postService services.PostService) *PageHandler {
	return &PageHandler{
		renderer:     renderer,
		table:        table,
		eventService: eventService,
		postService:  postService,
	}
}

// page, isteğin locale'i ve kanonik yolu ile şablon verisi kurar.
func (h *PageHandler) page(r *http.Request, title string, data any) pageData {
	locale := i18n.FromRequest(r)

	internal := strings.TrimPrefix(r.URL.Path, "/"+locale)
	if internal == "" {
		internal = "/"
	}

	return pageData{
		Locale: locale,
		Path:   h.table.ToEnglishPath(internal),
		Title:  title,
		Data:   data,
	}
}

func (h *PageHandler) t(r *http.Request, key string) string {
	return i18n.NewLocalizer(i18n.FromRequest(r)).T(key)
}

// Home godoc
// GET /{locale}
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	// Okuma hataları sayfayı düşürmez; ilgili bölüm boş gösterilir.
	events, err := h.eventService.ListPublic(r.Context(), models.EventStatusUpcoming)
	if err != nil {
		h.readFailed(r, err)
		events = nil
	}
	posts, err := h.postService.ListPublished(r.Context(), homeListLimit)
	if err != nil {
		h.readFailed(r, err)
		posts = nil
	}

	// Liste tarihe göre azalan; en yakın etkinlikler sondadır.
	if len(events) > homeListLimit {
		events = events[len(events)-homeListLimit:]
	}

	h.renderer.Render(w, http.StatusOK, "site/home", h.page(r, "", map[string]any{
		"Events": events,
		"Posts":  posts,
	}))
}

// Static, içeriği çeviri dosyasından gelen sayfalar (hakkımızda, iletişim, ...).
// key, "pages.<key>.title" ve "pages.<key>.body" çevirilerini seçer.
func (h *PageHandler) Static(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, http.StatusOK, "site/page",
			h.page(r, h.t(r, "pages."+key+".title"), map[string]any{"Key": key}))
	}
}

// Events godoc
// GET /{locale}/events
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListPublic(r.Context(), "")
	if err != nil {
		h.readFailed(r, err)
		events = nil
	}

	var upcoming, past []models.Event
	for _, e := range events {
		if e.Status == models.EventStatusPast {
			past = append(past, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}

	h.renderer.Render(w, http.StatusOK, "site/events", h.page(r, h.t(r, "events.title"), map[string]any{
		"Upcoming": upcoming,
		"Past":     past,
	}))
}

// Event godoc
// GET /{locale}/events/{slug}
func (h *PageHandler) Event(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.notFoundOnError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "site/event",
		h.page(r, event.Title.Get(i18n.FromRequest(r)), map[string]any{"Event": event}))
}

// Blog godoc
// GET /{locale}/blog
func (h *PageHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPublished(r.Context(), 0)
	if err != nil {
		h.readFailed(r, err)
		posts = nil
	}

	h.renderer.Render(w, http.StatusOK, "site/blog",
		h.page(r, h.t(r, "blog.title"), map[string]any{"Posts": posts}))
}

// Post godoc
// GET /{locale}/blog/{slug}
func (h *PageHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.notFoundOnError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "site/post",
		h.page(r, post.Title.Get(i18n.FromRequest(r)), map[string]any{"Post": post}))
}

// Login godoc
// GET /{locale}/login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "", "")
}

func (h *PageHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, errMsg string) {
	h.renderer.Render(w, status, "site/login", h.page(r, h.t(r, "login.title"), map[string]any{
		"Email": email,
		"Error": errMsg,
	}))
}

// NotFound, sayfa mux'ının catch-all'u.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, h.t(r, "notFound.title"), nil)
	data.Path = routes.Home
	h.renderer.Render(w, http.StatusNotFound, "site/notfound", data)
}

// notFoundOnError, detay sayfalarında her okuma hatasını 404 olarak gösterir.
// ErrNotFound dışındaki hatalar loglanır.
func (h *PageHandler) notFoundOnError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, pkg.ErrNotFound) {
		h.readFailed(r, err)
	}
	h.NotFound(w, r)
}

func (h *PageHandler) readFailed(r *http.Request, err error) {
	log.Printf("[pages] %s %s read failed: %v", r.Method, r.URL.Path, err)
}
