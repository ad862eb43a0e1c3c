package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/cache"
	"github.com/ieeeestu/site/services"
)

// StatsResponse, public istatistik endpoint'inin response formatı.
type StatsResponse struct {
	UpcomingEvents int `json:"upcomingEvents"`
	PastEvents     int `json:"pastEvents"`
	Posts          int `json:"posts"`
	Subscribers    int `json:"subscribers"`
}

// ConnectionCounter, hub'ın açık bağlantı sayısı.
type ConnectionCounter interface {
	TotalConnections() int
}

// StatsHandler, health ve public istatistik endpoint'leri. Auth gerekmez.
type StatsHandler struct {
	db                *sql.DB
	hub               ConnectionCounter
	eventService      services.EventService
	postService       services.PostService
	newsletterService services.NewsletterService
	cache             *cache.TTLCache[string, StatsResponse]
}

// statsTTL, public istatistiklerin cache süresi.
const statsTTL = 30 * time.Second

// NewStatsHandler, constructor.
func NewStatsHandler(
	db *sql.DB,
	hub ConnectionCounter,
	eventService services.EventService,
	postService services.PostService,
	newsletterService services.NewsletterService,
) *StatsHandler {
	return &StatsHandler{
		db:                db,
		hub:               hub,
		eventService:      eventService,
		postService:       postService,
		newsletterService: newsletterService,
		cache:             cache.New[string, StatsResponse](statsTTL),
	}
}

// Health godoc
// GET /api/health
// Veritabanına ulaşılamıyorsa 503.
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.hub.TotalConnections(),
	})
}

// GetPublicStats godoc
// GET /api/stats
// Response: { "success": true, "data": { "upcomingEvents": 2, ... } }
func (h *StatsHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	if stats, ok := h.cache.Get("public"); ok {
		pkg.JSON(w, http.StatusOK, stats)
		return
	}

	events, err := h.eventService.ListPublic(r.Context(), "")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	posts, err := h.postService.ListPublished(r.Context(), 0)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	subscribers, err := h.newsletterService.Count(r.Context())
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	stats := StatsResponse{Posts: len(posts), Subscribers: subscribers}
	for _, e := range events {
		if e.Status == models.EventStatusPast {
			stats.PastEvents++
		} else {
			stats.UpcomingEvents++
		}
	}

	h.cache.Set("public", stats)
	pkg.JSON(w, http.StatusOK, stats)
}
