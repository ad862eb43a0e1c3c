package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/services"
)

// AdminAPIHandler, admin ekranlarının JSON karşılığı (Bearer ile korunur).
// Yanıtlar pkg.JSON zarfı ile döner.
type AdminAPIHandler struct {
	eventService services.EventService
	postService  services.PostService
}

// NewAdminAPIHandler, constructor.
func NewAdminAPIHandler(eventService services.EventService, postService services.PostService) *AdminAPIHandler {
	return &AdminAPIHandler{
		eventService: eventService,
		postService:  postService,
	}
}

// ListEvents godoc
// GET /api/admin/events
func (h *AdminAPIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListAdmin(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, events)
}

// GetEvent godoc
// GET /api/admin/events/{id}
func (h *AdminAPIHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, event)
}

// CreateEvent godoc
// POST /api/admin/events
func (h *AdminAPIHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// PATCH /api/admin/events/{id}
// Sadece gönderilen alanlar değişir.
func (h *AdminAPIHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.eventService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, event)
}

// DeleteEvent godoc
// DELETE /api/admin/events/{id}
func (h *AdminAPIHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// ListPosts godoc
// GET /api/admin/posts
// Taslaklar dahil tüm yazılar.
func (h *AdminAPIHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAdmin(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, posts)
}

// GetPost godoc
// GET /api/admin/posts/{id}
func (h *AdminAPIHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}

// CreatePost godoc
// POST /api/admin/posts
func (h *AdminAPIHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, post)
}

// UpdatePost godoc
// PATCH /api/admin/posts/{id}
func (h *AdminAPIHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}

// DeletePost godoc
// DELETE /api/admin/posts/{id}
func (h *AdminAPIHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
