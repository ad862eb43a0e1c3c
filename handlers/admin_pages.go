package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/email"
	"github.com/ieeeestu/site/services"
)

// flashMessages, redirect sonrası ?flash=<key> ile gösterilen mesajlar.
// Sadece bilinen anahtarlar gösterilir; query'den gelen metin sayfaya basılmaz.
var flashMessages = map[string]string{
	"created": "Saved successfully.",
	"updated": "Changes saved.",
	"deleted": "Deleted.",
	"sent":    "Campaign sent.",
}

// AdminPageHandler, session cookie ile korunan admin HTML ekranları.
type AdminPageHandler struct {
	renderer          *Renderer
	eventService      services.EventService
	postService       services.PostService
	newsletterService services.NewsletterService
	uploadService     services.UploadService
	maxUploadSize     int64
	emailEnabled      bool
	now               func() time.Time
}

// NewAdminPageHandler, constructor.
func NewAdminPageHandler(
	renderer *Renderer,
	eventService services.EventService,
	postService services.PostService,
	newsletterService services.NewsletterService,
	uploadService services.UploadService,
	maxUploadSize int64,
	emailEnabled bool,
) *AdminPageHandler {
	return &AdminPageHandler{
		renderer:          renderer,
		eventService:      eventService,
		postService:       postService,
		newsletterService: newsletterService,
		uploadService:     uploadService,
		maxUploadSize:     maxUploadSize,
		emailEnabled:      emailEnabled,
		now:               time.Now,
	}
}

func (h *AdminPageHandler) render(w http.ResponseWriter, r *http.Request, status int, name, section, title string, data any, errMsg string) {
	claims, _ := AdminFromContext(r.Context())
	h.renderer.Render(w, status, "admin/"+name, adminData{
		Admin:   claims,
		Section: section,
		Title:   title,
		Flash:   flashMessages[r.URL.Query().Get("flash")],
		Error:   errMsg,
		Data:    data,
	})
}

// fail, service hatasını admin ekranına uygun şekilde yazar.
// Not-found kayıtlar için 404 sayfası, diğer hatalar için genel mesaj.
func (h *AdminPageHandler) fail(w http.ResponseWriter, r *http.Request, section string, err error) {
	if errors.Is(err, pkg.ErrNotFound) {
		h.render(w, r, http.StatusNotFound, "notfound", section, "Not found", nil, "")
		return
	}
	log.Printf("[admin] %s %s failed: %v", r.Method, r.URL.Path, err)
	h.render(w, r, http.StatusInternalServerError, "notfound", section, "Error", nil, "Something went wrong. Please try again.")
}

// NotFound, eşleşmeyen /admin/ yolları.
func (h *AdminPageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", "", "Not found", nil, "")
}

// formError, 500 dışındaki hataları kullanıcıya olduğu gibi gösterir.
func formError(err error) (int, string) {
	if errors.Is(err, email.ErrNotConfigured) {
		return http.StatusInternalServerError, email.ErrNotConfigured.Error()
	}
	status := pkg.StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[admin] form save failed: %v", err)
		return status, "Something went wrong. Please try again."
	}
	return status, err.Error()
}

// Dashboard godoc
// GET /admin
func (h *AdminPageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListAdmin(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}
	posts, err := h.postService.ListAdmin(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}
	subscribers, err := h.newsletterService.Count(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}

	h.render(w, r, http.StatusOK, "dashboard", "dashboard", "Dashboard", map[string]any{
		"Events":      len(events),
		"Posts":       len(posts),
		"Subscribers": subscribers,
	}, "")
}

// parseForm, multipart ve urlencoded formları aynı şekilde okur.
func (h *AdminPageHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("%w: file too large or invalid form", pkg.ErrBadRequest)
	}
	return nil
}

// uploadedImage, formda image_file seçildiyse yükleyip URL'ini döner.
// Dosya seçilmediyse fallback döner.
func (h *AdminPageHandler) uploadedImage(r *http.Request, folder, fallback string) (string, error) {
	file, header, err := r.FormFile("image_file")
	if errors.Is(err, http.ErrMissingFile) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: invalid image upload", pkg.ErrBadRequest)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	result, err := h.uploadService.UploadImage(r.Context(), folder, file, header)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func formText(r *http.Request, name string) models.LocalizedText {
	return models.LocalizedText{
		TR: strings.TrimSpace(r.FormValue(name + "_tr")),
		EN: strings.TrimSpace(r.FormValue(name + "_en")),
	}
}

// ─── Events ───

// Events godoc
// GET /admin/events
func (h *AdminPageHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListAdmin(r.Context())
	if err != nil {
		h.fail(w, r, "events", err)
		return
	}
	h.render(w, r, http.StatusOK, "events", "events", "Events", map[string]any{"Events": events}, "")
}

func (h *AdminPageHandler) renderEventForm(w http.ResponseWriter, r *http.Request, status int, event *models.Event, action string, isNew bool, errMsg string) {
	h.render(w, r, status, "event_form", "events", "Event", map[string]any{
		"Event":  event,
		"Action": action,
		"IsNew":  isNew,
	}, errMsg)
}

// eventRequestFromForm, formu CreateEventRequest'e çevirir; görsel seçildiyse yükler.
func (h *AdminPageHandler) eventRequestFromForm(r *http.Request) (*models.CreateEventRequest, error) {
	req := &models.CreateEventRequest{
		Title:           formText(r, "title"),
		Description:     formText(r, "description"),
		Location:        formText(r, "location"),
		Category:        formText(r, "category"),
		Participants:    formText(r, "participants"),
		StatusLabel:     formText(r, "status_label"),
		Date:            r.FormValue("date"),
		Time:            r.FormValue("time"),
		Image:           strings.TrimSpace(r.FormValue("image")),
		Status:          models.EventStatus(r.FormValue("status")),
		RegistrationURL: r.FormValue("registration_url"),
	}

	image, err := h.uploadedImage(r, "events", req.Image)
	if err != nil {
		return req, err
	}
	req.Image = image
	return req, nil
}

// eventFromRequest, hatalı formu tekrar doldurmak için.
func eventFromRequest(req *models.CreateEventRequest) *models.Event {
	e := &models.Event{
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
	if req.RegistrationURL != "" {
		u := req.RegistrationURL
		e.RegistrationURL = &u
	}
	return e
}

// NewEvent godoc
// GET /admin/events/create
func (h *AdminPageHandler) NewEvent(w http.ResponseWriter, r *http.Request) {
	h.renderEventForm(w, r, http.StatusOK, &models.Event{Status: models.EventStatusUpcoming}, "/admin/events/create", true, "")
}

// CreateEvent godoc
// POST /admin/events/create
func (h *AdminPageHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	const action = "/admin/events/create"

	if err := h.parseForm(w, r); err != nil {
		h.renderEventForm(w, r, http.StatusBadRequest, &models.Event{}, action, true, err.Error())
		return
	}

	req, err := h.eventRequestFromForm(r)
	if err == nil {
		_, err = h.eventService.Create(r.Context(), req)
	}
	if err != nil {
		status, msg := formError(err)
		h.renderEventForm(w, r, status, eventFromRequest(req), action, true, msg)
		return
	}

	http.Redirect(w, r, "/admin/events?flash=created", http.StatusSeeOther)
}

// EditEvent godoc
// GET /admin/events/edit/{id}
func (h *AdminPageHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "events", err)
		return
	}
	h.renderEventForm(w, r, http.StatusOK, event, "/admin/events/edit/"+event.ID, false, "")
}

// UpdateEvent godoc
// POST /admin/events/edit/{id}
// Slug değişmez; diğer tüm alanlar formdaki değerle yazılır.
func (h *AdminPageHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	action := "/admin/events/edit/" + id

	if err := h.parseForm(w, r); err != nil {
		h.renderEventForm(w, r, http.StatusBadRequest, &models.Event{ID: id}, action, false, err.Error())
		return
	}

	req, err := h.eventRequestFromForm(r)
	if err == nil {
		_, err = h.eventService.Update(r.Context(), id, &models.UpdateEventRequest{
			Title:           &req.Title,
			Description:     &req.Description,
			Location:        &req.Location,
			Category:        &req.Category,
			Participants:    &req.Participants,
			StatusLabel:     &req.StatusLabel,
			Date:            &req.Date,
			Time:            &req.Time,
			Image:           &req.Image,
			Status:          &req.Status,
			RegistrationURL: &req.RegistrationURL,
		})
	}
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			h.fail(w, r, "events", err)
			return
		}
		status, msg := formError(err)
		event := eventFromRequest(req)
		event.ID = id
		h.renderEventForm(w, r, status, event, action, false, msg)
		return
	}

	http.Redirect(w, r, "/admin/events?flash=updated", http.StatusSeeOther)
}

// DeleteEvent godoc
// POST /admin/events/delete/{id}
func (h *AdminPageHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, "events", err)
		return
	}
	http.Redirect(w, r, "/admin/events?flash=deleted", http.StatusSeeOther)
}

// ─── Blog ───

// Posts godoc
// GET /admin/blog
func (h *AdminPageHandler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAdmin(r.Context())
	if err != nil {
		h.fail(w, r, "blog", err)
		return
	}
	h.render(w, r, http.StatusOK, "posts", "blog", "Blog", map[string]any{"Posts": posts}, "")
}

func (h *AdminPageHandler) renderPostForm(w http.ResponseWriter, r *http.Request, status int, post *models.BlogPost, action string, isNew bool, errMsg string) {
	h.render(w, r, status, "post_form", "blog", "Blog post", map[string]any{
		"Post":   post,
		"Action": action,
		"IsNew":  isNew,
	}, errMsg)
}

func (h *AdminPageHandler) postRequestFromForm(r *http.Request) (*models.CreatePostRequest, error) {
	req := &models.CreatePostRequest{
		Title:     formText(r, "title"),
		Excerpt:   formText(r, "excerpt"),
		Content:   formText(r, "content"),
		Author:    r.FormValue("author"),
		Category:  r.FormValue("category"),
		Image:     strings.TrimSpace(r.FormValue("image")),
		Date:      r.FormValue("date"),
		Published: r.FormValue("published") != "",
	}

	image, err := h.uploadedImage(r, "blog", req.Image)
	if err != nil {
		return req, err
	}
	req.Image = image
	return req, nil
}

func postFromRequest(req *models.CreatePostRequest) *models.BlogPost {
	return &models.BlogPost{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Author:    req.Author,
		Category:  req.Category,
		Image:     req.Image,
		Date:      req.Date,
		Published: req.Published,
	}
}

// NewPost godoc
// GET /admin/blog/create
func (h *AdminPageHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	post := &models.BlogPost{
		Author: "IEEE ESTU",
		Date:   h.now().UTC().Format("2006-01-02"),
	}
	h.renderPostForm(w, r, http.StatusOK, post, "/admin/blog/create", true, "")
}

// CreatePost godoc
// POST /admin/blog/create
func (h *AdminPageHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	const action = "/admin/blog/create"

	if err := h.parseForm(w, r); err != nil {
		h.renderPostForm(w, r, http.StatusBadRequest, &models.BlogPost{}, action, true, err.Error())
		return
	}

	req, err := h.postRequestFromForm(r)
	if err == nil {
		_, err = h.postService.Create(r.Context(), req)
	}
	if err != nil {
		status, msg := formError(err)
		h.renderPostForm(w, r, status, postFromRequest(req), action, true, msg)
		return
	}

	http.Redirect(w, r, "/admin/blog?flash=created", http.StatusSeeOther)
}

// EditPost godoc
// GET /admin/blog/edit/{id}
func (h *AdminPageHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "blog", err)
		return
	}
	h.renderPostForm(w, r, http.StatusOK, post, "/admin/blog/edit/"+post.ID, false, "")
}

// UpdatePost godoc
// POST /admin/blog/edit/{id}
func (h *AdminPageHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	action := "/admin/blog/edit/" + id

	if err := h.parseForm(w, r); err != nil {
		h.renderPostForm(w, r, http.StatusBadRequest, &models.BlogPost{ID: id}, action, false, err.Error())
		return
	}

	req, err := h.postRequestFromForm(r)
	if err == nil {
		_, err = h.postService.Update(r.Context(), id, &models.UpdatePostRequest{
			Title:     &req.Title,
			Excerpt:   &req.Excerpt,
			Content:   &req.Content,
			Author:    &req.Author,
			Category:  &req.Category,
			Image:     &req.Image,
			Date:      &req.Date,
			Published: &req.Published,
		})
	}
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			h.fail(w, r, "blog", err)
			return
		}
		status, msg := formError(err)
		post := postFromRequest(req)
		post.ID = id
		h.renderPostForm(w, r, status, post, action, false, msg)
		return
	}

	http.Redirect(w, r, "/admin/blog?flash=updated", http.StatusSeeOther)
}

// DeletePost godoc
// POST /admin/blog/delete/{id}
func (h *AdminPageHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, "blog", err)
		return
	}
	http.Redirect(w, r, "/admin/blog?flash=deleted", http.StatusSeeOther)
}

// ─── Newsletter ───

func (h *AdminPageHandler) renderNewsletter(w http.ResponseWriter, r *http.Request, status int, query, errMsg string) {
	subs, err := h.newsletterService.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, "newsletter", err)
		return
	}
	h.render(w, r, status, "newsletter", "newsletter", "Newsletter", map[string]any{
		"Subscribers":  subs,
		"Query":        query,
		"EmailEnabled": h.emailEnabled,
	}, errMsg)
}

// Newsletter godoc
// GET /admin/newsletter?q=
func (h *AdminPageHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	h.renderNewsletter(w, r, http.StatusOK, strings.TrimSpace(r.URL.Query().Get("q")), "")
}

// ExportSubscribers godoc
// GET /admin/newsletter/export.csv?q=
// Dosya: newsletter-subscribers-YYYY-MM-DD.csv, kolonlar: Email,Subscribed At,Locale
func (h *AdminPageHandler) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletterService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, "newsletter", err)
		return
	}

	filename := fmt.Sprintf("newsletter-subscribers-%s.csv", h.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Email", "Subscribed At", "Locale"})
	for _, s := range subs {
		_ = cw.Write([]string{s.Email, s.SubscribedAt.UTC().Format("2006-01-02 15:04:05"), s.Locale})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("[admin] csv export failed: %v", err)
	}
}

// DeleteSubscriber godoc
// POST /admin/newsletter/delete/{id}
func (h *AdminPageHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := h.newsletterService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, "newsletter", err)
		return
	}
	http.Redirect(w, r, "/admin/newsletter?flash=deleted", http.StatusSeeOther)
}

// SendCampaign godoc
// POST /admin/newsletter/campaign
// Alıcılar, formdaki q filtresiyle eşleşen abonelerdir (boşsa hepsi).
func (h *AdminPageHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.FormValue("q"))

	subs, err := h.newsletterService.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, "newsletter", err)
		return
	}

	emails := make([]string, 0, len(subs))
	for _, s := range subs {
		emails = append(emails, s.Email)
	}

	result, err := h.newsletterService.SendCampaign(r.Context(), &models.CampaignRequest{
		Emails:  emails,
		Subject: r.FormValue("subject"),
		HTML:    r.FormValue("html"),
	})
	if err != nil {
		status, msg := formError(err)
		h.renderNewsletter(w, r, status, query, msg)
		return
	}

	log.Printf("[admin] campaign sent: %d/%d delivered", result.Sent, result.Total)

	target := url.URL{Path: "/admin/newsletter", RawQuery: url.Values{"flash": {"sent"}, "q": {query}}.Encode()}
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}
