package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/email"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/services"
)

// cooldownCookieName, son başarılı aboneliğin unix-ms zamanını tutar.
// İstemci tarafında tutulduğu için sadece kullanıcı deneyimi içindir;
// cookie silinerek aşılabilir.
const cooldownCookieName = "newsletter_last"

// NewsletterHandler, bülten endpoint'leri.
type NewsletterHandler struct {
	newsletterService services.NewsletterService
	cooldown          time.Duration
	secureCookies     bool
	now               func() time.Time
}

// NewNewsletterHandler, constructor.
func NewNewsletterHandler(newsletterService services.NewsletterService, cooldown time.Duration, secureCookies bool) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
		cooldown:          cooldown,
		secureCookies:     secureCookies,
		now:               time.Now,
	}
}

// subscribeErrorKeys, service hatasını çeviri anahtarına eşler.
var subscribeErrorKeys = []struct {
	err error
	key string
}{
	{models.ErrSubscribeMissingFields, "newsletter.missingFields"},
	{models.ErrInvalidEmail, "newsletter.invalidEmail"},
	{models.ErrInvalidLocale, "newsletter.invalidLocale"},
	{models.ErrDisposableEmail, "newsletter.disposable"},
	{pkg.ErrAlreadyExists, "newsletter.alreadySubscribed"},
}

// Subscribe godoc
// POST /api/newsletter/subscribe
// Body: { "email": "...", "locale": "tr|en", "website": "" }
//
// 200 {success, welcomeSent, emailError?, message}; 400 doğrulama; 409 kayıtlı; 429 cooldown.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	locale := req.Locale
	if !i18n.IsSupported(locale) {
		locale = i18n.FromRequest(r)
	}
	localizer := i18n.NewLocalizer(locale)

	if left := h.cooldownLeft(r); left > 0 {
		minutes := int(math.Ceil(left.Minutes()))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			localizer.TWithParams("newsletter.cooldown", map[string]string{"minutes": strconv.Itoa(minutes)}))
		return
	}

	result, err := h.newsletterService.Subscribe(r.Context(), &req)
	if err != nil {
		status := pkg.StatusOf(err)
		for _, m := range subscribeErrorKeys {
			if errors.Is(err, m.err) {
				pkg.ErrorWithMessage(w, status, localizer.T(m.key))
				return
			}
		}
		log.Printf("[newsletter] subscribe failed: %v", err)
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, localizer.T("newsletter.error"))
		return
	}

	if result.WelcomeSent {
		result.Message = localizer.T("newsletter.success")
	} else {
		result.Message = localizer.T("newsletter.successNoEmail")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cooldownCookieName,
		Value:    strconv.FormatInt(h.now().UnixMilli(), 10),
		Path:     "/",
		MaxAge:   int(h.cooldown.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	pkg.RawJSON(w, http.StatusOK, result)
}

// cooldownLeft, son abonelikten bu yana cooldown dolmadıysa kalan süreyi döner.
func (h *NewsletterHandler) cooldownLeft(r *http.Request) time.Duration {
	raw := cookieValue(r, cooldownCookieName)
	if raw == "" || h.cooldown <= 0 {
		return 0
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	left := h.cooldown - h.now().Sub(time.UnixMilli(ms))
	if left < 0 || left > h.cooldown {
		return 0
	}
	return left
}

// Welcome godoc
// POST /api/newsletter/welcome
// Body: { "email": "...", "locale": "tr|en" }
func (h *NewsletterHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	var req models.WelcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.newsletterService.SendWelcome(r.Context(), &req); err != nil {
		writeEmailError(w, err)
		return
	}

	pkg.RawJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Campaign godoc
// POST /api/newsletter/campaign (Bearer)
// Body: { "emails": [...], "subject": "...", "html": "..." }
func (h *NewsletterHandler) Campaign(w http.ResponseWriter, r *http.Request) {
	var req models.CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.newsletterService.SendCampaign(r.Context(), &req)
	if err != nil {
		writeEmailError(w, err)
		return
	}

	pkg.RawJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sent":    result.Sent,
		"failed":  result.Failed,
		"total":   result.Total,
	})
}

// subscriberView, admin listesindeki abone şekli.
type subscriberView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Locale       string    `json:"locale"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// ListSubscribers godoc
// GET /api/admin/newsletter (Bearer)
// Response: { "subscribers": [...] }, en yeni başta.
func (h *NewsletterHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletterService.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	views := make([]subscriberView, 0, len(subs))
	for _, s := range subs {
		views = append(views, subscriberView{ID: s.ID, Email: s.Email, Locale: s.Locale, SubscribedAt: s.SubscribedAt})
	}
	pkg.RawJSON(w, http.StatusOK, map[string]any{"subscribers": views})
}

// DeleteSubscriber godoc
// DELETE /api/admin/newsletter (Bearer)
// Body: { "id": "..." }
func (h *NewsletterHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "Subscriber ID is required")
		return
	}

	if err := h.newsletterService.Delete(r.Context(), req.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.RawJSON(w, http.StatusOK, map[string]any{"success": true})
}

// writeEmailError, "email yapılandırılmadı" durumunu mesajıyla birlikte 500 olarak yazar.
// pkg.Error 500'lerde mesajı gizler; bu durum istemciye açıkça söylenir.
func writeEmailError(w http.ResponseWriter, err error) {
	if errors.Is(err, email.ErrNotConfigured) {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, email.ErrNotConfigured.Error())
		return
	}
	pkg.Error(w, err)
}
