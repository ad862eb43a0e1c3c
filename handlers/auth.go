// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'lar incedir: request'i parse eder, service'i çağırır, sonucu
// JSON ya da HTML olarak yazar. İş mantığı service katmanındadır.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/ratelimit"
	"github.com/ieeeestu/site/services"
)

// adminHome, başarılı form girişinden sonra gidilen sayfa.
const adminHome = "/admin"

// AuthHandler, admin giriş/çıkış endpoint'leri.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	cookies      SessionCookies
	pages        *PageHandler
}

// NewAuthHandler, constructor.
// loginLimiter nil ise rate limiting devre dışı kalır.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter, cookies SessionCookies, pages *PageHandler) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		cookies:      cookies,
		pages:        pages,
	}
}

// allow, limiter'a danışır. Limit aşıldıysa Retry-After yazar ve kalan süreyi döner.
func (h *AuthHandler) allow(w http.ResponseWriter, ip string) (bool, int) {
	if h.loginLimiter == nil || h.loginLimiter.Allow(ip) {
		return true, 0
	}
	retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	return false, retryAfter
}

// Login godoc
// POST /api/auth/login
// Body: { "email": "...", "password": "..." }
//
// IP bazlı brute-force koruması: limit aşılınca 429. Başarılı giriş sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if ok, retryAfter := h.allow(w, ip); !ok {
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	h.cookies.Set(w, tokens)
	pkg.JSON(w, http.StatusOK, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshToken, body'deki token'ı, yoksa refresh cookie'sini döner.
// Boş body geçerlidir; admin paneli sadece cookie ile çağırır.
func refreshToken(r *http.Request) (string, error) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
	}
	if token := strings.TrimSpace(req.RefreshToken); token != "" {
		return token, nil
	}
	return cookieValue(r, RefreshCookieName), nil
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refreshToken": "..." } veya estu_refresh cookie'si
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := refreshToken(r)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if token == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, pkg.ErrUnauthorized) {
			h.cookies.Clear(w)
		}
		pkg.Error(w, err)
		return
	}

	h.cookies.Set(w, tokens)
	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refreshToken": "..." } veya estu_refresh cookie'si
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := refreshToken(r)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.SignOut(r.Context(), token); err != nil {
		pkg.Error(w, err)
		return
	}

	h.cookies.Clear(w)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LoginForm godoc
// POST /{locale}/login (public "/login" adresi locale router ile buraya düşer)
//
// Hatalı girişte form aynı sayfada mesajla tekrar render edilir.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	localizer := i18n.NewLocalizer(i18n.FromRequest(r))
	email := strings.TrimSpace(r.FormValue("email"))

	ip := ratelimit.ExtractIP(r)
	if ok, retryAfter := h.allow(w, ip); !ok {
		msg := localizer.TWithParams("login.tooMany", map[string]string{
			"wait": ratelimit.FormatRetryMessage(retryAfter),
		})
		h.pages.renderLogin(w, r, http.StatusTooManyRequests, email, msg)
		return
	}

	tokens, err := h.authService.SignIn(r.Context(), &models.LoginRequest{
		Email:    email,
		Password: r.FormValue("password"),
	})
	if err != nil {
		status := pkg.StatusOf(err)
		if status == http.StatusInternalServerError {
			log.Printf("[auth] form login failed: %v", err)
		}
		h.pages.renderLogin(w, r, status, email, localizer.T("login.invalid"))
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	h.cookies.Set(w, tokens)
	http.Redirect(w, r, adminHome, http.StatusSeeOther)
}

// AdminLogout godoc
// POST /admin/logout
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SignOut(r.Context(), cookieValue(r, RefreshCookieName)); err != nil {
		log.Printf("[auth] sign out failed: %v", err)
	}

	h.cookies.Clear(w)
	http.Redirect(w, r, "/login/tr", http.StatusSeeOther)
}
