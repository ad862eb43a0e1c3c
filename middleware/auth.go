// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Her middleware func(next http.Handler) http.Handler imzasındadır; kendi
// kontrolünü yapar, başarısızsa yanıtı yazar ve next'i çağırmaz.
package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/services"
)

// LoginPath, oturumu olmayan admin isteklerinin yönlendirildiği sayfa.
const LoginPath = "/login/tr"

// AuthMiddleware, admin kimlik doğrulaması.
// Giriş yapmış her admin her şeye erişebilir; rol kontrolü yoktur.
type AuthMiddleware struct {
	authService services.AuthService
	cookies     handlers.SessionCookies
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, cookies handlers.SessionCookies) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookies:     cookies,
	}
}

// RequireBearer, JSON API için. Header formatı: Authorization: Bearer <token>.
// Header yoksa admin panelinden gelen same-origin fetch'ler için session
// cookie'sine bakılır; başka origin'den gelen cookie'li istekler 401 alır.
// Token yoksa veya geçersizse 401.
func (m *AuthMiddleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
				return
			}
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := r.Cookie(handlers.SessionCookieName); err == nil && sameOrigin(r) {
			token = cookie.Value
		}

		if token == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		claims, err := m.authService.VerifyIDToken(token)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithAdmin(r.Context(), claims)))
	})
}

// RequireSession, admin HTML ekranları için.
// ID token cookie'si geçersizse refresh cookie ile oturum yenilenir;
// o da olmazsa cookie'ler silinir ve login sayfasına yönlendirilir.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(handlers.SessionCookieName); err == nil && cookie.Value != "" {
			claims, err := m.authService.VerifyIDToken(cookie.Value)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(handlers.WithAdmin(r.Context(), claims)))
				return
			}
		}

		if cookie, err := r.Cookie(handlers.RefreshCookieName); err == nil && cookie.Value != "" {
			tokens, err := m.authService.Refresh(r.Context(), cookie.Value)
			if err == nil {
				var claims *models.TokenClaims
				if claims, err = m.authService.VerifyIDToken(tokens.IDToken); err == nil {
					m.cookies.Set(w, tokens)
					next.ServeHTTP(w, r.WithContext(handlers.WithAdmin(r.Context(), claims)))
					return
				}
			}
			if !errors.Is(err, pkg.ErrUnauthorized) {
				log.Printf("[auth] session refresh failed: %v", err)
			}
		}

		m.cookies.Clear(w)
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// sameOrigin, Origin header'ı yoksa ya da host ile eşleşiyorsa true.
// Tarayıcılar cross-origin fetch'lerde Origin'i her zaman gönderir.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
