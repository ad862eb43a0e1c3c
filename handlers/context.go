package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/services"
)

type contextKey string

// AdminContextKey, auth middleware'ın doğruladığı token claim'lerini taşır.
const AdminContextKey contextKey = "admin"

// Admin panel cookie'leri. ws handler da session cookie'sini okur.
const (
	SessionCookieName = "estu_session"
	RefreshCookieName = "estu_refresh"
)

// WithAdmin, claim'leri context'e ekler.
func WithAdmin(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, AdminContextKey, claims)
}

// AdminFromContext, giriş yapmış adminin claim'lerini döner.
func AdminFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(AdminContextKey).(*models.TokenClaims)
	return claims, ok && claims != nil
}

// SessionCookies, admin oturum cookie'lerini yazar ve temizler.
// Secure production'da true olmalı (HTTPS).
type SessionCookies struct {
	Secure bool
}

// Set, ID token'ı ve refresh token'ı HttpOnly cookie olarak yazar.
func (c SessionCookies) Set(w http.ResponseWriter, tokens *services.AuthTokens) {
	http.SetCookie(w, c.cookie(SessionCookieName, tokens.IDToken, tokens.ExpiresAt))
	http.SetCookie(w, c.cookie(RefreshCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

// Clear, iki cookie'yi de siler.
func (c SessionCookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{SessionCookieName, RefreshCookieName} {
		cookie := c.cookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c SessionCookies) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// cookieValue, cookie yoksa boş string döner.
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
