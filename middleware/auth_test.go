package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/services"
)

// fakeAuth, sadece "valid" ve "refreshed" token'larını kabul eder.
// "good-refresh" refresh token'ı yeni bir "refreshed" ID token üretir.
type fakeAuth struct {
	services.AuthService
	refreshCalls int
}

func (f *fakeAuth) VerifyIDToken(token string) (*models.TokenClaims, error) {
	switch token {
	case "valid", "refreshed":
		return &models.TokenClaims{AdminID: "admin-1", Email: "admin@ieeeestu.org"}, nil
	case "expired":
		return nil, services.ErrTokenExpired
	}
	return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
}

func (f *fakeAuth) Refresh(_ context.Context, refreshToken string) (*services.AuthTokens, error) {
	f.refreshCalls++
	if refreshToken == "unverifiable-refresh" {
		return &services.AuthTokens{IDToken: "garbled", RefreshToken: "next-refresh"}, nil
	}
	if refreshToken != "good-refresh" {
		return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
	}
	return &services.AuthTokens{
		IDToken:          "refreshed",
		RefreshToken:     "next-refresh",
		ExpiresAt:        time.Now().Add(time.Hour),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := handlers.AdminFromContext(r.Context())
		if !ok || claims.AdminID != "admin-1" {
			t.Errorf("admin claims missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireBearer(t *testing.T) {
	m := NewAuthMiddleware(&fakeAuth{}, handlers.SessionCookies{})
	h := m.RequireBearer(protectedHandler(t))

	tests := []struct {
		name   string
		header string
		cookie string
		origin string
		want   int
	}{
		{"valid bearer", "Bearer valid", "", "", http.StatusNoContent},
		{"session cookie", "", "valid", "", http.StatusNoContent},
		{"session cookie same origin", "", "valid", "http://example.com", http.StatusNoContent},
		{"session cookie cross origin", "", "valid", "https://evil.example", http.StatusUnauthorized},
		{"bearer cross origin", "Bearer valid", "", "https://ieeeestu.org", http.StatusNoContent},
		{"missing", "", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", "", "", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", "", "", http.StatusUnauthorized},
		{"expired token", "Bearer expired", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/newsletter", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: tt.cookie})
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		auth := &fakeAuth{}
		h := NewAuthMiddleware(auth, handlers.SessionCookies{}).RequireSession(protectedHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: "valid"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent || auth.refreshCalls != 0 {
			t.Fatalf("status = %d refreshCalls = %d", rec.Code, auth.refreshCalls)
		}
	})

	t.Run("expired session refreshes", func(t *testing.T) {
		auth := &fakeAuth{}
		h := NewAuthMiddleware(auth, handlers.SessionCookies{}).RequireSession(protectedHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/admin/events", nil)
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: "expired"})
		req.AddCookie(&http.Cookie{Name: handlers.RefreshCookieName, Value: "good-refresh"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		got := map[string]string{}
		for _, c := range rec.Result().Cookies() {
			got[c.Name] = c.Value
		}
		if got[handlers.SessionCookieName] != "refreshed" || got[handlers.RefreshCookieName] != "next-refresh" {
			t.Fatalf("cookies = %v", got)
		}
	})

	t.Run("no session redirects to login", func(t *testing.T) {
		h := NewAuthMiddleware(&fakeAuth{}, handlers.SessionCookies{}).RequireSession(protectedHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: handlers.RefreshCookieName, Value: "stale"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Fatalf("Location = %q, want %q", loc, LoginPath)
		}
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge >= 0 {
				t.Fatalf("cookie %s not cleared", c.Name)
			}
		}
	})

	t.Run("refreshed token that fails verification redirects", func(t *testing.T) {
		auth := &fakeAuth{}
		h := NewAuthMiddleware(auth, handlers.SessionCookies{}).RequireSession(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run")
			}))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: handlers.RefreshCookieName, Value: "unverifiable-refresh"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther || auth.refreshCalls != 1 {
			t.Fatalf("status = %d refreshCalls = %d, want 303 after one refresh", rec.Code, auth.refreshCalls)
		}
		for _, c := range rec.Result().Cookies() {
			if c.Value == "garbled" {
				t.Fatal("unverified token must not be stored in a cookie")
			}
		}
	})
}
