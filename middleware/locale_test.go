package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/routes"
)

func TestLocaleRouterResolve(t *testing.T) {
	router := NewLocaleRouter(routes.Default())

	tests := []struct {
		path       string
		wantAction Action
		wantTarget string
		wantLocale string
	}{
		{"/", ActionRedirect, "/home/tr", "tr"},
		{"/tr", ActionRedirect, "/home/tr", "tr"},
		{"/en", ActionRedirect, "/home/en", "en"},
		{"/en/", ActionRedirect, "/home/en", "en"},
		{"/about/en", ActionRewrite, "/en/hakkimizda", "en"},
		{"/home/tr", ActionRewrite, "/tr", "tr"},
		{"/events/ieee-day/tr", ActionRewrite, "/tr/events/ieee-day", "tr"},
		{"/events/apply/en", ActionRewrite, "/en/events/apply", "en"},
		{"/hakkimizda/en", ActionRedirect, "/about/en", "en"},
		{"/tr/hakkimizda", ActionRedirect, "/about/tr", "tr"},
		{"/en/ekibimiz", ActionRedirect, "/team/en", "en"},
		{"/about", ActionRedirect, "/about/tr", "tr"},
		{"/about/", ActionRedirect, "/about/tr", "tr"},
		{"/about/en/", ActionRedirect, "/about/en", "en"},
		{"/komiteler", ActionRedirect, "/committees/tr", "tr"},
		{"/api/health", ActionPass, "", ""},
		{"/admin/events", ActionPass, "", ""},
		{"/admin", ActionPass, "", ""},
		{"/static/site.css", ActionPass, "", ""},
		{"/ws", ActionPass, "", ""},
		{"/favicon.ico", ActionPass, "", ""},
		{"/images/logo.png", ActionPass, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := router.Resolve(tt.path)
			if got.Action != tt.wantAction {
				t.Fatalf("action = %v, want %v (decision %+v)", got.Action, tt.wantAction, got)
			}
			if got.Target != tt.wantTarget {
				t.Errorf("target = %q, want %q", got.Target, tt.wantTarget)
			}
			if got.Locale != tt.wantLocale {
				t.Errorf("locale = %q, want %q", got.Locale, tt.wantLocale)
			}
		})
	}
}

// Redirect hedefleri bir sonraki istekte her zaman rewrite'a düşmeli.
func TestLocaleRouterRedirectsConverge(t *testing.T) {
	router := NewLocaleRouter(routes.Default())

	paths := []string{"/", "/tr", "/en", "/about", "/tr/hakkimizda", "/hakkimizda/en", "/team/", "/events/x"}
	for _, p := range paths {
		first := router.Resolve(p)
		if first.Action != ActionRedirect {
			t.Fatalf("%s: expected redirect, got %+v", p, first)
		}
		second := router.Resolve(first.Target)
		if second.Action != ActionRewrite {
			t.Errorf("%s → %s: expected rewrite, got %+v", p, first.Target, second)
		}
	}
}

func TestLocaleRouterHandler(t *testing.T) {
	router := NewLocaleRouter(routes.Default())

	var gotPath, gotLocale string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLocale = i18n.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := router.Handler(next)

	t.Run("redirect keeps query string", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about?ref=footer", nil))

		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("status = %d, want 307", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/about/tr?ref=footer" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("rewrite sets internal path and locale", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about/en", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if gotPath != "/en/hakkimizda" {
			t.Errorf("path = %q, want /en/hakkimizda", gotPath)
		}
		if gotLocale != "en" {
			t.Errorf("locale = %q, want en", gotLocale)
		}
	})

	t.Run("api passes through untouched", func(t *testing.T) {
		gotPath = ""
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", nil))

		if gotPath != "/api/newsletter/subscribe" {
			t.Errorf("path = %q", gotPath)
		}
	})
}
