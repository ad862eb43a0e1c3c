package main

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ieeeestu/site/config"
	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/handlers"
	"github.com/ieeeestu/site/middleware"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/routes"
	"github.com/ieeeestu/site/ws"
)

// newTestServer, main'deki wire-up'ın aynısını bellek içi veritabanıyla kurar.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{
		"JWT_SECRET":    "test-secret",
		"DATABASE_PATH": database.MemoryPath,
		"UPLOAD_DIR":    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	migrations, _ := fs.Sub(database.EmbeddedMigrations, "migrations")
	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	locales, _ := fs.Sub(i18n.EmbeddedLocales, "locales")
	if err := i18n.Load(locales); err != nil {
		t.Fatalf("i18n: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	repos := initRepositories(db.Conn)
	svcs, limiters, err := initServices(db.Conn, repos, hub, cfg)
	if err != nil {
		t.Fatalf("initServices: %v", err)
	}
	t.Cleanup(limiters.Login.Stop)

	table := routes.Default()
	cookies := handlers.SessionCookies{}
	h, err := initHandlers(db.Conn, svcs, limiters, hub, table, cookies, cfg)
	if err != nil {
		t.Fatalf("initHandlers: %v", err)
	}

	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, cookies, cfg.Upload.Dir)
	return middleware.NewLocaleRouter(table).Handler(mux)
}

func TestRouting(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		location string
		body     string
	}{
		{"root redirects home", "GET", "/", http.StatusTemporaryRedirect, "/home/tr", ""},
		{"home", "GET", "/home/en", http.StatusOK, "", `lang="en"`},
		{"turkish path canonicalized", "GET", "/hakkimizda/en", http.StatusTemporaryRedirect, "/about/en", ""},
		{"about", "GET", "/about/tr", http.StatusOK, "", `lang="tr"`},
		{"apply", "GET", "/events/apply/en", http.StatusOK, "", "</html>"},
		{"unknown page", "GET", "/nowhere/en", http.StatusNotFound, "", "</html>"},
		{"health", "GET", "/api/health", http.StatusOK, "", `"status"`},
		{"unknown api", "GET", "/api/nope", http.StatusNotFound, "", `"success":false`},
		{"admin api needs bearer", "GET", "/api/admin/events", http.StatusUnauthorized, "", ""},
		{"admin page needs session", "GET", "/admin/events", http.StatusSeeOther, middleware.LoginPath, ""},
		{"stylesheet", "GET", "/static/css/site.css", http.StatusOK, "", ""},
		{"placeholder image", "GET", "/images/placeholder-event.jpg", http.StatusOK, "", ""},
		{"upload dir listing hidden", "GET", "/static/uploads/", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.location)
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body missing %q", tt.body)
			}
		})
	}
}

func TestLoginFormRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	// Public form /login/tr'ye POST eder; LocaleRouter bunu /tr/login'e yazar.
	req := httptest.NewRequest(http.MethodPost, "/login/tr",
		strings.NewReader("email=admin%40example.com&password=wrong"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="password"`) {
		t.Error("login form should be re-rendered")
	}
}
