package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/markdown"
	"github.com/ieeeestu/site/pkg/routes"
)

// layoutFile, her şablon dizinindeki ortak iskelet.
const layoutFile = "_layout.html"

// Renderer, html/template setlerini tutar.
// Her sayfa kendi layout kopyasıyla parse edilir; "content" bloğu sayfaya özeldir.
// Anahtar "site/home", "admin/events" gibi dizin/dosya adıdır.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer, fsys içindeki site/ ve admin/ dizinlerini parse eder.
func NewRenderer(fsys fs.FS, table *routes.Table) (*Renderer, error) {
	funcs := templateFuncs(table)
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, dir := range []string{"site", "admin"} {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read template dir %s: %w", dir, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
				continue
			}

			tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys,
				path.Join(dir, layoutFile),
				path.Join(dir, name),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s/%s: %w", dir, name, err)
			}
			r.pages[dir+"/"+strings.TrimSuffix(name, ".html")] = tmpl
		}
	}

	log.Printf("[render] %d page templates loaded", len(r.pages))
	return r, nil
}

// Render, sayfayı önce buffer'a yazar; şablon hatası yarım HTML göndermez.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := r.pages[name]
	if !ok {
		log.Printf("[render] unknown template %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[render] failed to execute %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[render] failed to write %s: %v", name, err)
	}
}

func templateFuncs(table *routes.Table) template.FuncMap {
	return template.FuncMap{
		"t": func(locale, key string) string {
			return i18n.NewLocalizer(locale).T(key)
		},
		"link": func(p, locale string) string {
			return table.BuildLocalizedPath(p, locale)
		},
		"loc": func(text models.LocalizedText, locale string) string {
			return text.Get(locale)
		},
		"otherLocale": func(locale string) string {
			if locale == i18n.English {
				return i18n.Turkish
			}
			return i18n.English
		},
		"markdown": func(src string) template.HTML {
			out, err := markdown.Render(src)
			if err != nil {
				log.Printf("[render] markdown failed: %v", err)
				return template.HTML(template.HTMLEscapeString(src))
			}
			return out
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
		"year": func() int { return time.Now().Year() },
	}
}

// pageData, public sayfa şablonlarının ortak verisi.
// Path, dil değiştirici ve hreflang linkleri için kanonik İngilizce route'tur.
type pageData struct {
	Locale string
	Path   string
	Title  string
	Data   any
}

// adminData, admin şablonlarının ortak verisi.
type adminData struct {
	Admin   *models.TokenClaims
	Section string
	Title   string
	Flash   string
	Error   string
	Data    any
}
