package middleware

import (
	"net/http"
	"strings"

	"github.com/ieeeestu/site/pkg/i18n"
	"github.com/ieeeestu/site/pkg/routes"
)

// Action, locale router'ın bir istek için verdiği karar.
type Action int

const (
	// ActionPass: istek olduğu gibi devam eder (API, admin, statik dosya).
	ActionPass Action = iota
	// ActionRedirect: kanonik public URL'e 307 ile yönlendir.
	ActionRedirect
	// ActionRewrite: yolu iç yola çevir, locale'i context'e ekle, devam et.
	ActionRewrite
)

// Decision, Resolve çıktısı. Target redirect'te public URL, rewrite'ta iç yoldur.
type Decision struct {
	Action Action
	Target string
	Locale string
}

// passThroughPrefixes, locale routing'in hiç dokunmadığı yol önekleri.
var passThroughPrefixes = []string{"/api", "/admin", "/static", "/uploads", "/ws"}

// LocaleRouter, public sayfa isteklerini kanonik "/<route>/<locale>" formatına
// zorlayan middleware. Her istek için ya tek bir redirect ya tek bir rewrite olur.
type LocaleRouter struct {
	table         *routes.Table
	defaultLocale string
}

// NewLocaleRouter, constructor.
func NewLocaleRouter(table *routes.Table) *LocaleRouter {
	return &LocaleRouter{
		table:         table,
		defaultLocale: i18n.DefaultLanguage,
	}
}

// Resolve, yol için kararı hesaplar. Saf fonksiyondur; Handler bunu uygular.
//
// Sıra:
//  1. /api, /admin, /static, /uploads, /ws veya nokta içeren yollar → pass
//  2. "/" → /home/<varsayılan>
//  3. "/tr", "/en" → /home/<locale>
//  4. locale suffix'li yol: kanonik değilse redirect, kanonikse rewrite
//  5. eski "/tr/..." önekli yollar → kanonik karşılığına redirect
//  6. diğer her şey → varsayılan locale ile kanonik karşılığına redirect
func (m *LocaleRouter) Resolve(path string) Decision {
	if path == "" || path == "/" {
		return m.redirect(routes.Home, m.defaultLocale)
	}

	if isPassThrough(path) {
		return Decision{Action: ActionPass}
	}

	for _, lang := range i18n.SupportedLanguages {
		if path == "/"+lang || path == "/"+lang+"/" {
			return m.redirect(routes.Home, lang)
		}
	}

	if locale, ok := routes.ExtractLocaleSuffix(path); ok {
		base := routes.StripLocaleSuffix(path)
		english := m.table.ToEnglishPath(base)
		if english != base {
			return m.redirect(english, locale)
		}
		// Yol zaten kanonik ama sonda "/" varsa tek bir kanonik URL kalsın.
		if canonical := m.table.BuildLocalizedPath(base, locale); canonical != path {
			return m.redirect(base, locale)
		}
		return Decision{
			Action: ActionRewrite,
			Target: m.table.ToInternalPath(path, locale),
			Locale: locale,
		}
	}

	for _, lang := range i18n.SupportedLanguages {
		prefix := "/" + lang + "/"
		if strings.HasPrefix(path, prefix) {
			rest := path[len(prefix)-1:]
			return m.redirect(m.table.ToEnglishPath(rest), lang)
		}
	}

	base := routes.StripLocaleSuffix(path)
	if base == "/" {
		return m.redirect(routes.Home, m.defaultLocale)
	}
	return m.redirect(m.table.ToEnglishPath(base), m.defaultLocale)
}

// Handler, Resolve kararını uygular.
// Redirect'lerde query string korunur; rewrite'ta yeni bir request kopyası
// iç yol ve locale context'i ile next'e verilir.
func (m *LocaleRouter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := m.Resolve(r.URL.Path)

		switch decision.Action {
		case ActionRedirect:
			target := decision.Target
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)

		case ActionRewrite:
			rewritten := r.Clone(i18n.WithLocale(r.Context(), decision.Locale))
			rewritten.URL.Path = decision.Target
			rewritten.URL.RawPath = ""
			next.ServeHTTP(w, rewritten)

		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (m *LocaleRouter) redirect(path, locale string) Decision {
	return Decision{
		Action: ActionRedirect,
		Target: m.table.BuildLocalizedPath(path, locale),
		Locale: locale,
	}
}

func isPassThrough(path string) bool {
	for _, prefix := range passThroughPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return strings.Contains(path, ".")
}
