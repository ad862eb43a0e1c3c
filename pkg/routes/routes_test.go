package routes

import (
	"errors"
	"testing"

	"github.com/ieeeestu/site/pkg/i18n"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"about", "/about"},
		{"/about/", "/about"},
		{"/about///", "/about"},
		{"//", "/"},
		{"/events/apply", "/events/apply"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripAndExtractLocaleSuffix(t *testing.T) {
	tests := []struct {
		in         string
		wantBase   string
		wantLocale string
		wantOK     bool
	}{
		{"/about/tr", "/about", "tr", true},
		{"/about/en/", "/about", "en", true},
		{"/tr", "/", "tr", true},
		{"/en", "/", "en", true},
		{"/about", "/about", "", false},
		{"/central", "/central", "", false},
		{"/events/apply/en", "/events/apply", "en", true},
	}

	for _, tt := range tests {
		if got := StripLocaleSuffix(tt.in); got != tt.wantBase {
			t.Errorf("StripLocaleSuffix(%q) = %q, want %q", tt.in, got, tt.wantBase)
		}
		locale, ok := ExtractLocaleSuffix(tt.in)
		if locale != tt.wantLocale || ok != tt.wantOK {
			t.Errorf("ExtractLocaleSuffix(%q) = (%q, %v), want (%q, %v)", tt.in, locale, ok, tt.wantLocale, tt.wantOK)
		}
	}
}

func TestRouteRoundTrip(t *testing.T) {
	table := Default()

	for _, route := range table.Routes() {
		for _, locale := range i18n.SupportedLanguages {
			public := table.BuildLocalizedPath(route, locale)

			got, ok := ExtractLocaleSuffix(public)
			if !ok || got != locale {
				t.Errorf("BuildLocalizedPath(%q, %q) = %q has no %q suffix", route, locale, public, locale)
			}
			if base := StripLocaleSuffix(public); base != route {
				t.Errorf("StripLocaleSuffix(%q) = %q, want %q", public, base, route)
			}

			internal := table.ToInternalPath(public, locale)
			want := "/" + locale + table.toInternal[route]
			if table.toInternal[route] == "/" {
				want = "/" + locale
			}
			if internal != want {
				t.Errorf("ToInternalPath(%q) = %q, want %q", public, internal, want)
			}
		}
	}
}

func TestInverseMapping(t *testing.T) {
	table := Default()

	for english, internal := range table.toInternal {
		if got := table.ToEnglishPath(internal); got != english {
			t.Errorf("ToEnglishPath(%q) = %q, want %q", internal, got, english)
		}
	}

	if got := table.ToEnglishPath("/"); got != Home {
		t.Errorf("ToEnglishPath(/) = %q, want %q", got, Home)
	}
	if got := table.ToEnglishPath("/unknown/page"); got != "/unknown/page" {
		t.Errorf("unmapped path should pass through, got %q", got)
	}
}

func TestKnownMappings(t *testing.T) {
	table := Default()

	tests := []struct {
		path, locale, want string
	}{
		{"/about/tr", "tr", "/tr/hakkimizda"},
		{"/about/en", "en", "/en/hakkimizda"},
		{"/home/en", "en", "/en"},
		{"/", "tr", "/tr"},
		{"/team", "en", "/en/ekibimiz"},
		{"/events/ieee-day/en", "en", "/en/events/ieee-day"},
		{"/blog/hello-world/tr", "tr", "/tr/blog/hello-world"},
		{"/events/apply/tr", "tr", "/tr/events/apply"},
	}

	for _, tt := range tests {
		if got := table.ToInternalPath(tt.path, tt.locale); got != tt.want {
			t.Errorf("ToInternalPath(%q, %q) = %q, want %q", tt.path, tt.locale, got, tt.want)
		}
	}
}

func TestLongestPrefixWins(t *testing.T) {
	table, err := NewTable(map[string]string{
		"/home":         "/",
		"/events":       "/etkinlikler",
		"/events/apply": "/basvuru",
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if got := table.ToInternalPath("/events/apply/tr", "tr"); got != "/tr/basvuru" {
		t.Errorf("got %q, want /tr/basvuru", got)
	}
	if got := table.ToInternalPath("/events/apply/form/tr", "tr"); got != "/tr/basvuru/form" {
		t.Errorf("got %q, want /tr/basvuru/form", got)
	}
	if got := table.ToInternalPath("/events/spring/en", "en"); got != "/en/etkinlikler/spring" {
		t.Errorf("got %q, want /en/etkinlikler/spring", got)
	}
	if got := table.ToEnglishPath("/basvuru"); got != "/events/apply" {
		t.Errorf("got %q, want /events/apply", got)
	}
	if got := table.ToEnglishPath("/etkinlikler/spring"); got != "/events/spring" {
		t.Errorf("got %q, want /events/spring", got)
	}
}

func TestNewTableRejectsNonBijective(t *testing.T) {
	_, err := NewTable(map[string]string{
		"/about":  "/hakkimizda",
		"/about2": "/hakkimizda",
	})
	if !errors.Is(err, ErrNotBijective) {
		t.Fatalf("expected ErrNotBijective, got %v", err)
	}

	if _, err := NewTable(map[string]string{"/about/": "/hakkimizda"}); err == nil {
		t.Fatal("expected error for non-normalized key")
	}
}
