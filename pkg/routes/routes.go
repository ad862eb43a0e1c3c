// Package routes, public URL'ler ile sayfaların iç (internal) yolları arasındaki
// eşlemeyi tutar.
//
// Public URL'ler her zaman İngilizce kanonik route + locale suffix formatındadır:
//
//	/about/tr  → iç yol /tr/hakkimizda
//	/home/en   → iç yol /en
//
// Tablo bir kere kurulur ve sonra sadece okunur; goroutine'ler arasında
// kilitsiz paylaşılabilir. Middleware ve şablonlardaki link üretimi aynı
// tabloyu kullanır, böylece iki taraf birbirinden kopamaz.
package routes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ieeeestu/site/pkg/i18n"
)

// Home, kök yolun kanonik İngilizce karşılığı.
const Home = "/home"

// ErrNotBijective, eşleme tablosunda iki route aynı iç yola düştüğünde döner.
var ErrNotBijective = errors.New("routes: mapping is not a bijection")

// English → internal eşlemesi. Sol taraf public URL'de görünen kanonik route'tur.
var defaultMapping = map[string]string{
	"/home":         "/",
	"/about":        "/hakkimizda",
	"/team":         "/ekibimiz",
	"/committees":   "/komiteler",
	"/subteams":     "/takimlar",
	"/sponsors":     "/sponsorlar",
	"/contact":      "/iletisim",
	"/events":       "/events",
	"/blog":         "/blog",
	"/xtreme":       "/xtreme",
	"/privacy":      "/privacy",
	"/terms":        "/terms",
	"/membership":   "/membership",
	"/events/apply": "/events/apply",
	"/login":        "/login",
}

// Table, iki yönlü route eşlemesi.
// Key listeleri uzunluğa göre azalan sıralıdır, en uzun prefix önce denenir.
type Table struct {
	toInternal   map[string]string
	toEnglish    map[string]string
	englishKeys  []string
	internalKeys []string
}

// NewTable, English → internal eşlemesinden tablo kurar.
// Key ve value'lar normalize edilmiş olmalı; iki key aynı value'ya gidiyorsa
// ErrNotBijective döner.
func NewTable(englishToInternal map[string]string) (*Table, error) {
	t := &Table{
		toInternal: make(map[string]string, len(englishToInternal)),
		toEnglish:  make(map[string]string, len(englishToInternal)),
	}

	for english, internal := range englishToInternal {
		if Normalize(english) != english || Normalize(internal) != internal {
			return nil, fmt.Errorf("routes: %q → %q is not normalized", english, internal)
		}
		if prev, ok := t.toEnglish[internal]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrNotBijective, prev, english, internal)
		}
		t.toInternal[english] = internal
		t.toEnglish[internal] = english
	}

	// Kanonik bir route başka bir route'un iç yolu olamaz; yoksa middleware
	// iki URL arasında sonsuz redirect döngüsüne girer.
	for english := range t.toInternal {
		if other, ok := t.toEnglish[english]; ok && other != english {
			return nil, fmt.Errorf("%w: %q is both a route and the internal path of %q", ErrNotBijective, english, other)
		}
	}

	t.englishKeys = sortedKeys(t.toInternal)
	t.internalKeys = sortedKeys(t.toEnglish)
	return t, nil
}

// Default, sitenin route tablosu. Literal tablo hatalıysa panic atar.
func Default() *Table {
	t, err := NewTable(defaultMapping)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes, kanonik İngilizce route'ları alfabetik sırayla döner.
func (t *Table) Routes() []string {
	out := make([]string, 0, len(t.toInternal))
	for k := range t.toInternal {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuildLocalizedPath, kanonik public URL üretir: "/about" + "en" → "/about/en".
// Yolda zaten bir locale suffix varsa önce o atılır; kök yol "/home" olur.
func (t *Table) BuildLocalizedPath(path, locale string) string {
	base := StripLocaleSuffix(path)
	if base == "/" {
		base = Home
	}
	return base + "/" + locale
}

// ToInternalPath, public yolu sayfa mux'ının beklediği iç yola çevirir.
// "/about/tr" → "/tr/hakkimizda", "/home/en" → "/en".
func (t *Table) ToInternalPath(path, locale string) string {
	base := StripLocaleSuffix(path)
	if base == "/" {
		base = Home
	}

	internal := mapByPrefix(base, t.toInternal, t.englishKeys)
	if internal == "/" {
		return "/" + locale
	}
	return "/" + locale + internal
}

// ToEnglishPath, iç yolu kanonik İngilizce route'a çevirir.
// Eşleşmeyen yollar normalize edilip olduğu gibi döner.
func (t *Table) ToEnglishPath(internal string) string {
	return mapByPrefix(internal, t.toEnglish, t.internalKeys)
}

// Normalize: başa "/" ekler, sondaki "/"leri atar; kök "/" kalır.
func Normalize(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/" {
		return path
	}
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// StripLocaleSuffix, sondaki "/tr" veya "/en" parçasını atar. "/tr" → "/".
func StripLocaleSuffix(path string) string {
	normalized := Normalize(path)
	locale, ok := ExtractLocaleSuffix(normalized)
	if !ok {
		return normalized
	}
	return Normalize(strings.TrimSuffix(normalized, "/"+locale))
}

// ExtractLocaleSuffix, yolun son segmenti bir locale ise onu döner.
func ExtractLocaleSuffix(path string) (string, bool) {
	normalized := Normalize(path)
	for _, lang := range i18n.SupportedLanguages {
		if strings.HasSuffix(normalized, "/"+lang) {
			return lang, true
		}
	}
	return "", false
}

// mapByPrefix, en uzun eşleşen key'i bulur ve kalan alt yolu korur.
// "/events/apply/x" için "/events/apply" key'i "/events"ten önce denenir.
func mapByPrefix(path string, mapping map[string]string, keys []string) string {
	normalized := Normalize(path)

	for _, key := range keys {
		if normalized == key {
			return mapping[key]
		}
		if strings.HasPrefix(normalized, key+"/") {
			rest := normalized[len(key):]
			if mapping[key] == "/" {
				return rest
			}
			return mapping[key] + rest
		}
	}

	return normalized
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
