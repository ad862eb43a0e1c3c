// Package i18n, sitenin iki dilli (tr/en) metin altyapısını sağlar.
//
// Locale kapalı bir kümedir: "tr" ve "en". Varsayılan dil Türkçe'dir.
// Sayfa şablonlarındaki arayüz metinleri (menü, footer, form etiketleri)
// ve API hata mesajları buradaki çeviri dosyalarından okunur.
//
// Kullanım:
//
//	localizer := i18n.NewLocalizer("en")
//	localizer.T("nav.about") // → "About"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
)

// Desteklenen locale'ler.
const (
	Turkish = "tr"
	English = "en"
)

// SupportedLanguages, URL'lerde kabul edilen locale kodları, sıralı.
var SupportedLanguages = []string{Turkish, English}

// DefaultLanguage, locale belirtilmeyen isteklerin düştüğü dil.
const DefaultLanguage = Turkish

var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, çeviri dosyalarını fs.FS'ten bir kere yükler.
// Her locale için <locale>.json beklenir; nested key'ler "a.b" formatına düzleştirilir.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string, len(SupportedLanguages))

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			log.Printf("[i18n] loaded %d keys for locale: %s", len(flat), lang)
		}

		translations = loaded
	})

	return loadErr
}

// IsSupported, verilen kodun tanımlı bir locale olup olmadığını söyler.
func IsSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Localizer, tek bir locale için çeviri yapar.
type Localizer struct {
	lang string
}

// NewLocalizer, constructor. Desteklenmeyen locale varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !IsSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın locale kodunu döner.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, anahtarın çevirisini döner.
// Önce kendi dili, sonra varsayılan dil denenir; ikisinde de yoksa anahtarın kendisi döner.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, {{param}} yer tutucularını doldurarak çeviri yapar.
//
//	localizer.TWithParams("newsletter.cooldown", map[string]string{"minutes": "3"})
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// flattenMap, nested JSON'u nokta notasyonlu key'lere dönüştürür.
// {"nav": {"about": "Hakkımızda"}} → {"nav.about": "Hakkımızda"}
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
