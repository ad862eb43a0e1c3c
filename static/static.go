// Package static, sitenin HTML şablonlarını ve CSS/JS dosyalarını binary'ye gömer.
//
//	templates/site   → public sayfalar (_layout.html + sayfa başına bir dosya)
//	templates/admin  → admin paneli
//	assets           → /static/ altından servis edilen css, js ve görseller
package static

import "embed"

// Templates, html/template dosyaları.
// "_" ile başlayan layout dosyaları da gömülsün diye "all:" öneki şart.
// Kullanım: fs.Sub(Templates, "templates").
//
//go:embed all:templates
var Templates embed.FS

// Assets, statik dosyalar. Kullanım: fs.Sub(Assets, "assets").
//
//go:embed all:assets
var Assets embed.FS
