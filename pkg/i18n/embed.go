package i18n

import "embed"

// EmbeddedLocales, locales/ altındaki tr.json ve en.json dosyaları.
// Kullanım: fs.Sub(EmbeddedLocales, "locales").
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
