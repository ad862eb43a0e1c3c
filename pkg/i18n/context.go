package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type contextKey struct{}

// WithLocale, locale'i request context'ine ekler.
// Locale routing middleware'i rewrite ettiği her isteğe bunu uygular.
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// FromContext, context'teki locale'i döner; yoksa DefaultLanguage.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && IsSupported(lang) {
		return lang
	}
	return DefaultLanguage
}

// matcher, Accept-Language eşleştirmesi için. İlk tag varsayılan dil olmalı.
var matcher = language.NewMatcher([]language.Tag{
	language.Turkish,
	language.English,
})

// DetectLanguage, Accept-Language header'ından en uygun locale'i seçer.
// "en-US,en;q=0.9" → "en", boş veya tanınmayan → "tr".
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[index]
}

// FromRequest, isteğin locale'ini belirler.
// Sıra: context (rewrite edilmiş sayfa istekleri) → Accept-Language → varsayılan.
// API endpoint'leri locale suffix taşımadığı için header'a bakılır.
func FromRequest(r *http.Request) string {
	if lang, ok := r.Context().Value(contextKey{}).(string); ok && IsSupported(lang) {
		return lang
	}
	return DetectLanguage(r.Header.Get("Accept-Language"))
}
