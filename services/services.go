// Package services, iş kurallarının yaşadığı katman.
//
// Service'ler http.Request bilmez ve SQL yazmaz; repository interface'leri
// ve domain modelleri ile çalışır. Hatalar pkg sentinel'leri ile sarılır,
// handler katmanı bunları HTTP status'a çevirir.
package services

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-slug"

	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/ws"
)

// validationError, ozzo-validation hatasını ErrBadRequest ile sarar.
func validationError(err error) error {
	return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
}

// publishContent, admin sekmelerine içerik değişikliğini bildirir. hub nil olabilir.
func publishContent(hub ws.EventPublisher, kind, action, id string) {
	if hub == nil {
		return
	}
	hub.BroadcastToAll(ws.Event{
		Op:   ws.OpContentChanged,
		Data: ws.ContentChanged{Kind: kind, Action: action, ID: id},
	})
}

// baseSlug, ilk normalize edilebilen adaydan slug üretir.
func baseSlug(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if s, err := slug.Normalize(c); err == nil && s != "" {
			return s
		}
	}
	return fallback
}

// uniqueSlug, base alınmışsa base-2, base-3 ... dener.
func uniqueSlug(base string, exists func(string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
