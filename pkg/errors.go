// Package pkg, paketler arası paylaşılan hata ve yanıt yardımcıları.
//
// Service katmanı aşağıdaki sentinel'leri fmt.Errorf("%w: ...") ile sarar,
// handler katmanı errors.Is ile HTTP status'a çevirir:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrTooMany       = errors.New("too many requests")
	ErrInternal      = errors.New("internal error")
)
