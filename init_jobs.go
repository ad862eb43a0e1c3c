// Package main, arka plan işleri.
package main

import (
	"context"
	"log"
	"time"

	"github.com/ieeeestu/site/services"
)

// sessionPruneInterval, süresi dolmuş refresh session'larının silinme aralığı.
const sessionPruneInterval = time.Hour

// startSessionPruner, ctx iptal edilene kadar süresi dolmuş session'ları periyodik olarak siler.
func startSessionPruner(ctx context.Context, authService services.AuthService) {
	go func() {
		ticker := time.NewTicker(sessionPruneInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := authService.PruneSessions(ctx)
				if err != nil {
					log.Printf("[jobs] session prune failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("[jobs] pruned %d expired sessions", n)
				}
			}
		}
	}()
}
