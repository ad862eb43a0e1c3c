// Package ratelimit, admin login denemelerini IP başına sınırlar.
//
// Sliding window: her IP için pencere içindeki başarılı sayılmış denemelerin
// zamanları tutulur. Reddedilen denemeler kaydedilmez, yani pencere en eski
// denemeden itibaren kayar ve kilit süresi uzamaz. Başarılı girişte Reset çağrılır.
//
// Paket proje içi hiçbir pakete bağımlı değildir.
package ratelimit

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// sweepInterval, boşalan IP kayıtlarının map'ten silinme aralığı.
const sweepInterval = time.Minute

// LoginRateLimiter, IP bazlı sliding window limiter.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { ... 429 + Retry-After ... }
//	limiter.Reset(ip) // başarılı girişte
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoginRateLimiter, limiter'ı oluşturur ve süpürme goroutine'ini başlatır.
// main.go kapanışta Stop çağırır.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// live, pencere dışına düşen denemeleri atar. mu tutuluyor olmalı.
func (rl *LoginRateLimiter) live(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	kept := rl.attempts[ip][:0]
	for _, at := range rl.attempts[ip] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(rl.attempts, ip)
		return nil
	}
	rl.attempts[ip] = kept
	return kept
}

// Allow, pencerede yer varsa denemeyi kaydeder ve true döner.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.live(ip, now)) >= rl.maxAttempts {
		return false
	}
	rl.attempts[ip] = append(rl.attempts[ip], now)
	return true
}

// Reset, IP'nin geçmişini siler.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, ip)
}

// RetryAfterSeconds, bir sonraki denemenin kabul edileceği ana kadar geçecek
// süre, yukarı yuvarlanmış saniye. Limit dolmamışsa 0.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	live := rl.live(ip, now)
	if len(live) < rl.maxAttempts {
		return 0
	}
	// En eski deneme pencereden çıkınca bir yer açılır.
	wait := live[len(live)-rl.maxAttempts].Add(rl.window).Sub(now)
	return int(math.Ceil(wait.Seconds()))
}

// Stop, süpürme goroutine'ini durdurur. Birden fazla çağrılabilir.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *LoginRateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *LoginRateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip := range rl.attempts {
		rl.live(ip, now)
	}
}

// ExtractIP, istemci IP'si: X-Forwarded-For'un ilk değeri, sonra X-Real-IP,
// en son RemoteAddr. Site reverse proxy arkasında çalışır.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage: 120 → "2 minute(s)", 45 → "45 second(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", int(math.Ceil(float64(seconds)/60)))
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
