package ws

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/ieeeestu/site/models"
)

// TokenValidator, bağlantıyı açan adminin ID token'ını doğrular.
// services → ws bağımlılığı olduğu için AuthService'in tamamı yerine bu dar interface kullanılır.
type TokenValidator interface {
	VerifyIDToken(token string) (*models.TokenClaims, error)
}

// Handler, /admin/ws isteklerini WebSocket'e yükseltir.
type Handler struct {
	hub        *Hub
	validator  TokenValidator
	cookieName string
	upgrader   websocket.Upgrader
}

// NewHandler, token'ı cookieName adlı cookie'den okuyan handler oluşturur.
func NewHandler(hub *Hub, validator TokenValidator, cookieName string) *Handler {
	return &Handler{
		hub:        hub,
		validator:  validator,
		cookieName: cookieName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin, Origin header'ı yoksa ya da host eşleşiyorsa kabul eder.
// Cookie ile doğrulanan bağlantılar başka sitelerden açılamamalı.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// HandleConnection, cookie'deki token'ı doğrular, bağlantıyı kaydeder ve ready gönderir.
// Token yoksa veya geçersizse 401 döner; admin sayfası bunu oturum kapandı sayar.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.VerifyIDToken(cookie.Value)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for admin %s: %v", claims.AdminID, err)
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		adminID: claims.AdminID,
		send:    make(chan []byte, sendBufferSize),
	}

	// ready, kayıttan önce buffer'a konur; Hub'dan gelen event'ler onu izler.
	ready, ok := h.hub.encode(Event{
		Op:   OpReady,
		Data: AuthState{SignedIn: true, AdminID: claims.AdminID, Email: claims.Email},
	})
	if ok {
		client.send <- ready
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}
