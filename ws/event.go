// Package ws, admin paneli için "current user" akışını taşır.
//
// Admin sayfası açıkken tarayıcı /admin/ws'ye bağlanır. Sunucu bağlantı
// kurulunca ready gönderir; oturum kapatıldığında auth_state{signed_in:false}
// yayınlar ve sayfa login'e yönlenir. İçerik değişiklikleri content_changed
// ile diğer açık admin sekmelerine bildirilir.
//
//	Service → Hub.BroadcastToUser / BroadcastToAll → Client.send → WritePump → tarayıcı
package ws

// Event, WebSocket üzerinden giden/gelen mesaj.
// Seq her outbound event'te artar; istemci kaçan event'i fark edebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat"
)

// Server → Client
const (
	OpReady          = "ready"
	OpHeartbeatAck   = "heartbeat_ack"
	OpAuthState      = "auth_state"
	OpContentChanged = "content_changed"
)

// AuthState, oturum durumu. SignedIn=false gelince istemci login'e döner.
type AuthState struct {
	SignedIn bool   `json:"signed_in"`
	AdminID  string `json:"admin_id,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Content türleri ve aksiyonları.
const (
	ContentEvent      = "event"
	ContentPost       = "post"
	ContentSubscriber = "subscriber"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ContentChanged, admin listelerinin yenilenmesi gerektiğini bildirir.
type ContentChanged struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
	ID     string `json:"id"`
}
