package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service'lerin event yayınlamak için kullandığı interface.
// Testlerde kaydeden bir fake ile değiştirilir.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToUser(adminID string, event Event)
}

// Hub, açık admin bağlantılarını tutar.
// Bir admin birden fazla sekme açabilir; bu yüzden adminID → client set.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur. main.go'da `go hub.Run()` ile başlatılır.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run, register/unregister sinyallerini Shutdown'a kadar işler.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.adminID]; !ok {
		h.clients[client.adminID] = make(map[*Client]bool)
	}
	h.clients[client.adminID][client] = true

	log.Printf("[ws] admin connected: %s (connections: %d)", client.adminID, len(h.clients[client.adminID]))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.adminID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.adminID)
	}
	log.Printf("[ws] admin disconnected: %s (remaining: %d)", client.adminID, len(clients))
}

// BroadcastToAll, tüm açık admin bağlantılarına gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.deliver(client, data)
		}
	}
}

// BroadcastToUser, tek bir adminin tüm sekmelerine gönderir.
func (h *Hub) BroadcastToUser(adminID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[adminID] {
		h.deliver(client, data)
	}
}

// ConnectionCount, adminin açık bağlantı sayısı.
func (h *Hub) ConnectionCount(adminID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[adminID])
}

// TotalConnections, tüm adminlerin açık bağlantı sayısı.
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal %s event: %v", event.Op, err)
		return nil, false
	}
	return data, true
}

// sendTo, client hâlâ kayıtlıysa tek bir mesaj gönderir.
// Kayıt silinmişse send channel kapalıdır; mesaj atılır.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[client.adminID][client] {
		h.deliver(client, data)
	}
}

// deliver, RLock altında çağrılır. Buffer'ı dolu client'lar düşürülür.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		go h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Shutdown, tüm bağlantıları kapatır ve Run'ı sonlandırır.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, clients := range h.clients {
			for client := range clients {
				close(client.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		log.Println("[ws] hub shut down, all connections closed")
	})
}
