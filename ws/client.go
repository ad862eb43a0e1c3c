package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// Admin sayfası 30 saniyede bir heartbeat gönderir; 3 kaçırma bağlantıyı düşürür.
	pongWait = 90 * time.Second

	maxMessageSize = 1024
	sendBufferSize = 32
)

// Client, tek bir admin sekmesinin bağlantısı.
// ReadPump ve WritePump ayrı goroutine'lerde çalışır.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	adminID string
	send    chan []byte
	mu      sync.Mutex // conn yazmaları
}

// ReadPump, istemciden gelen mesajları okur. Bağlantı kapanınca client'ı Hub'dan çıkarır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for admin %s: %v", c.adminID, err)
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for admin %s: %v", c.adminID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[ws] invalid message from admin %s: %v", c.adminID, err)
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for admin %s: %v", c.adminID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	default:
		log.Printf("[ws] unknown op from admin %s: %s", c.adminID, event.Op)
	}
}

func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for admin %s: %v", c.adminID, err)
		return
	}
	c.hub.sendTo(c, data)
}

// WritePump, send channel'ındaki mesajları bağlantıya yazar. Channel kapanınca close frame gönderir.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.writeMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
