package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ieeeestu/site/models"
)

type fakeValidator struct{}

func (fakeValidator) VerifyIDToken(token string) (*models.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.TokenClaims{AdminID: "admin-1", Email: "admin@ieeeestu.org"}, nil
}

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	h := NewHandler(hub, fakeValidator{}, "estu_session")
	srv := httptest.NewServer(http.HandlerFunc(h.HandleConnection))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Cookie", "estu_session="+token)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func TestHandshakeRejectsMissingOrBadCookie(t *testing.T) {
	_, url := startServer(t)

	for _, token := range []string{"", "bad"} {
		_, resp, err := dial(t, url, token)
		if err == nil {
			t.Fatalf("token %q: expected handshake failure", token)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: status = %v", token, resp)
		}
	}
}

func TestReadyThenAuthState(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := dial(t, url, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ready := readEvent(t, conn)
	if ready.Op != OpReady {
		t.Fatalf("first op = %q, want ready", ready.Op)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount("admin-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastToUser("admin-2", Event{Op: OpContentChanged})
	hub.BroadcastToUser("admin-1", Event{Op: OpAuthState, Data: AuthState{SignedIn: false}})

	ev := readEvent(t, conn)
	if ev.Op != OpAuthState {
		t.Fatalf("op = %q, want auth_state", ev.Op)
	}
	data, _ := json.Marshal(ev.Data)
	if string(data) != `{"signed_in":false}` {
		t.Errorf("data = %s", data)
	}
	if ev.Seq <= ready.Seq {
		t.Errorf("seq did not increase: %d <= %d", ev.Seq, ready.Seq)
	}
}

func TestHeartbeatAck(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := dial(t, url, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readEvent(t, conn)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount("admin-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := conn.WriteJSON(Event{Op: OpHeartbeat}); err != nil {
		t.Fatal(err)
	}
	if ev := readEvent(t, conn); ev.Op != OpHeartbeatAck {
		t.Errorf("op = %q, want heartbeat_ack", ev.Op)
	}
}
