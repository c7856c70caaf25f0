package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialClient(t *testing.T, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		NewClient(hub, conn, userID)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(message)
}

func TestBroadcastReachesAllUserConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := dialClient(t, hub, 1)
	second := dialClient(t, hub, 1)
	other := dialClient(t, hub, 2)

	// Registration runs on the hub goroutine after the handshake
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastToUser(1, []byte("hello"))

	if got := readMessage(t, first); got != "hello" {
		t.Errorf("first connection got %q", got)
	}
	if got := readMessage(t, second); got != "hello" {
		t.Errorf("second connection got %q", got)
	}

	hub.BroadcastToUser(2, []byte("for two"))
	if got := readMessage(t, other); got != "for two" {
		t.Errorf("other user got %q", got)
	}
}

func TestBroadcastToAbsentUserIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nobody is connected; this must not block or panic
	hub.BroadcastToUser(42, []byte("into the void"))

	conn := dialClient(t, hub, 7)
	time.Sleep(50 * time.Millisecond)
	hub.BroadcastToUser(7, []byte("after connect"))
	if got := readMessage(t, conn); got != "after connect" {
		t.Errorf("late subscriber got %q", got)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialClient(t, hub, 3)
	conn.Close()

	// Give the read pump a moment to notice the close
	time.Sleep(100 * time.Millisecond)

	// Pushing after disconnect must not panic on a closed channel
	hub.BroadcastToUser(3, []byte("gone"))
	time.Sleep(50 * time.Millisecond)
}
