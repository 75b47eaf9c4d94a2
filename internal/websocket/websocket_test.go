package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
)

func dialTestClient(t *testing.T, hub *Hub) *ws.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Handle(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() == 0 {
		t.Fatal("client never registered")
	}
	return conn
}

func TestBroadcastStatus(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub)

	hub.BroadcastStatus(42, "doors", "received_complete")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.Type != "tracking_changed" || evt.TrackingID != 42 || evt.Category != "doors" || evt.Status != "received_complete" {
		t.Errorf("event = %+v", evt)
	}
}

func TestBroadcastJournal(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub)

	hub.BroadcastJournal(7)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.Type != "journal_overwritten" || evt.TrackingID != 7 {
		t.Errorf("event = %+v", evt)
	}
}

func TestBroadcastNoClients(t *testing.T) {
	hub := NewHub()
	// Must not panic or block with nobody connected.
	hub.BroadcastStatus(1, "glass", "ordered")
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}
}
