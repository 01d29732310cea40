package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Izenberk/analytics-dashboard/store"
)

func newBroadcasterFixture(t *testing.T) (*WebSocketBroadcaster, *store.Store, *httptest.Server) {
	t.Helper()

	widgets := store.NewStore(func(ctx context.Context, w store.WidgetRecord) error {
		return nil
	}, nil)
	if err := widgets.InitializeDashboard(store.DefaultWidgets()); err != nil {
		t.Fatalf("InitializeDashboard() error = %v", err)
	}

	broadcaster := NewWebSocketBroadcaster(widgets, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go broadcaster.Start(ctx)

	server := httptest.NewServer(http.HandlerFunc(broadcaster.HandleConnection))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return broadcaster, widgets, server
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshaling message: %v", err)
	}
	return msg
}

func TestBroadcasterSendsInitialSnapshot(t *testing.T) {
	_, widgets, server := newBroadcasterFixture(t)
	conn := dialWS(t, server)

	msg := readMessage(t, conn)
	if msg.Type != WSTypeInitial {
		t.Fatalf("first message type = %q, want %q", msg.Type, WSTypeInitial)
	}

	raw, _ := json.Marshal(msg.Data)
	var initial InitialData
	if err := json.Unmarshal(raw, &initial); err != nil {
		t.Fatalf("decoding initial data: %v", err)
	}
	if len(initial.Widgets) != len(widgets.Widgets()) {
		t.Errorf("initial snapshot has %d widgets, want %d",
			len(initial.Widgets), len(widgets.Widgets()))
	}
}

func TestBroadcasterForwardsStoreEvents(t *testing.T) {
	_, widgets, server := newBroadcasterFixture(t)
	conn := dialWS(t, server)

	// Drain the initial snapshot first.
	if msg := readMessage(t, conn); msg.Type != WSTypeInitial {
		t.Fatalf("first message type = %q, want %q", msg.Type, WSTypeInitial)
	}

	if _, err := widgets.AddWidget(store.WidgetRecord{
		ID:        "late-arrival",
		Kind:      store.KindMetric,
		Title:     "Late Arrival",
		DatasetID: "late-arrival",
		Visible:   true,
	}); err != nil {
		t.Fatalf("AddWidget() error = %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != WSTypeWidgetUpdate {
		t.Fatalf("message type = %q, want %q", msg.Type, WSTypeWidgetUpdate)
	}

	raw, _ := json.Marshal(msg.Data)
	var update WidgetUpdateData
	if err := json.Unmarshal(raw, &update); err != nil {
		t.Fatalf("decoding update data: %v", err)
	}
	if update.WidgetID != "late-arrival" {
		t.Errorf("WidgetID = %q, want %q", update.WidgetID, "late-arrival")
	}
	if update.Widget == nil {
		t.Error("Widget = nil, want record in update")
	}
}

func TestBroadcasterClientCount(t *testing.T) {
	broadcaster, _, server := newBroadcasterFixture(t)

	conn := dialWS(t, server)
	readMessage(t, conn)

	deadline := time.Now().Add(2 * time.Second)
	for broadcaster.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want 1", broadcaster.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()
	for broadcaster.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d after close, want 0", broadcaster.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDefaultBroadcasterConfig(t *testing.T) {
	config := DefaultBroadcasterConfig()
	if config.PingInterval != 30*time.Second {
		t.Errorf("PingInterval = %v, want 30s", config.PingInterval)
	}
	if config.PongWait != 60*time.Second {
		t.Errorf("PongWait = %v, want 60s", config.PongWait)
	}
	if config.MaxMessageSize != 512 {
		t.Errorf("MaxMessageSize = %d, want 512", config.MaxMessageSize)
	}
	if config.BroadcastBufferSize != 256 {
		t.Errorf("BroadcastBufferSize = %d, want 256", config.BroadcastBufferSize)
	}
}
