package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Izenberk/analytics-dashboard/store"
)

// WebSocketBroadcaster manages dashboard client connections and pushes store
// changes to all of them. Thread-safe.
type WebSocketBroadcaster struct {
	clients   map[*websocket.Conn]clientInfo
	clientsMu sync.RWMutex

	broadcast  chan WSMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn

	upgrader websocket.Upgrader

	pingInterval   time.Duration
	pongWait       time.Duration
	writeWait      time.Duration
	maxMessageSize int64

	widgets *store.Store
	logger  *zap.Logger
}

type clientInfo struct {
	connectedAt time.Time
	remoteAddr  string
	send        chan []byte
}

// BroadcasterConfig holds configuration for the WebSocketBroadcaster.
type BroadcasterConfig struct {
	// PingInterval is how often to send ping messages (default: 30s)
	PingInterval time.Duration

	// PongWait is how long to wait for pong response (default: 60s)
	PongWait time.Duration

	// WriteWait is time allowed to write a message (default: 10s)
	WriteWait time.Duration

	// MaxMessageSize is max message size from client (default: 512 bytes)
	MaxMessageSize int64

	// BroadcastBufferSize is the broadcast channel buffer (default: 256)
	BroadcastBufferSize int
}

// DefaultBroadcasterConfig returns the default configuration.
func DefaultBroadcasterConfig() BroadcasterConfig {
	return BroadcasterConfig{
		PingInterval:        30 * time.Second,
		PongWait:            60 * time.Second,
		WriteWait:           10 * time.Second,
		MaxMessageSize:      512,
		BroadcastBufferSize: 256,
	}
}

// NewWebSocketBroadcaster creates a broadcaster over the given widget store.
// Call Start to begin processing; the broadcaster subscribes to the store and
// forwards every change to connected clients.
func NewWebSocketBroadcaster(widgets *store.Store, logger *zap.Logger) *WebSocketBroadcaster {
	return NewWebSocketBroadcasterWithConfig(widgets, DefaultBroadcasterConfig(), logger)
}

// NewWebSocketBroadcasterWithConfig creates a broadcaster with custom
// configuration.
func NewWebSocketBroadcasterWithConfig(widgets *store.Store, config BroadcasterConfig, logger *zap.Logger) *WebSocketBroadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketBroadcaster{
		clients:        make(map[*websocket.Conn]clientInfo),
		broadcast:      make(chan WSMessage, config.BroadcastBufferSize),
		register:       make(chan *websocket.Conn),
		unregister:     make(chan *websocket.Conn),
		pingInterval:   config.PingInterval,
		pongWait:       config.PongWait,
		writeWait:      config.WriteWait,
		maxMessageSize: config.MaxMessageSize,
		widgets:        widgets,
		logger:         logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin deployment, no cross-origin checks needed
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Start runs the broadcast loop until the context is cancelled. It handles
// client registration, store change forwarding, and connection health pings.
func (b *WebSocketBroadcaster) Start(ctx context.Context) {
	pingTicker := time.NewTicker(b.pingInterval)
	defer pingTicker.Stop()

	var events <-chan store.Event
	if b.widgets != nil {
		var cancel func()
		events, cancel = b.widgets.Subscribe()
		defer cancel()
	}

	b.logger.Info("Broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Broadcaster stopping")
			b.closeAllClients()
			return

		case conn := <-b.register:
			b.addClient(conn)

		case conn := <-b.unregister:
			b.removeClient(conn)

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			b.broadcastToAll(NewWidgetUpdateMessage(event))

		case message := <-b.broadcast:
			b.broadcastToAll(message)

		case <-pingTicker.C:
			b.sendPingToAll()
		}
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket, registers the
// client, and sends it the current dashboard snapshot.
func (b *WebSocketBroadcaster) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("Failed to upgrade connection",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		return
	}

	conn.SetReadLimit(b.maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(b.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(b.pongWait))
		return nil
	})

	b.register <- conn

	go b.readPump(conn)
}

// BroadcastMessage queues a message for all connected clients. Non-blocking;
// a full broadcast buffer drops the message with a warning.
func (b *WebSocketBroadcaster) BroadcastMessage(msg WSMessage) {
	select {
	case b.broadcast <- msg:
	default:
		b.logger.Warn("Broadcast buffer full, dropping message",
			zap.String("type", msg.Type))
	}
}

// ClientCount returns the current number of connected clients.
func (b *WebSocketBroadcaster) ClientCount() int {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	return len(b.clients)
}

// Close shuts down all client connections.
func (b *WebSocketBroadcaster) Close() {
	b.closeAllClients()
}

func (b *WebSocketBroadcaster) addClient(conn *websocket.Conn) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()

	info := clientInfo{
		connectedAt: time.Now(),
		remoteAddr:  conn.RemoteAddr().String(),
		send:        make(chan []byte, 256),
	}
	b.clients[conn] = info

	go b.writePump(conn, info.send)

	// Queue the snapshot before any store event can reach this client.
	if b.widgets != nil {
		msg := NewInitialMessage(InitialData{
			Widgets: b.widgets.Widgets(),
			Layout:  b.widgets.Layout(),
		})
		if data, err := json.Marshal(msg); err == nil {
			info.send <- data
		}
	}

	b.logger.Debug("Client connected",
		zap.String("remote_addr", info.remoteAddr),
		zap.Int("total", len(b.clients)))
}

func (b *WebSocketBroadcaster) removeClient(conn *websocket.Conn) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()

	if info, ok := b.clients[conn]; ok {
		close(info.send)
		delete(b.clients, conn)
		conn.Close()
		b.logger.Debug("Client disconnected",
			zap.String("remote_addr", info.remoteAddr),
			zap.Int("total", len(b.clients)))
	}
}

func (b *WebSocketBroadcaster) broadcastToAll(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()

	for conn, info := range b.clients {
		select {
		case info.send <- data:
		default:
			// Client send buffer full, drop the connection
			b.logger.Warn("Client send buffer full, closing",
				zap.String("remote_addr", info.remoteAddr))
			go func(c *websocket.Conn) {
				b.unregister <- c
			}(conn)
		}
	}
}

func (b *WebSocketBroadcaster) sendPingToAll() {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()

	for conn, info := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(b.writeWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			b.logger.Debug("Failed to ping client",
				zap.String("remote_addr", info.remoteAddr),
				zap.Error(err))
			go func(c *websocket.Conn) {
				b.unregister <- c
			}(conn)
		}
	}
}

func (b *WebSocketBroadcaster) closeAllClients() {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()

	for conn, info := range b.clients {
		close(info.send)
		conn.Close()
		delete(b.clients, conn)
	}
	b.logger.Debug("All clients disconnected")
}

// readPump drains client messages to keep the connection alive. Clients are
// not expected to send anything beyond pongs.
func (b *WebSocketBroadcaster) readPump(conn *websocket.Conn) {
	defer func() {
		b.unregister <- conn
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				b.logger.Debug("Unexpected close error", zap.Error(err))
			}
			break
		}
	}
}

func (b *WebSocketBroadcaster) writePump(conn *websocket.Conn, send <-chan []byte) {
	defer conn.Close()

	for message := range send {
		conn.SetWriteDeadline(time.Now().Add(b.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			b.logger.Debug("Write error", zap.Error(err))
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(b.writeWait))
	conn.WriteMessage(websocket.CloseMessage, []byte{})
}
