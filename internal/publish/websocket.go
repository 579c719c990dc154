// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package publish

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/metrics"
)

const (
	defaultClientBuffer = 64
	writeTimeout        = 10 * time.Second
)

type HubConfig struct {
	// ClientBuffer is the number of messages queued per client; 0 means 64.
	ClientBuffer int
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// Hub streams every notification, as JSON, to the connected WebSocket
// clients. A client whose queue is full misses messages; the reader never
// waits for a client.
type Hub struct {
	upgrader websocket.Upgrader
	buffer   int
	log      *slog.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	clients map[string]*wsClient
	closed  bool
}

type wsClient struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	dropped uint64
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = defaultClientBuffer
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local network dashboards
			},
		},
		buffer:  cfg.ClientBuffer,
		log:     log.With("sink", "websocket"),
		metrics: cfg.Metrics,
		clients: make(map[string]*wsClient),
	}
}

func (h *Hub) Publish(n gps.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.log.Error("marshal failed", "kind", n.Kind, "error", err)
		h.metrics.PublishFailed("websocket")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
			h.metrics.Published("websocket", string(n.Kind))
		default:
			c.dropped++
			h.log.Debug("client too slow, message dropped", "client", c.id, "dropped", c.dropped)
		}
	}
}

// ServeHTTP upgrades the request and streams notifications until the client
// goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &wsClient{id: uuid.NewString(), conn: conn, send: make(chan []byte, h.buffer)}
	if !h.add(c) {
		_ = conn.Close()
		return
	}
	h.log.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writeLoop(c)

	// Client messages are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	_ = conn.Close()
	h.log.Info("client disconnected", "client", c.id)
}

func (h *Hub) writeLoop(c *wsClient) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("write failed", "client", c.id, "error", err)
			_ = c.conn.Close()
			h.remove(c)
			return
		}
	}
}

func (h *Hub) add(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	h.metrics.SetWebSocketClients(len(h.clients))
	return true
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.metrics.SetWebSocketClients(len(h.clients))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}
