// WebSocket hub relaying catalog refresh frames between sessions. This is
// the cross-context transport of the notification bus: outbound frames tell
// other sessions to reload, inbound frames from peers are injected into the
// local bus.
package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/horizonbtp/vitrine/internal/bus"
	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Catalog refresh frames carry no payload worth protecting and
		// the public site runs on multiple hostnames.
		return true
	},
}

// WSFrame is the cross-context message shape: {type:"<TABLE>_REFRESH"}.
type WSFrame struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// WSClient represents one connected session.
type WSClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub
}

// outbound is a frame queued for broadcast, optionally excluding the
// session it came from.
type outbound struct {
	data    []byte
	exclude string
}

// WSHub maintains active sessions and relays refresh frames between them.
type WSHub struct {
	bus        *bus.Bus
	clients    map[string]*WSClient
	broadcast  chan outbound
	register   chan *WSClient
	unregister chan *WSClient
	mu         sync.RWMutex
}

// NewWSHub creates a hub wired to the notification bus and starts its
// dispatch loop.
func NewWSHub(b *bus.Bus) *WSHub {
	hub := &WSHub{
		bus:        b,
		clients:    make(map[string]*WSClient),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
	go hub.run()
	return hub
}

// run manages session connections and broadcasts.
func (h *WSHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			logging.Debug("ws client connected", logging.Fields{"client": client.id, "total": total})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logging.Debug("ws client disconnected", logging.Fields{"client": client.id, "total": total})

		case msg := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				if id == msg.exclude {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Send buffer full, drop the connection.
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastRefresh implements bus.Broadcaster: tell every connected session
// that a table changed.
func (h *WSHub) BroadcastRefresh(table models.Table) {
	h.relay(table, "")
}

// relay queues a refresh frame for every session except the sender.
func (h *WSHub) relay(table models.Table, exclude string) {
	frame := WSFrame{
		Type:      bus.RefreshType(table),
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(frame)
	if err != nil {
		logging.Error("ws frame marshal failed", err)
		return
	}
	h.broadcast <- outbound{data: data, exclude: exclude}
}

// readPump pumps frames from one session into the bus and on to the other
// sessions.
func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("ws read error", logging.Fields{"error": err.Error()})
			}
			break
		}

		var frame WSFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			logging.Warn("ws invalid frame", logging.Fields{"error": err.Error()})
			continue
		}

		table, ok := bus.TableForRefreshType(frame.Type)
		if !ok {
			continue
		}

		// A peer session mutated this table: notify local subscribers
		// and relay to every other session.
		c.hub.bus.Deliver(table, bus.ReasonBroadcast)
		c.hub.relay(table, c.id)
	}
}

// writePump pumps queued frames to one session.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleWebSocket upgrades a connection and registers it with the hub.
func HandleWebSocket(hub *WSHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn("ws upgrade failed", logging.Fields{"error": err.Error()})
			return
		}

		client := &WSClient{
			id:   time.Now().Format("20060102150405.000000000") + "-" + r.RemoteAddr,
			conn: conn,
			send: make(chan []byte, 256),
			hub:  hub,
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
