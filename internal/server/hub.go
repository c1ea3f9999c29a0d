package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// hub fans transition progress out to websocket subscribers. New
// subscribers immediately receive the last broadcast so they do not
// wait a full transition for their first frame.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	last    []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]bool)}
}

// Broadcast marshals v and queues it to every connected client. Slow
// clients have messages dropped rather than blocking the tick loop.
func (h *hub) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("marshaling broadcast", zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	if h.last != nil {
		c.send <- h.last
	}
}

func (h *hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

type wsClient struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(h *hub, conn *websocket.Conn) *wsClient {
	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, 32)}
	h.register(c)
	go c.writePump()
	go c.readPump()
	return c
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.hub.unregister(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.L().Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Debug("websocket ping", zap.Error(err))
				return
			}
		}
	}
}

// readPump discards inbound messages but keeps the connection's
// control frames processed so closes are noticed.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
