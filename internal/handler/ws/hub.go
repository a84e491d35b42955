package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 64
)

// Frame is one message pushed to connected dashboard clients.
type Frame struct {
	Type     string `json:"type"`
	WidgetID string `json:"widgetId,omitempty"`
	Shape    string `json:"shape,omitempty"`
	Records  int    `json:"records,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Hub fans poll updates and advisories out to connected clients. A
// client that cannot keep up with the send buffer is dropped.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Frame
}

func NewHub(l *logger.Logger) *Hub {
	return &Hub{
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the request and pumps frames until the client
// disconnects.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", logger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan Frame, sendBufferSize)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("ws client connected", logger.Int("clients", n))

	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

// BroadcastData pushes a widget data update to every client.
func (h *Hub) BroadcastData(widgetID string, shape string, records int) {
	h.broadcast(Frame{Type: "data", WidgetID: widgetID, Shape: shape, Records: records})
}

// BroadcastAdvisory pushes a provider advisory to every client.
func (h *Hub) BroadcastAdvisory(message string) {
	h.broadcast(Frame{Type: "advisory", Message: message})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		close(cl.send)
		delete(h.clients, cl)
	}
}

func (h *Hub) broadcast(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- f:
		default:
			close(cl.send)
			delete(h.clients, cl)
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		close(cl.send)
		delete(h.clients, cl)
	}
	h.mu.Unlock()
	cl.conn.Close()
}

// readPump discards inbound messages and detects disconnects.
func (h *Hub) readPump(cl *client) {
	defer h.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cl.conn.Close()

	for {
		select {
		case f, ok := <-cl.send:
			if !ok {
				_ = cl.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			if err := cl.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
