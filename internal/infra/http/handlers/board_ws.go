package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsSendBuffer   = 16
)

type BoardWSMessage struct {
	Action string        `json:"action"`
	Board  pipeline.View `json:"board"`
}

// boardClient is one socket. Writes happen only on its own goroutine so a
// slow reader never blocks a refresh.
type boardClient struct {
	conn    *websocket.Conn
	session *pipeline.Session
	send    chan BoardWSMessage
	once    sync.Once
}

func (c *boardClient) close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// BoardHub pushes each viewer's board after every accepted refresh, and
// after a search change in that viewer's session.
type BoardHub struct {
	store    *pipeline.Store
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// SendBuffer is the number of pending boards a client may lag behind
	// before it is dropped.
	SendBuffer int

	mu      sync.Mutex
	clients map[*boardClient]bool
}

func NewBoardHub(store *pipeline.Store, allowedOrigins []string, logger *zap.Logger) *BoardHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &BoardHub{
		store:      store,
		logger:     logger,
		SendBuffer: wsSendBuffer,
		clients:    make(map[*boardClient]bool),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	store.Subscribe(h.Broadcast)
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Broadcast queues a fresh board for every client of changed, or for every
// client when changed is nil. Clients with a full queue are dropped.
func (h *BoardHub) Broadcast(changed *pipeline.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if changed != nil && c.session != changed {
			continue
		}
		select {
		case c.send <- BoardWSMessage{Action: "board", Board: c.session.View()}:
		default:
			h.logger.Warn("dropping slow board client", zap.String("session", c.session.ID()))
			h.removeLocked(c)
		}
	}
}

// ServeHTTP (GET /ws/board) sends the caller's board, then an update after
// every change until the client goes away.
func (h *BoardHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, cookie := resolveSession(h.store, r)
	var header http.Header
	if cookie != nil {
		header = http.Header{"Set-Cookie": []string{cookie.String()}}
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.logger.Warn("board websocket upgrade failed", zap.Error(err))
		return
	}

	c := &boardClient{
		conn:    conn,
		session: sess,
		send:    make(chan BoardWSMessage, max(h.SendBuffer, 1)),
	}
	c.send <- BoardWSMessage{Action: "board", Board: sess.View()}

	h.mu.Lock()
	h.clients[c] = true
	middleware.WSClientConnected()
	h.mu.Unlock()

	go h.writeLoop(c)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *BoardHub) writeLoop(c *boardClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Debug("board websocket write failed", zap.Error(err))
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()
			return
		}
	}
}

func (h *BoardHub) removeLocked(c *boardClient) {
	if h.clients[c] {
		delete(h.clients, c)
		middleware.WSClientDisconnected()
	}
	c.close()
}

func (h *BoardHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}
