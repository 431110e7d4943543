package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	clientBuffer = 256
	writeTimeout = 5 * time.Second
)

type frame struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan frame
}

// Hub serves a websocket feed. Each client first gets the cached state,
// then every change.
type Hub struct {
	cache    *StateCache
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(cache *StateCache) *Hub {
	return &Hub{
		cache: cache,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan frame, clientBuffer)}

	// snapshot and registration under one lock so no change is missed
	h.mu.Lock()
	snapshot := h.cache.Snapshot()
	overflow := len(snapshot) > clientBuffer
	for _, e := range snapshot {
		if overflow {
			break
		}
		c.send <- newFrame(e.Topic, e.Payload)
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Info().Str("remote", r.RemoteAddr).Int("clients", h.Count()).Msg("Websocket client connected")
	go h.writeLoop(c, snapshotIf(overflow, snapshot))
	h.readLoop(c)
}

// Send implements Sink.
func (h *Hub) Send(topic string, payload []byte) error {
	f := newFrame(topic, payload)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- f:
		default:
			log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("Websocket client too slow, dropping")
			h.removeLocked(c)
		}
	}
	return nil
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run serves the hub on addr at path until ctx is done.
func (h *Hub) Run(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("path", path).Msg("Websocket feed listening")
		errs <- server.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return errors.Wrap(err, "websocket server")
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	h.closeAll()
	if err := server.Shutdown(shutdown); err != nil {
		return errors.Wrap(err, "websocket shutdown")
	}
	return nil
}

func (h *Hub) writeLoop(c *client, pending []Entry) {
	defer c.conn.Close()
	for _, e := range pending {
		if err := h.write(c, newFrame(e.Topic, e.Payload)); err != nil {
			return
		}
	}
	for f := range c.send {
		if err := h.write(c, f); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
}

func (h *Hub) write(c *client, f frame) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(f)
}

// readLoop discards client input and notices when the client leaves.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// newFrame embeds JSON payloads as is and everything else as a string.
func newFrame(topic string, payload []byte) frame {
	if json.Valid(payload) {
		return frame{Topic: topic, Payload: json.RawMessage(payload)}
	}
	quoted, _ := json.Marshal(string(payload))
	return frame{Topic: topic, Payload: quoted}
}

func snapshotIf(ok bool, entries []Entry) []Entry {
	if ok {
		return entries
	}
	return nil
}
