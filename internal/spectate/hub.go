// Package spectate streams live games to browsers: a websocket hub
// fans every frame out to connected viewers and a small HTTP API serves
// stored replays and scores.
package spectate

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/mazebrawl/internal/core"
	"github.com/vovakirdan/mazebrawl/internal/replay"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second
	// sendBuffer is how many frames a viewer may lag before dropping.
	sendBuffer = 32
)

// Hub broadcasts frames to websocket viewers. Frames travel in the
// replay record encoding, so a viewer speaks the same format whether
// it watches live or loads a file. The hub never blocks the publisher:
// a viewer that cannot keep up loses frames, not the game.
type Hub struct {
	logger *log.Logger

	mu   sync.Mutex
	subs map[chan []byte]struct{}
	// Encoded form of the last frame that carried the maze, replayed
	// to every new viewer so it starts with a complete grid.
	grid []byte
}

// NewHub returns an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{logger: logger, subs: make(map[chan []byte]struct{})}
}

// Publish encodes one frame and fans it out. Implements
// session.Publisher.
func (h *Hub) Publish(f *core.Frame) {
	data := replay.EncodeRecord(f)

	h.mu.Lock()
	defer h.mu.Unlock()
	if f.HasMaze() {
		h.grid = data
	}
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Viewers returns how many websocket viewers are connected.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// subscribe registers a viewer and returns its frame channel together
// with the grid-bearing frame it should see first.
func (h *Hub) subscribe() (chan []byte, []byte) {
	ch := make(chan []byte, sendBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
	return ch, h.grid
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
}

var upgrader = websocket.Upgrader{
	// Spectating is read-only and unauthenticated, any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and streams frames until the viewer
// disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	ch, grid := h.subscribe()
	defer h.unsubscribe(ch)
	h.logger.Info("viewer connected", "remote", r.RemoteAddr)
	defer h.logger.Info("viewer gone", "remote", r.RemoteAddr)

	// Reads only matter for detecting the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if grid != nil {
		if err := h.send(conn, grid); err != nil {
			return
		}
	}
	for {
		select {
		case <-done:
			return
		case data := <-ch:
			if err := h.send(conn, data); err != nil {
				return
			}
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
