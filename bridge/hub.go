package bridge

import (
	"fmt"
	"sort"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/quickshare/sharesheet-go/tool"
	"github.com/quickshare/sharesheet-go/types"
)

// Hub holds the window shell WebSocket connections, broadcasts session
// notifications to all of them and replays recent ones to a shell that
// connects late. It is the controller's Notifier and WindowHost collaborator.
//
// gorilla/websocket allows only one concurrent writer per connection, so every
// write goes through the connection's own mutex: the replay in Register holds
// it for the whole replay, and broadcasts take it per write. A notification
// emitted while a replay is in flight queues behind the replay instead of
// interleaving with it.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*websocket.Conn]*sync.Mutex
	seq    uint64
	replay *ttlworker.Cache[string, replayEntry]
}

type replayEntry struct {
	seq  uint64
	note *types.Notification
}

// NewHub creates a hub whose replay buffer retains notifications for window.
// The window should cover the auto-close timeout so a slow shell still sees
// the failure notice that scheduled the close.
func NewHub(window time.Duration) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]*sync.Mutex),
		replay: ttlworker.NewCache[string, replayEntry](window),
	}
}

// Register adds a connection and replays buffered notifications in order.
// The connection's write lock is held across the replay so concurrent
// broadcasts wait rather than corrupt the stream.
func (h *Hub) Register(conn *websocket.Conn) {
	lock := &sync.Mutex{}
	lock.Lock()
	defer lock.Unlock()

	h.mu.Lock()
	h.conns[conn] = lock
	h.mu.Unlock()

	for _, note := range h.buffered() {
		payload, err := sonic.Marshal(note)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Notify implements session.Notifier: buffer for replay, then broadcast.
func (h *Hub) Notify(n *types.Notification) {
	if n == nil {
		return
	}
	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()
	h.replay.Set(fmt.Sprintf("n-%d", seq), replayEntry{seq: seq, note: n})

	payload, err := sonic.Marshal(n)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to serialize notification: %v", err)
		return
	}

	h.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for c, lock := range h.conns {
		conns[c] = lock
	}
	h.mu.RUnlock()

	for conn, lock := range conns {
		lock.Lock()
		_ = conn.WriteMessage(websocket.TextMessage, payload)
		lock.Unlock()
	}
}

// Show implements session.WindowHost by directing the shell to show itself.
func (h *Hub) Show() {
	h.Notify(&types.Notification{Type: types.NotifyTypeShowWindow})
}

// RequestFocus implements session.WindowHost.
func (h *Hub) RequestFocus() {
	h.Notify(&types.Notification{Type: types.NotifyTypeRequestFocus})
}

// buffered returns the live replay entries in emission order.
func (h *Hub) buffered() []*types.Notification {
	entries := make([]replayEntry, 0)
	err := h.replay.Range(func(k string, v replayEntry) error {
		entries = append(entries, v)
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	notes := make([]*types.Notification, 0, len(entries))
	for _, e := range entries {
		notes = append(notes, e.note)
	}
	return notes
}
