package realtime

import (
	"encoding/json"
	"log"
	"regexp"
	"sync"
)

// UserRoom returns the deterministic private room name for a subject id.
// Producers use it to target one user's connections.
func UserRoom(userID string) string {
	return "user:" + userID
}

var roomNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:_-]*$`)

// ValidRoomName reports whether a client-supplied room name is a
// non-empty identifier.
func ValidRoomName(name string) bool {
	return roomNamePattern.MatchString(name)
}

// Message is the wire envelope for every realtime event, inbound and
// outbound.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks which connections are subscribed to which rooms. The room
// table is mutated by join/leave from independently scheduled connection
// handlers while emits iterate it, so every access goes through the lock.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join subscribes a connection to a room. Joining after the connection
// was removed is a no-op.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

// Leave unsubscribes a connection from one room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropFromRoom(c, room)
}

// Remove unsubscribes a connection from every room and closes its send
// queue. Called exactly once, when the transport closes.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	for room := range h.rooms {
		h.dropFromRoom(c, room)
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) dropFromRoom(c *Client, room string) {
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
}

// EmitToRoom broadcasts an event to every connection currently in the
// room. Delivery is fire-and-forget: there is no persistence or replay,
// and a connection whose send queue is full is skipped.
func (h *Hub) EmitToRoom(room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Hub] Failed to marshal %s payload: %v", event, err)
		return
	}
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("[Hub] Failed to marshal %s message: %v", event, err)
		return
	}

	// Sending happens under the read lock; Remove closes send channels
	// under the write lock, so a send can never race a close.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			log.Printf("[Hub] Dropping %s for slow connection in room %s", event, room)
		}
	}
}

// RoomSize returns how many connections are currently in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
