package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth replaces origin checking; browser clients connect from
	// arbitrary hosts.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one live websocket connection owned by an authenticated
// subject.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID string

	// closed is guarded by hub.mu.
	closed bool
}

// joinRoomRequest is the payload of an inbound join_room message.
type joinRoomRequest struct {
	RoomID string `json:"roomId"`
}

// ServeWS authenticates and upgrades a realtime connection. The token is
// located with the same carrier lookup as the HTTP guard; a connection
// that presents no valid token is rejected at the handshake and never
// joins any room. On success the connection is auto-subscribed to the
// subject's private room.
func ServeWS(hub *Hub, jwtService *auth.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := middleware.ExtractToken(r)
		if tokenString == "" {
			rejectHandshake(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := jwtService.Verify(tokenString)
		if err != nil {
			rejectHandshake(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the error response.
			log.Printf("[Hub] Upgrade failed for user %s: %v", claims.UserID, err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendQueueSize),
			UserID: claims.UserID,
		}
		hub.Join(client, UserRoom(claims.UserID))

		go client.writePump()
		go client.readPump()
	}
}

func rejectHandshake(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// readPump reads inbound messages until the transport closes, then
// removes the connection from every room.
func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Hub] Read error for user %s: %v", c.UserID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("Invalid message format")
			continue
		}

		switch msg.Event {
		case "join_room":
			c.handleJoinRoom(msg.Data)
		default:
			c.sendError(fmt.Sprintf("Unknown event: %s", msg.Event))
		}
	}
}

// handleJoinRoom subscribes the connection to an additional named room.
// A bad room name gets an in-band error event; the connection stays open.
func (c *Client) handleJoinRoom(data json.RawMessage) {
	var req joinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || !ValidRoomName(req.RoomID) {
		c.sendError("roomId must be a non-empty identifier")
		return
	}

	c.hub.Join(c, req.RoomID)
	c.sendEvent("room_joined", map[string]string{
		"roomId":  req.RoomID,
		"message": fmt.Sprintf("Joined room %s", req.RoomID),
	})
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", map[string]string{"message": message})
}

func (c *Client) sendEvent(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// writePump drains the send queue to the transport and keeps the
// connection alive with pings. It exits when the queue is closed by
// Hub.Remove or the transport fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
