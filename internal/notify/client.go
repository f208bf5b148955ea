package notify

import (
	"time"

	"github.com/gorilla/websocket"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize bounds per-listener backlog; overflow drops events.
	sendBufferSize = 32
)

// Client is one connected websocket listener.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int32
	orgID  int32
	role   domain.UserRole
	send   chan Event
}

// Attach registers a websocket connection as a listener for the given
// user and starts its read/write pumps. The connection is owned by the
// hub from this point on.
func (h *Hub) Attach(conn *websocket.Conn, user *domain.User) {
	c := &Client{
		hub:    h,
		conn:   conn,
		userID: user.ID,
		orgID:  user.OrgID,
		role:   user.Role,
		send:   make(chan Event, sendBufferSize),
	}
	h.add(c)

	go c.writePump()
	go c.readPump()
}

// writePump serializes events onto the websocket in channel order.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				logger.Debug("Websocket write failed", "user_id", c.userID, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects. Clients
// never send application messages; the socket is push-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
