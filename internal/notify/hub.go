// Package notify implements real-time event fan-out to connected browser
// clients. The hub is an injected dependency with an add/remove/publish
// surface; there is no process-wide singleton.
package notify

import (
	"sync"
	"time"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
)

// Event is pushed to every currently-connected listener in its audience.
// Listeners that connect after emission never see it; there is no replay.
type Event struct {
	Kind      string    `json:"kind"`
	RequestID int32     `json:"request_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Audience names the listener group for one event, always scoped to a
// single organization. Either UserID or Role is set, never both.
type Audience struct {
	OrgID  int32
	UserID int32
	Role   domain.UserRole
}

// ToUser addresses the single user identified by userID within orgID.
func ToUser(orgID, userID int32) Audience {
	return Audience{OrgID: orgID, UserID: userID}
}

// ToRole addresses every member of orgID holding role.
func ToRole(orgID int32, role domain.UserRole) Audience {
	return Audience{OrgID: orgID, Role: role}
}

// Broadcaster is the publish side of the hub, consumed by the request
// service after each committed transition.
type Broadcaster interface {
	Publish(audience Audience, event Event)
}

// Hub tracks connected listeners and delivers events. Add/remove and
// publish share one mutex; per-request FIFO ordering follows from
// synchronous publication into each client's ordered send channel.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Publish delivers event to every connected listener in the audience,
// at most once each. A listener whose buffer is full misses the event
// rather than blocking the publisher.
func (h *Hub) Publish(audience Audience, event Event) {
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !audience.matches(c) {
			continue
		}
		select {
		case c.send <- event:
		default:
			logger.Warn("Dropping event for slow listener", "user_id", c.userID, "kind", event.Kind)
		}
	}
}

// ConnectedCount reports the number of listeners for an organization.
func (h *Hub) ConnectedCount(orgID int32) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.orgID == orgID {
			n++
		}
	}
	return n
}

func (a Audience) matches(c *Client) bool {
	if c.orgID != a.OrgID {
		return false
	}
	if a.UserID != 0 {
		return c.userID == a.UserID
	}
	return c.role == a.Role
}
