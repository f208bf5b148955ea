package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set an Authorization header on websocket dials;
	// the token arrives as a query parameter and origin checks are left
	// to the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub  *notify.Hub
	auth *AuthMiddleware
}

func NewWSHandler(hub *notify.Hub, auth *AuthMiddleware) *WSHandler {
	return &WSHandler{hub: hub, auth: auth}
}

// Subscribe upgrades the connection and registers it as a listener for
// the caller's realtime events.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{errorDetail{Code: "UNAUTHENTICATED", Message: "missing token parameter"}})
		return
	}

	actor, err := h.auth.authenticate(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("Websocket upgrade failed", "error", err)
		return
	}

	h.hub.Attach(conn, actor)
	logger.Info("Websocket listener attached", "user_id", actor.ID, "org_id", actor.OrgID)
}
