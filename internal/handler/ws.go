package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/middleware"
	"github.com/wrenchworks/repair-shop-service/internal/websockets"
)

// WSHandler upgrades staff dashboard connections onto the order feed.
type WSHandler struct {
	hub *websockets.Hub
	log *zap.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *websockets.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

// OrderFeed handles the dashboard websocket. Role gating happens in the
// router guard before the upgrade.
func (h *WSHandler) OrderFeed(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websockets.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error to the response
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	websockets.ServeWs(h.hub, conn, identity.UserID.String())
}
