package handler

import (
	"net/http"

	"lorehub/internal/httputil"
	"lorehub/internal/transport/http/middleware"
	"lorehub/internal/ws"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect handles GET /ws
// Upgrades the authenticated caller to a websocket connection that receives
// best-effort user_update frames.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	h.hub.ServeWS(w, r, userID)
}
