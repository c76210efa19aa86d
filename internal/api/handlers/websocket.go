package handlers

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/lauzhack/pictorial/internal/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketHandler subscribes browsers to the live quote hub.
type WebSocketHandler struct {
	hub  *websocket.Hub
	logs *zap.SugaredLogger
}

func NewWebSocketHandler(hub *websocket.Hub, logs *zap.SugaredLogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		logs: logs,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logs.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, h.logs)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
