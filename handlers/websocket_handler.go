package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/aswat-contest/live"
	"github.com/Dosada05/aswat-contest/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *live.Hub
	resultsService services.ResultsService
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows
// any origin.
func NewWebSocketHandler(hub *live.Hub, resultsService services.ResultsService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:            hub,
		resultsService: resultsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeResults joins the client to the results room and sends it the
// current view straight away.
func (h *WebSocketHandler) ServeResults(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger(r).Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.RoomResults)
	h.hub.Register(r.Context(), client)
	if err := client.Send(live.MessageResultsUpdated, h.resultsService.View()); err != nil {
		logger(r).Error("failed to queue initial results", slog.Any("error", err))
	}

	go client.WritePump()
	go client.ReadPump()
}
