package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/tournament-draw/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS для websocket разруливается на уровне роутера.
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWS подключает клиента к комнате категории: он будет получать
// события об обновлениях матчей и заполнении сетки этой категории.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		badRequestResponse(w, r, errMissingCategory)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for category %s: %v", category, err)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: category,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
