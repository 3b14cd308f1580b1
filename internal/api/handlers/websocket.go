package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/mdr/duck-rewards-website/internal/service"
	"github.com/mdr/duck-rewards-website/internal/session"
	"github.com/mdr/duck-rewards-website/internal/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub            *websocket.Hub
	authService    *service.AuthService
	profileService *service.ProfileService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, profileService *service.ProfileService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		authService:    authService,
		profileService: profileService,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	// Validate token
	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	userIDStr, ok := (*claims)["sub"].(string)
	if !ok {
		http.Error(w, "Invalid token claims", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Each connection gets its own backend handle carrying the tab's token;
	// the client's bootstrapper resolves the session against it.
	backend := session.NewServiceBackend(h.authService, h.profileService, token)
	client := websocket.NewClient(h.hub, conn, userID, backend)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	client.Start()
}
