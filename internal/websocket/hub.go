package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Hub tracks connected clients by user and fans auth-state changes out to
// them. It implements the auth-event publisher the services use when a
// session is changed from outside a tab (sign-out, suspension, role change).
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.clients {
				for client := range clients {
					client.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				if h.clients[client.userID] == nil {
					h.clients[client.userID] = make(map[*Client]bool)
				}
				h.clients[client.userID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if clients, ok := h.clients[client.userID]; ok {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						client.Close()
						if len(clients) == 0 {
							delete(h.clients, client.userID)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register hands a new connection to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Stop gracefully shuts down the hub and waits for Run to exit.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// PublishAuthChange routes an auth-state change to every connected client
// of the user. Each client's bootstrapper absorbs the notification and
// re-resolves its session; a nil identity signs the tabs out.
func (h *Hub) PublishAuthChange(userID uuid.UUID, identity *domain.Identity) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	for client := range h.clients[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.notifier.Publish(identity)
	}
}
