package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mdr/duck-rewards-website/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one connected tab. Each client runs its own session
// bootstrapper against its own backend handle (carrying that tab's token);
// the hub routes auth-state changes into the client's notifier, and every
// resulting session change is pushed back down the socket.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	userID   uuid.UUID
	notifier *session.Notifier
	boot     *session.Bootstrapper
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, backend session.Backend) *Client {
	notifier := session.NewNotifier()
	c := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 16),
		userID:   userID,
		notifier: notifier,
		boot:     session.NewBootstrapper(backend, notifier),
	}
	c.boot.SetOnChange(c.sendSessionState)
	return c
}

// Start resolves the initial session for this connection.
func (c *Client) Start() {
	c.boot.Initialize(context.Background())
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("failed to unmarshal message: %v", err)
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSyncSession:
		c.sendSessionState(c.boot.Snapshot())

	case MessageTypeSignOut:
		if err := c.boot.SignOut(context.Background()); err != nil {
			c.sendError("SIGN_OUT_FAILED", "Could not sign out, please try again")
		}
	}
}

func (c *Client) sendSessionState(s session.Session) {
	msg, err := NewMessage(MessageTypeSessionState, SessionStatePayload{
		Session:           s,
		ProfileComplete:   s.ProfileComplete(),
		CompletionPercent: s.CompletionPercent(),
	})
	if err != nil {
		log.Printf("failed to marshal session state: %v", err)
		return
	}
	data, _ := json.Marshal(msg)

	// Drop rather than block: a stalled tab must not wedge the hub.
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}

// Close tears the client down: the bootstrapper unsubscribes from its
// notifier and the write pump is released.
func (c *Client) Close() {
	c.boot.Close()
	close(c.send)
}
