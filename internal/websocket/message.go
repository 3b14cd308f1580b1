package websocket

import (
	"encoding/json"
	"time"

	"github.com/mdr/duck-rewards-website/internal/session"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSyncSession MessageType = "SYNC_SESSION"
	MessageTypeSignOut     MessageType = "SIGN_OUT"

	// Server to Client
	MessageTypeSessionState MessageType = "SESSION_STATE"
	MessageTypeError        MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// SessionStatePayload is pushed whenever this client's session changes:
// after the initial bootstrap, after a profile fetch resolves, and when an
// auth-state change arrives from elsewhere (sign-out in another tab, a role
// change applied by an admin).
type SessionStatePayload struct {
	Session           session.Session `json:"session"`
	ProfileComplete   bool            `json:"profile_complete"`
	CompletionPercent int             `json:"completion_percent"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
