package messages

import (
	"encoding/json"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 32 * 1024
)

// Message types
const (
	MessageTypeClientPing   = "ping"
	MessageTypeServerPong   = "pong"
	MessageTypeClientLogin  = "login"
	MessageTypeServerLogin  = "login_ok"
	MessageTypeClientAction = "action"
	MessageTypeServerResult = "result"
	MessageTypeServerState  = "state"
	MessageTypeServerEffect = "effect"
	MessageTypeServerError  = "error"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID string          `json:"clientID,omitempty"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(clientID string, messageType string, payload interface{}) (*Message, error) {
	m := &Message{ClientID: clientID, Type: messageType}
	if payload == nil {
		return m, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	m.Payload = b
	return m, nil
}

type LoginRequest struct {
	Token string `json:"token"`
}

type LoginResponse struct {
	ParticipantID string `json:"participantId"`
}

// ActionRequest asks the authority to run one mutation entry point.
type ActionRequest struct {
	RequestID string          `json:"requestId"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type ActionResult struct {
	RequestID string `json:"requestId"`
	Revision  int64  `json:"revision"`
	// Code is the rule code when the request was rejected
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// StateUpdate carries a snapshot as seen by its recipient.
type StateUpdate struct {
	State *types.GameState `json:"state"`
}

type EffectUpdate struct {
	Effect effects.Effect `json:"effect"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
