package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	authproviders "github.com/cbodonnell/twentyone/pkg/auth/providers"
	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/messages"
	"nhooyr.io/websocket"
)

// ActionHandler runs participant requests against the table.
type ActionHandler interface {
	Submit(ctx context.Context, participantID, action string, payload []byte) (game.Outcome, error)
	State(ctx context.Context) (*types.GameState, error)
	Authority() string
}

// Hub connects websocket clients to the table. It routes their actions to
// the ActionHandler, pushes each committed state as the recipient may see it
// and delivers effects to the participants they are meant for.
type Hub struct {
	AuthProvider  authproviders.AuthProvider
	ClientManager *ClientManager
	Actions       ActionHandler
	WSServer      *WSServer
}

var _ effects.Notifier = &Hub{}

type NewHubOptions struct {
	AuthProvider  authproviders.AuthProvider
	ClientManager *ClientManager
	Actions       ActionHandler
	WSPort        int
	WSServerTLS   *TLSConfig
}

func NewHub(options NewHubOptions) *Hub {
	if options.ClientManager == nil {
		options.ClientManager = NewClientManager()
	}
	return &Hub{
		AuthProvider:  options.AuthProvider,
		ClientManager: options.ClientManager,
		Actions:       options.Actions,
		WSServer: NewWSServer(NewWSServerOptions{
			Port: options.WSPort,
			TLS:  options.WSServerTLS,
		}),
	}
}

func (h *Hub) Start(ctx context.Context) {
	h.WSServer.Start(ctx, h.handleConnect, h.handleDisconnect, h.handleMessage)
}

// Handler serves the hub on an existing http server.
func (h *Hub) Handler(ctx context.Context) http.Handler {
	return h.WSServer.Handler(ctx, h.handleConnect, h.handleDisconnect, h.handleMessage)
}

func (h *Hub) handleConnect(ctx context.Context, conn *websocket.Conn) string {
	clientID := h.ClientManager.ConnectClient(conn)
	log.Debug("Client %s connected", clientID)
	return clientID
}

func (h *Hub) handleDisconnect(clientID string) {
	h.ClientManager.DisconnectClient(clientID)
	log.Info("Client %s disconnected", clientID)
}

func (h *Hub) handleMessage(ctx context.Context, clientID string, message *messages.Message) {
	client, err := h.ClientManager.GetClient(clientID)
	if err != nil {
		log.Warn("Received message from unknown client %s", clientID)
		return
	}
	if client.ParticipantID == "" && message.Type != messages.MessageTypeClientLogin && message.Type != messages.MessageTypeClientPing {
		log.Warn("Received %s message from client %s that has not logged in", message.Type, clientID)
		h.sendError(ctx, client, "login required")
		return
	}

	switch message.Type {
	case messages.MessageTypeClientPing:
		if err := h.sendToClient(ctx, client, messages.MessageTypeServerPong, nil); err != nil {
			log.Error("Failed to send pong to client %s: %v", clientID, err)
		}
	case messages.MessageTypeClientLogin:
		participantID, err := h.handleClientLogin(ctx, clientID, message)
		if err != nil {
			log.Error("Failed to handle client login: %v", err)
			h.sendError(ctx, client, "login failed")
			return
		}
		log.Info("Client %s logged in as %s", clientID, participantID)
		client.ParticipantID = participantID
		if err := h.sendToClient(ctx, client, messages.MessageTypeServerLogin, &messages.LoginResponse{ParticipantID: participantID}); err != nil {
			log.Error("Failed to send login response to client %s: %v", clientID, err)
			return
		}
		h.sendCurrentState(ctx, client)
	case messages.MessageTypeClientAction:
		if err := h.handleClientAction(ctx, client, message); err != nil {
			log.Error("Failed to handle action from client %s: %v", clientID, err)
		}
	default:
		log.Warn("Unhandled message type %s from client %s", message.Type, clientID)
	}
}

// handleClientLogin verifies the token and binds its subject to the client.
func (h *Hub) handleClientLogin(ctx context.Context, clientID string, message *messages.Message) (string, error) {
	login := &messages.LoginRequest{}
	if err := json.Unmarshal(message.Payload, login); err != nil {
		return "", fmt.Errorf("failed to unmarshal client login: %v", err)
	}

	token, err := h.AuthProvider.VerifyToken(ctx, login.Token)
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %v", err)
	}

	if err := h.ClientManager.Login(clientID, token.UID); err != nil {
		return "", fmt.Errorf("failed to log in client: %v", err)
	}
	return token.UID, nil
}

func (h *Hub) handleClientAction(ctx context.Context, client *Client, message *messages.Message) error {
	request := &messages.ActionRequest{}
	if err := json.Unmarshal(message.Payload, request); err != nil {
		h.sendError(ctx, client, "malformed action")
		return fmt.Errorf("failed to unmarshal action request: %v", err)
	}

	out, err := h.Actions.Submit(ctx, client.ParticipantID, request.Action, request.Payload)
	result := &messages.ActionResult{RequestID: request.RequestID}
	switch {
	case err != nil:
		result.Error = "request failed"
	case out.Rejection != nil:
		result.Error = out.Rejection.Message
		result.Code = out.Rejection.Code
	}
	if out.State != nil {
		result.Revision = out.State.Revision
	}
	if sendErr := h.sendToClient(ctx, client, messages.MessageTypeServerResult, result); sendErr != nil {
		return fmt.Errorf("failed to send action result: %v", sendErr)
	}
	return err
}

func (h *Hub) sendCurrentState(ctx context.Context, client *Client) {
	gameState, err := h.Actions.State(ctx)
	if err != nil {
		log.Error("Failed to get game state for client %s: %v", client.ID, err)
		return
	}
	if err := h.sendState(ctx, client, gameState); err != nil {
		log.Error("Failed to send game state to client %s: %v", client.ID, err)
	}
}

func (h *Hub) sendState(ctx context.Context, client *Client, gameState *types.GameState) error {
	view := game.View(gameState, client.ParticipantID, h.Actions.Authority())
	return h.sendToClient(ctx, client, messages.MessageTypeServerState, &messages.StateUpdate{State: view})
}

// PublishState sends every logged in client its own view of gameState.
func (h *Hub) PublishState(ctx context.Context, gameState *types.GameState) error {
	var failed int
	for _, client := range h.ClientManager.GetClients() {
		if err := h.sendState(ctx, client, gameState); err != nil {
			log.Error("Failed to send game state to client %s: %v", client.ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to send game state to %d clients", failed)
	}
	return nil
}

func (h *Hub) Announce(ctx context.Context, title, subtitle, message string) error {
	return h.broadcastEffect(ctx, effects.Announcement(title, subtitle, message))
}

func (h *Hub) CutIn(ctx context.Context, skill, actorID, targetID string, result map[string]interface{}) error {
	return h.broadcastEffect(ctx, effects.CutIn(skill, actorID, targetID, result))
}

func (h *Hub) Reveal(ctx context.Context, playerID string, die, value int) error {
	return h.broadcastEffect(ctx, effects.Reveal(playerID, die, value, 0))
}

func (h *Hub) Private(ctx context.Context, recipientID, title, message string) error {
	return h.sendEffect(ctx, recipientID, effects.Private(recipientID, title, message))
}

func (h *Hub) Warn(ctx context.Context, recipientID, message string) error {
	return h.sendEffect(ctx, recipientID, effects.Warning(recipientID, message))
}

func (h *Hub) broadcastEffect(ctx context.Context, e effects.Effect) error {
	var failed int
	for _, client := range h.ClientManager.GetClients() {
		if err := h.sendToClient(ctx, client, messages.MessageTypeServerEffect, &messages.EffectUpdate{Effect: e}); err != nil {
			log.Error("Failed to send %s effect to client %s: %v", e.Kind, client.ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to send %s effect to %d clients", e.Kind, failed)
	}
	return nil
}

// sendEffect delivers e only to connections of recipientID.
func (h *Hub) sendEffect(ctx context.Context, recipientID string, e effects.Effect) error {
	clients := h.ClientManager.GetClientsByParticipant(recipientID)
	if len(clients) == 0 {
		log.Debug("No connection for %s, dropping %s effect", recipientID, e.Kind)
		return nil
	}
	for _, client := range clients {
		if err := h.sendToClient(ctx, client, messages.MessageTypeServerEffect, &messages.EffectUpdate{Effect: e}); err != nil {
			return fmt.Errorf("failed to send %s effect to client %s: %v", e.Kind, client.ID, err)
		}
	}
	return nil
}

func (h *Hub) sendError(ctx context.Context, client *Client, reason string) {
	if err := h.sendToClient(ctx, client, messages.MessageTypeServerError, &messages.ErrorMessage{Message: reason}); err != nil {
		log.Error("Failed to send error to client %s: %v", client.ID, err)
	}
}

func (h *Hub) sendToClient(ctx context.Context, client *Client, messageType string, payload interface{}) error {
	msg, err := messages.NewMessage(client.ID, messageType, payload)
	if err != nil {
		return fmt.Errorf("failed to create %s message: %v", messageType, err)
	}
	client.writeLock.Lock()
	defer client.writeLock.Unlock()
	return WriteMessageToWS(ctx, client.WSConn, msg)
}
