package network

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Client represents a connected websocket client
type Client struct {
	ID string
	// ParticipantID is empty until the client logs in
	ParticipantID string
	WSConn        *websocket.Conn

	// writeLock serializes frames written to WSConn
	writeLock *sync.Mutex
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[string]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
	}
}

// ConnectClient adds a new anonymous client to the manager and returns its ID
func (cm *ClientManager) ConnectClient(wsConn *websocket.Conn) string {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID := uuid.NewString()
	cm.clients[clientID] = &Client{
		ID:        clientID,
		WSConn:    wsConn,
		writeLock: &sync.Mutex{},
	}
	return clientID
}

// Login binds a connected client to a participant identity
func (cm *ClientManager) Login(clientID string, participantID string) error {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return fmt.Errorf("client %s is not connected", clientID)
	}
	client.ParticipantID = participantID
	return nil
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	delete(cm.clients, clientID)
}

// GetClient returns a copy of a connected client
func (cm *ClientManager) GetClient(clientID string) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s is not connected", clientID)
	}
	c := *client
	return &c, nil
}

// GetClients returns copies of every logged in client.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		if client.ParticipantID == "" {
			continue
		}
		c := *client
		clients = append(clients, &c)
	}
	return clients
}

// GetClientsByParticipant returns copies of every client logged in as participantID.
// A participant may hold several connections at once.
func (cm *ClientManager) GetClientsByParticipant(participantID string) []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	var clients []*Client
	for _, client := range cm.clients {
		if participantID != "" && client.ParticipantID == participantID {
			c := *client
			clients = append(clients, &c)
		}
	}
	return clients
}

func (cm *ClientManager) Exists(clientID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}
