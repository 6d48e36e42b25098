package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/messages"
	"github.com/cbodonnell/twentyone/pkg/repositories"
	"github.com/cbodonnell/twentyone/pkg/repositories/models"
	"github.com/cbodonnell/twentyone/pkg/tabledata"
)

// Settings is the durable key/value store the game document lives in.
type Settings interface {
	// Get returns nil when no document has been saved under key
	Get(ctx context.Context, key string) (*types.GameState, error)
	Set(ctx context.Context, key string, gameState *types.GameState) error
}

// RepositorySettings persists documents as zstd-compressed JSON in a repository.
type RepositorySettings struct {
	repository repositories.Repository
}

func NewRepositorySettings(repository repositories.Repository) *RepositorySettings {
	return &RepositorySettings{repository: repository}
}

func (s *RepositorySettings) Get(ctx context.Context, key string) (*types.GameState, error) {
	doc, err := s.repository.LoadDocument(ctx, key)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load document: %v", err)
	}
	return DecodeDocument(doc.Data)
}

func (s *RepositorySettings) Set(ctx context.Context, key string, gameState *types.GameState) error {
	data, err := EncodeDocument(gameState)
	if err != nil {
		return err
	}
	return s.repository.SaveDocument(ctx, &models.Document{
		Key:       key,
		Revision:  gameState.Revision,
		Data:      data,
		UpdatedAt: gameState.UpdatedAt,
	})
}

// document is the persisted shape: the table sub-document carries both the
// flat fields and the grouped views.
type document struct {
	*types.GameState
	TableData map[string]interface{} `json:"tableData"`
}

// EncodeDocument renders a game state as compressed JSON.
func EncodeDocument(gameState *types.GameState) ([]byte, error) {
	table, err := tabledata.Encode(gameState.TableData)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(document{GameState: gameState, TableData: table})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %v", err)
	}
	return messages.Compress(b)
}

// DecodeDocument parses compressed JSON and normalizes the result.
func DecodeDocument(data []byte) (*types.GameState, error) {
	b, err := messages.Decompress(data)
	if err != nil {
		return nil, err
	}
	doc := document{GameState: &types.GameState{}}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %v", err)
	}
	gameState := doc.GameState
	gameState.TableData = tabledata.Normalize(doc.TableData)
	normalizeState(gameState)
	return gameState, nil
}

// normalizeState repairs top-level fields of a decoded document.
func normalizeState(gs *types.GameState) {
	if gs.Version == 0 {
		gs.Version = constants.StateVersion
	}
	if !gs.Status.Valid() {
		gs.Status = types.StatusLobby
	}
	gs.Pot = max(gs.Pot, 0)
	gs.TurnIndex = max(gs.TurnIndex, 0)
	if gs.TurnOrder == nil {
		gs.TurnOrder = []string{}
	}
	if gs.Players == nil {
		gs.Players = make(map[string]types.Player)
	}
	if gs.Autoplay == nil {
		gs.Autoplay = make(map[string]types.Autoplay)
	}
	if gs.History == nil {
		gs.History = []types.HistoryEntry{}
	}
	if gs.PrivateLogs == nil {
		gs.PrivateLogs = make(map[string][]types.PrivateLogEntry)
	}
	if gs.NPCWallets == nil {
		gs.NPCWallets = make(map[string]int)
	}
}

// MemorySettings keeps documents in process.
type MemorySettings struct {
	lock      sync.RWMutex
	documents map[string]*types.GameState
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{
		documents: make(map[string]*types.GameState),
	}
}

func (m *MemorySettings) Get(ctx context.Context, key string) (*types.GameState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	gs, ok := m.documents[key]
	if !ok {
		return nil, nil
	}
	return gs.Copy(), nil
}

func (m *MemorySettings) Set(ctx context.Context, key string, gameState *types.GameState) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if gameState == nil {
		return fmt.Errorf("game state is nil")
	}

	m.documents[key] = gameState.Copy()
	return nil
}
