package types

import (
	"maps"
	"slices"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
)

// Status drives which mutation entry points are legal.
type Status string

const (
	StatusLobby      Status = "LOBBY"
	StatusPlaying    Status = "PLAYING"
	StatusInspection Status = "INSPECTION" // accepted in stored documents; nothing enters it
	StatusRevealing  Status = "REVEALING"
	StatusPayout     Status = "PAYOUT"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusLobby, StatusPlaying, StatusInspection, StatusRevealing, StatusPayout:
		return true
	default:
		return false
	}
}

// GameState is the single authoritative document for one table.
type GameState struct {
	// Version is the document schema version
	Version int `json:"version"`
	// Revision increases by exactly one per committed mutation
	Revision int64 `json:"revision"`
	// UpdatedAt is the commit time in unix milliseconds
	UpdatedAt int64 `json:"updatedAt"`
	// UpdatedBy is the identity of the authority that committed the revision
	UpdatedBy string `json:"updatedBy"`

	Status Status `json:"status"`
	Pot    int    `json:"pot"`

	// TurnOrder is the seating order of participant IDs
	TurnOrder []string `json:"turnOrder"`
	// TurnIndex is advisory; tableData.currentPlayer is authoritative
	TurnIndex int `json:"turnIndex"`

	Players  map[string]Player   `json:"players"`
	Autoplay map[string]Autoplay `json:"autoplay"`

	TableData TableData `json:"tableData"`

	History     []HistoryEntry               `json:"history"`
	PrivateLogs map[string][]PrivateLogEntry `json:"privateLogs"`
	NPCWallets  map[string]int               `json:"npcWallets"`
}

// NewGameState is the default factory used when no document exists yet.
func NewGameState() *GameState {
	return &GameState{
		Version:     constants.StateVersion,
		Status:      StatusLobby,
		TurnOrder:   []string{},
		Players:     make(map[string]Player),
		Autoplay:    make(map[string]Autoplay),
		TableData:   NewTableData(),
		History:     []HistoryEntry{},
		PrivateLogs: make(map[string][]PrivateLogEntry),
		NPCWallets:  make(map[string]int),
	}
}

// Copy returns a deep copy of the game state.
func (g *GameState) Copy() *GameState {
	c := *g
	c.TurnOrder = slices.Clone(g.TurnOrder)
	c.Players = maps.Clone(g.Players)
	c.Autoplay = maps.Clone(g.Autoplay)
	c.TableData = g.TableData.Copy()
	c.History = make([]HistoryEntry, len(g.History))
	for i, entry := range g.History {
		c.History[i] = entry.Copy()
	}
	c.PrivateLogs = make(map[string][]PrivateLogEntry, len(g.PrivateLogs))
	for id, entries := range g.PrivateLogs {
		c.PrivateLogs[id] = slices.Clone(entries)
	}
	c.NPCWallets = maps.Clone(g.NPCWallets)
	if c.Players == nil {
		c.Players = make(map[string]Player)
	}
	if c.Autoplay == nil {
		c.Autoplay = make(map[string]Autoplay)
	}
	if c.NPCWallets == nil {
		c.NPCWallets = make(map[string]int)
	}
	return &c
}

// IsSeated reports whether id is in the turn order.
func (g *GameState) IsSeated(id string) bool {
	return slices.Contains(g.TurnOrder, id)
}
