package types

import "slices"

// HistoryEntry summarises one round or action.
type HistoryEntry struct {
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Type      string   `json:"type"`
	ActorID   string   `json:"actorId,omitempty"`
	TargetID  string   `json:"targetId,omitempty"`
	Message   string   `json:"message"`
	Amount    int      `json:"amount,omitempty"`
	Players   []string `json:"players,omitempty"`
}

func (h HistoryEntry) Copy() HistoryEntry {
	h.Players = slices.Clone(h.Players)
	return h
}

// PrivateLogEntry is feedback only one participant may see.
type PrivateLogEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Seen      bool   `json:"seen"`
}
