package models

// Document is one versioned settings document.
type Document struct {
	Key       string `json:"key"`
	Revision  int64  `json:"revision"`
	Data      []byte `json:"data"`
	UpdatedAt int64  `json:"updated_at"`
}

type Balance struct {
	WalletID  string `json:"wallet_id"`
	Balance   int    `json:"balance"`
	UpdatedAt int64  `json:"updated_at"`
}

// Character is a participant's display name and stat modifiers.
type Character struct {
	ParticipantID string         `json:"participant_id"`
	Name          string         `json:"name"`
	Stats         map[string]int `json:"stats"`
	UpdatedAt     int64          `json:"updated_at"`
}
