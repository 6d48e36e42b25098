package repositories

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cbodonnell/twentyone/pkg/repositories/models"
)

// MemoryRepository keeps documents and balances in process. It is used in
// tests and when no database is configured.
type MemoryRepository struct {
	mu         sync.Mutex
	documents  map[string]models.Document
	balances   map[string]models.Balance
	characters map[string]models.Character
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		documents:  make(map[string]models.Document),
		balances:   make(map[string]models.Balance),
		characters: make(map[string]models.Character),
	}
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) LoadDocument(ctx context.Context, key string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[key]
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	doc.Data = append([]byte(nil), doc.Data...)
	return &doc, nil
}

func (r *MemoryRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *doc
	saved.Data = append([]byte(nil), doc.Data...)
	r.documents[doc.Key] = saved
	return nil
}

func (r *MemoryRepository) LoadBalance(ctx context.Context, walletID string) (*models.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[walletID]
	if !ok {
		return nil, &ErrNotFound{Key: walletID}
	}
	return &balance, nil
}

func (r *MemoryRepository) SetBalance(ctx context.Context, walletID string, balance int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[walletID] = models.Balance{WalletID: walletID, Balance: balance, UpdatedAt: time.Now().UnixMilli()}
	return nil
}

func (r *MemoryRepository) DebitBalance(ctx context.Context, walletID string, amount int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[walletID]
	if !ok || balance.Balance < amount {
		return false, nil
	}
	balance.Balance -= amount
	balance.UpdatedAt = time.Now().UnixMilli()
	r.balances[walletID] = balance
	return true, nil
}

func (r *MemoryRepository) CreditBalances(ctx context.Context, walletIDs []string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UnixMilli()
	for _, walletID := range walletIDs {
		balance := r.balances[walletID]
		balance.WalletID = walletID
		balance.Balance += amount
		balance.UpdatedAt = now
		r.balances[walletID] = balance
	}
	return nil
}

func (r *MemoryRepository) LoadCharacter(ctx context.Context, participantID string) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	character, ok := r.characters[participantID]
	if !ok {
		return nil, &ErrNotFound{Key: participantID}
	}
	character.Stats = maps.Clone(character.Stats)
	return &character, nil
}

func (r *MemoryRepository) SaveCharacter(ctx context.Context, character *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *character
	saved.Stats = maps.Clone(character.Stats)
	saved.UpdatedAt = time.Now().UnixMilli()
	r.characters[character.ParticipantID] = saved
	return nil
}
