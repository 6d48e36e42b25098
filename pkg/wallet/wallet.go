// Package wallet holds the funds and character sheets the game consults.
package wallet

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/cbodonnell/twentyone/pkg/repositories"
	"github.com/cbodonnell/twentyone/pkg/repositories/models"
)

// Stat keys understood by StatModifier.
const (
	StatStrength      = "str"
	StatIntimidation  = "itm"
	StatPersuasion    = "per"
	StatInsight       = "ins"
	StatSleightOfHand = "slt"
	StatWisdom        = "wis"
	StatInvestigation = "inv"
	StatDeception     = "dec"
)

// Stats lists every key a character sheet may carry.
var Stats = []string{
	StatStrength,
	StatIntimidation,
	StatPersuasion,
	StatInsight,
	StatSleightOfHand,
	StatWisdom,
	StatInvestigation,
	StatDeception,
}

// Bounds of a single stat modifier.
const (
	MinStatModifier = -5
	MaxStatModifier = 10
)

// Wallet is the funds and actor collaborator. The game calls Deduct and
// PayOut exactly once per logical event.
type Wallet interface {
	CanAfford(ctx context.Context, walletID string, amount int) (bool, error)
	Deduct(ctx context.Context, walletID string, amount int) (bool, error)
	PayOut(ctx context.Context, walletIDs []string, amountEach int) error
	StatModifier(ctx context.Context, participantID string, stat string) (int, error)
	Name(ctx context.Context, participantID string) (string, error)
}

// Accounts is the administrative side of the wallets: balances and
// character sheets set by the table authority.
type Accounts interface {
	Balance(ctx context.Context, walletID string) (int, error)
	Fund(ctx context.Context, walletID string, amount int) error
	Profile(ctx context.Context, participantID string) (Profile, error)
	SetProfile(ctx context.Context, participantID string, profile Profile) error
}

// Profile is a participant's display name and stat modifiers.
type Profile struct {
	Name  string         `json:"name"`
	Stats map[string]int `json:"stats"`
}

// Validate checks stat keys and modifier bounds.
func (p Profile) Validate() error {
	for stat, modifier := range p.Stats {
		if !slices.Contains(Stats, stat) {
			return fmt.Errorf("unknown stat %q", stat)
		}
		if modifier < MinStatModifier || modifier > MaxStatModifier {
			return fmt.Errorf("%s modifier %d is outside %d..%d", stat, modifier, MinStatModifier, MaxStatModifier)
		}
	}
	return nil
}

// Profiles is a concurrency-safe set of participant profiles.
type Profiles struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewProfiles() *Profiles {
	return &Profiles{profiles: make(map[string]Profile)}
}

func (p *Profiles) Set(participantID string, profile Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[participantID] = profile
}

// Get returns the cached profile of a participant.
func (p *Profiles) Get(participantID string) (Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[participantID]
	return profile, ok
}

// StatModifier returns 0 for unknown participants or stats.
func (p *Profiles) StatModifier(ctx context.Context, participantID string, stat string) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profiles[participantID].Stats[stat], nil
}

// Name falls back to the participant ID.
func (p *Profiles) Name(ctx context.Context, participantID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if profile, ok := p.profiles[participantID]; ok && profile.Name != "" {
		return profile.Name, nil
	}
	return participantID, nil
}

// Ledger is an in-memory Wallet.
type Ledger struct {
	*Profiles
	mu       sync.Mutex
	balances map[string]int
}

func NewLedger(profiles *Profiles) *Ledger {
	if profiles == nil {
		profiles = NewProfiles()
	}
	return &Ledger{
		Profiles: profiles,
		balances: make(map[string]int),
	}
}

// Fund sets a wallet's balance.
func (l *Ledger) Fund(walletID string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[walletID] = amount
}

func (l *Ledger) Balance(walletID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[walletID]
}

func (l *Ledger) CanAfford(ctx context.Context, walletID string, amount int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[walletID] >= amount, nil
}

func (l *Ledger) Deduct(ctx context.Context, walletID string, amount int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[walletID] < amount {
		return false, nil
	}
	l.balances[walletID] -= amount
	return true, nil
}

func (l *Ledger) PayOut(ctx context.Context, walletIDs []string, amountEach int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range walletIDs {
		l.balances[id] += amountEach
	}
	return nil
}

// RepositoryLedger keeps balances and character sheets in the durable
// repository. Profiles caches the sheets it has loaded or written.
type RepositoryLedger struct {
	profiles   *Profiles
	repository repositories.Repository
}

var (
	_ Wallet   = &RepositoryLedger{}
	_ Accounts = &RepositoryLedger{}
)

func NewRepositoryLedger(repository repositories.Repository, profiles *Profiles) *RepositoryLedger {
	if profiles == nil {
		profiles = NewProfiles()
	}
	return &RepositoryLedger{
		profiles:   profiles,
		repository: repository,
	}
}

func (l *RepositoryLedger) CanAfford(ctx context.Context, walletID string, amount int) (bool, error) {
	balance, err := l.Balance(ctx, walletID)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (l *RepositoryLedger) Deduct(ctx context.Context, walletID string, amount int) (bool, error) {
	ok, err := l.repository.DebitBalance(ctx, walletID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit balance: %v", err)
	}
	return ok, nil
}

func (l *RepositoryLedger) PayOut(ctx context.Context, walletIDs []string, amountEach int) error {
	if len(walletIDs) == 0 || amountEach <= 0 {
		return nil
	}
	if err := l.repository.CreditBalances(ctx, walletIDs, amountEach); err != nil {
		return fmt.Errorf("failed to credit balances: %v", err)
	}
	return nil
}

// Balance is 0 for wallets that were never funded.
func (l *RepositoryLedger) Balance(ctx context.Context, walletID string) (int, error) {
	balance, err := l.repository.LoadBalance(ctx, walletID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load balance: %v", err)
	}
	return balance.Balance, nil
}

// Fund sets a wallet's balance.
func (l *RepositoryLedger) Fund(ctx context.Context, walletID string, amount int) error {
	if walletID == "" {
		return fmt.Errorf("wallet id is required")
	}
	if amount < 0 {
		return fmt.Errorf("balance cannot be negative")
	}
	if err := l.repository.SetBalance(ctx, walletID, amount); err != nil {
		return fmt.Errorf("failed to set balance: %v", err)
	}
	return nil
}

// Profile returns an empty profile for participants without a sheet.
func (l *RepositoryLedger) Profile(ctx context.Context, participantID string) (Profile, error) {
	if profile, ok := l.profiles.Get(participantID); ok {
		return profile, nil
	}
	character, err := l.repository.LoadCharacter(ctx, participantID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("failed to load character: %v", err)
	}
	profile := Profile{Name: character.Name, Stats: character.Stats}
	l.profiles.Set(participantID, profile)
	return profile, nil
}

func (l *RepositoryLedger) SetProfile(ctx context.Context, participantID string, profile Profile) error {
	if participantID == "" {
		return fmt.Errorf("participant id is required")
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	profile.Stats = maps.Clone(profile.Stats)
	if err := l.repository.SaveCharacter(ctx, &models.Character{
		ParticipantID: participantID,
		Name:          profile.Name,
		Stats:         profile.Stats,
	}); err != nil {
		return fmt.Errorf("failed to save character: %v", err)
	}
	l.profiles.Set(participantID, profile)
	return nil
}

func (l *RepositoryLedger) StatModifier(ctx context.Context, participantID string, stat string) (int, error) {
	profile, err := l.Profile(ctx, participantID)
	if err != nil {
		return 0, err
	}
	return profile.Stats[stat], nil
}

// Name falls back to the participant ID.
func (l *RepositoryLedger) Name(ctx context.Context, participantID string) (string, error) {
	profile, err := l.Profile(ctx, participantID)
	if err != nil {
		return "", err
	}
	if profile.Name == "" {
		return participantID, nil
	}
	return profile.Name, nil
}
