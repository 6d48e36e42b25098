package wallet

import (
	"context"
	"testing"

	"github.com/cbodonnell/twentyone/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(nil)
	l.Fund("a", 10)

	ok, err := l.CanAfford(ctx, "a", 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Deduct(ctx, "a", 11)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 10, l.Balance("a"))

	ok, err = l.Deduct(ctx, "a", 4)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.PayOut(ctx, []string{"a", "b"}, 5))
	assert.Equal(t, 11, l.Balance("a"))
	assert.Equal(t, 5, l.Balance("b"))
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	p := NewProfiles()
	p.Set("a", Profile{Name: "Alice", Stats: map[string]int{StatStrength: 3}})

	name, err := p.Name(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	name, err = p.Name(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", name)

	mod, err := p.StatModifier(ctx, "a", StatStrength)
	require.NoError(t, err)
	assert.Equal(t, 3, mod)

	mod, err = p.StatModifier(ctx, "a", StatWisdom)
	require.NoError(t, err)
	assert.Equal(t, 0, mod)
}

func TestRepositoryLedger(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	require.NoError(t, repo.SetBalance(ctx, "a", 10))
	l := NewRepositoryLedger(repo, nil)

	ok, err := l.CanAfford(ctx, "a", 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.CanAfford(ctx, "missing", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Deduct(ctx, "a", 5)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.PayOut(ctx, []string{"a"}, 7))
	balance, err := repo.LoadBalance(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 12, balance.Balance)
}

func TestRepositoryLedger_Accounts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	l := NewRepositoryLedger(repo, nil)

	balance, err := l.Balance(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, l.Fund(ctx, "a", 50))
	assert.Error(t, l.Fund(ctx, "a", -1))
	ok, err := l.CanAfford(ctx, "a", 50)
	require.NoError(t, err)
	assert.True(t, ok)

	name, err := l.Name(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", name)

	require.NoError(t, l.SetProfile(ctx, "a", Profile{Name: "Alice", Stats: map[string]int{StatSleightOfHand: 4}}))
	mod, err := l.StatModifier(ctx, "a", StatSleightOfHand)
	require.NoError(t, err)
	assert.Equal(t, 4, mod)

	// a fresh ledger reads the sheet back from the repository
	reloaded := NewRepositoryLedger(repo, nil)
	name, err = reloaded.Name(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
	mod, err = reloaded.StatModifier(ctx, "a", StatSleightOfHand)
	require.NoError(t, err)
	assert.Equal(t, 4, mod)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		stats   map[string]int
		wantErr bool
	}{
		{name: "empty"},
		{name: "known stats", stats: map[string]int{StatStrength: MaxStatModifier, StatWisdom: MinStatModifier}},
		{name: "unknown stat", stats: map[string]int{"luck": 1}, wantErr: true},
		{name: "too high", stats: map[string]int{StatInsight: MaxStatModifier + 1}, wantErr: true},
		{name: "too low", stats: map[string]int{StatInsight: MinStatModifier - 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Profile{Stats: tt.stats}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
