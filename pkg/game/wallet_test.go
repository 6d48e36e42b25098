package game

import (
	"context"
	"errors"
	"testing"

	"github.com/cbodonnell/twentyone/pkg/dice"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/twentyone/mocks/github.com/cbodonnell/twentyone/pkg/wallet"
)

func newWalletFaultTable(t *testing.T, w *mocks.Wallet) (*GameManager, *recordingSink, int64) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store := state.NewStore(state.NewStoreOptions{Settings: state.NewMemorySettings(), Authority: authority})
	go store.Start(ctx)

	gs, err := store.Update(ctx, authority, state.Patch{
		state.ReplaceTurnOrder([]string{"a", "b"}),
		state.ReplacePlayers(map[string]types.Player{"a": {Name: "A"}, "b": {Name: "B"}}),
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	gm := NewGameManager(NewGameManagerOptions{
		State:     store,
		Authority: authority,
		Wallet:    w,
		Roller:    dice.NewScriptedRoller(),
		Sink:      sink,
		Ante:      5,
	})
	return gm, sink, gs.Revision
}

func TestStartRound_WalletFaults(t *testing.T) {
	tests := []struct {
		name   string
		expect func(w *mocks.Wallet)
	}{
		{
			name: "funds check fails",
			expect: func(w *mocks.Wallet) {
				w.EXPECT().CanAfford(mock.Anything, "a", 5).Return(false, errors.New("connection reset"))
			},
		},
		{
			name: "second deduction fails and the first is refunded",
			expect: func(w *mocks.Wallet) {
				w.EXPECT().CanAfford(mock.Anything, mock.Anything, 5).Return(true, nil)
				w.EXPECT().Deduct(mock.Anything, "a", 5).Return(true, nil)
				w.EXPECT().Deduct(mock.Anything, "b", 5).Return(false, errors.New("connection reset"))
				w.EXPECT().PayOut(mock.Anything, []string{"a"}, 5).Return(nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mocks.NewWallet(t)
			tt.expect(w)
			gm, sink, revision := newWalletFaultTable(t, w)

			_, err := gm.StartRound(context.Background(), authority)
			assert.ErrorContains(t, err, "connection reset")

			gs, err := gm.State(context.Background())
			require.NoError(t, err)
			assert.Equal(t, revision, gs.Revision)
			assert.Equal(t, types.StatusLobby, gs.Status)
			assert.Empty(t, sink.all())
		})
	}
}
