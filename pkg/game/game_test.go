package game

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/cbodonnell/twentyone/pkg/dice"
	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/queue"
	"github.com/cbodonnell/twentyone/pkg/state"
	"github.com/cbodonnell/twentyone/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authority = "gm"

type recordingSink struct {
	mu      sync.Mutex
	effects []effects.Effect
}

func (s *recordingSink) Dispatch(ctx context.Context, effs ...effects.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, effs...)
}

func (s *recordingSink) all() []effects.Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]effects.Effect(nil), s.effects...)
}

type table struct {
	gm     *GameManager
	store  *state.Store
	ledger *wallet.Ledger
	roller *dice.ScriptedRoller
	sink   *recordingSink
}

func newTable(t *testing.T) *table {
	t.Helper()
	store := state.NewStore(state.NewStoreOptions{Settings: state.NewMemorySettings(), Authority: authority})
	ctx, cancel := context.WithCancel(context.Background())
	go store.Start(ctx)
	t.Cleanup(cancel)

	ledger := wallet.NewLedger(nil)
	roller := dice.NewScriptedRoller()
	sink := &recordingSink{}
	gm := NewGameManager(NewGameManagerOptions{
		State:     store,
		Authority: authority,
		Wallet:    ledger,
		Roller:    roller,
		Sink:      sink,
		Ante:      5,
	})
	return &table{gm: gm, store: store, ledger: ledger, roller: roller, sink: sink}
}

// seat joins players with a funded wallet.
func (tb *table) seat(t *testing.T, funds int, ids ...string) {
	t.Helper()
	for _, id := range ids {
		tb.ledger.Fund(id, funds)
		out, err := tb.gm.JoinTable(context.Background(), id, id, types.Player{Name: strings.ToUpper(id)})
		require.NoError(t, err)
		require.Nil(t, out.Rejection)
	}
}

// seed replaces the table with a round already in progress.
func (tb *table) seed(t *testing.T, pot int, order []string, td types.TableData) *types.GameState {
	t.Helper()
	players := make(map[string]types.Player, len(order))
	for _, id := range order {
		players[id] = types.Player{Name: strings.ToUpper(id)}
	}
	gs, err := tb.store.Update(context.Background(), authority, state.Patch{
		state.ReplaceTurnOrder(order),
		state.ReplacePlayers(players),
		state.SetStatus(types.StatusPlaying),
		state.SetPot(pot),
		state.ReplaceTable(td),
	})
	require.NoError(t, err)
	return gs
}

// bettingTable has a and b in the betting phase with two d6 each, a to act.
func bettingTable() types.TableData {
	td := types.NewTableData()
	td.Phase = types.PhaseBetting
	td.CurrentPlayer = "a"
	td.Rolls["a"] = []types.Roll{{Die: 6, Result: 3}, {Die: 6, Result: 4, Public: true}}
	td.Rolls["b"] = []types.Roll{{Die: 6, Result: 2}, {Die: 6, Result: 5, Public: true}}
	td.Totals["a"], td.VisibleTotals["a"] = 7, 4
	td.Totals["b"], td.VisibleTotals["b"] = 7, 5
	td.PlayerHeat["a"], td.PlayerHeat["b"] = 10, 10
	return td
}

func privateFor(effs []effects.Effect, recipientID string) []effects.Effect {
	var out []effects.Effect
	for _, e := range effs {
		if e.Kind == effects.KindPrivateFeedback && e.RecipientID == recipientID {
			out = append(out, e)
		}
	}
	return out
}

func rejected(t *testing.T, out Outcome, code string) {
	t.Helper()
	require.NotNil(t, out.Rejection)
	assert.Equal(t, code, out.Rejection.Code)
	require.Len(t, out.Effects, 1)
	assert.Equal(t, effects.KindWarning, out.Effects[0].Kind)
}

func TestEndToEndRound(t *testing.T) {
	ctx := context.Background()
	tb := newTable(t)
	tb.seat(t, 100, "a", "b")

	out, err := tb.gm.StartRound(ctx, authority)
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, 20, out.State.Pot)
	assert.Equal(t, types.StatusPlaying, out.State.Status)
	assert.Equal(t, "a", out.State.TableData.CurrentPlayer)
	assert.Equal(t, 95, tb.ledger.Balance("a"))
	assert.Equal(t, 95, tb.ledger.Balance("b"))

	tb.roller.Push(2, 20, 15, 3)
	steps := []struct {
		player string
		die    int
	}{
		{"a", 4}, {"b", 20}, {"a", 20}, {"b", 4},
	}
	for _, step := range steps {
		out, err = tb.gm.SubmitRoll(ctx, step.player, step.die)
		require.NoError(t, err)
		require.Nil(t, out.Rejection, "%s d%d", step.player, step.die)
	}
	td := out.State.TableData
	assert.Equal(t, 17, td.Totals["a"])
	assert.Equal(t, 15, td.VisibleTotals["a"])
	assert.True(t, td.Busts["b"])
	assert.Equal(t, types.PhaseBetting, td.Phase)
	assert.Equal(t, "a", td.CurrentPlayer)

	out, err = tb.gm.Hold(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, types.StatusPayout, out.State.Status)
	assert.Equal(t, 115, tb.ledger.Balance("a"))
	assert.Equal(t, 95, tb.ledger.Balance("b"))
	assert.Equal(t, int64(10), out.State.Revision)
	assert.Equal(t, "payout", out.State.History[len(out.State.History)-1].Type)

	var reveals int
	for _, e := range out.Effects {
		if e.Kind == effects.KindRevealRoll {
			reveals++
		}
	}
	assert.Equal(t, 4, reveals)

	out, err = tb.gm.ReturnToLobby(ctx, authority)
	require.NoError(t, err)
	assert.Equal(t, types.StatusLobby, out.State.Status)
	assert.Equal(t, 0, out.State.Pot)
	assert.Empty(t, out.State.TableData.Rolls)
}

func TestSettlement(t *testing.T) {
	tests := []struct {
		name    string
		pot     int
		totals  map[string]int
		busts   []string
		folded  []string
		want    map[string]int
		winners int
	}{
		{
			name:    "highest under 21 takes the pot",
			pot:     100,
			totals:  map[string]int{"a": 19, "b": 21, "c": 23},
			busts:   []string{"c"},
			want:    map[string]int{"a": 0, "b": 100, "c": 0},
			winners: 1,
		},
		{
			name:    "ties split and the remainder is absorbed",
			pot:     101,
			totals:  map[string]int{"a": 20, "b": 20},
			want:    map[string]int{"a": 50, "b": 50},
			winners: 2,
		},
		{
			name:    "folded players never win",
			pot:     40,
			totals:  map[string]int{"a": 21, "b": 12},
			folded:  []string{"a"},
			want:    map[string]int{"a": 0, "b": 40},
			winners: 1,
		},
		{
			name:    "nobody standing",
			pot:     40,
			totals:  map[string]int{"a": 22, "b": 25},
			busts:   []string{"a", "b"},
			want:    map[string]int{"a": 0, "b": 0},
			winners: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTable(t)
			td := types.NewTableData()
			td.Phase = types.PhaseBetting
			var order []string
			for _, id := range []string{"a", "b", "c"} {
				if total, ok := tt.totals[id]; ok {
					order = append(order, id)
					td.Totals[id] = total
					td.Holds[id] = true
				}
			}
			for _, id := range tt.busts {
				td.Busts[id] = true
				td.Holds[id] = false
			}
			for _, id := range tt.folded {
				td.Folded[id] = true
			}
			tb.seed(t, tt.pot, order, td)

			out, err := tb.gm.RevealResults(context.Background(), authority)
			require.NoError(t, err)
			require.Nil(t, out.Rejection)
			assert.Equal(t, types.StatusPayout, out.State.Status)
			for id, balance := range tt.want {
				assert.Equal(t, balance, tb.ledger.Balance(id), id)
			}
			last := out.State.History[len(out.State.History)-1]
			assert.Equal(t, "payout", last.Type)
			assert.Len(t, last.Players, tt.winners)
		})
	}
}

func TestRevealResults_OnlyAuthorityForces(t *testing.T) {
	tb := newTable(t)
	before := tb.seed(t, 20, []string{"a", "b"}, bettingTable())

	out, err := tb.gm.RevealResults(context.Background(), "a")
	require.NoError(t, err)
	rejected(t, out, CodeInvalidRequest)
	assert.Equal(t, before.Revision, out.State.Revision)
}

func TestStartRound(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient funds aborts without deducting", func(t *testing.T) {
		tb := newTable(t)
		tb.seat(t, 100, "a")
		tb.seat(t, 2, "b")
		out, err := tb.gm.StartRound(ctx, authority)
		require.NoError(t, err)
		rejected(t, out, CodeInsufficientFunds)
		assert.Equal(t, types.StatusLobby, out.State.Status)
		assert.Equal(t, 100, tb.ledger.Balance("a"))
		assert.Equal(t, 2, tb.ledger.Balance("b"))
		assert.Equal(t, []effects.Effect{out.Effects[0]}, tb.sink.all()[len(tb.sink.all())-1:])
	})

	t.Run("the house is seated but never pays", func(t *testing.T) {
		tb := newTable(t)
		tb.seat(t, 100, "a", "b")
		_, err := tb.gm.JoinTable(ctx, authority, authority, types.Player{Name: "House"})
		require.NoError(t, err)
		out, err := tb.gm.StartRound(ctx, authority)
		require.NoError(t, err)
		require.Nil(t, out.Rejection)
		assert.Equal(t, 20, out.State.Pot)
		assert.Equal(t, 0, tb.ledger.Balance(authority))
	})

	t.Run("npc seats pay from their purse", func(t *testing.T) {
		tb := newTable(t)
		tb.seat(t, 100, "a")
		_, err := tb.gm.JoinTable(ctx, authority, "npc", types.Player{Name: "Grub", NPCActorID: "goblin"})
		require.NoError(t, err)
		_, err = tb.gm.SetNPCWallet(ctx, authority, "npc", 12)
		require.NoError(t, err)
		out, err := tb.gm.StartRound(ctx, authority)
		require.NoError(t, err)
		require.Nil(t, out.Rejection)
		assert.Equal(t, 7, out.State.NPCWallets["npc"])
		assert.Equal(t, 20, out.State.Pot)
	})

	t.Run("players cannot start a round", func(t *testing.T) {
		tb := newTable(t)
		tb.seat(t, 100, "a")
		out, err := tb.gm.StartRound(ctx, "a")
		require.NoError(t, err)
		rejected(t, out, CodeInvalidRequest)
	})
}

func TestSubmitRoll_Gates(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		player string
		die    int
		mutate func(td *types.TableData)
		code   string
	}{
		{name: "not your turn", player: "b", die: 6, code: CodeNotYourTurn},
		{name: "illegal die", player: "a", die: 12, code: CodeInvalidDie},
		{name: "not seated", player: "z", die: 6, code: CodeNotSeated},
		{
			name: "pending retaliation", player: "a", die: 6,
			mutate: func(td *types.TableData) {
				td.PendingBumpRetaliation = &types.BumpRetaliation{AttackerID: "a", TargetID: "b"}
			},
			code: CodePendingRetaliation,
		},
		{
			name: "cut in progress", player: "a", die: 6,
			mutate: func(td *types.TableData) { td.Phase = types.PhaseCut; td.TheCutPlayer = "a" },
			code:   CodeWrongPhase,
		},
		{
			name: "goblin die already used", player: "a", die: 6,
			mutate: func(td *types.TableData) {
				td.GameMode = types.GameModeGoblin
				td.UsedDice["a"] = []int{6}
			},
			code: CodeInvalidDie,
		},
		{
			name: "hunch locked die", player: "a", die: 6,
			mutate: func(td *types.TableData) { td.HunchLockedDie["a"] = 20 },
			code:   CodeInvalidDie,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTable(t)
			td := bettingTable()
			if tt.mutate != nil {
				tt.mutate(&td)
			}
			before := tb.seed(t, 20, []string{"a", "b"}, td)
			out, err := tb.gm.SubmitRoll(ctx, tt.player, tt.die)
			require.NoError(t, err)
			rejected(t, out, tt.code)
			assert.Equal(t, before.Revision, out.State.Revision)
			assert.Len(t, out.State.History, len(before.History))
		})
	}
}

func TestHold_Gates(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		mutate func(td *types.TableData)
		code   string
	}{
		{
			name:   "opening phase",
			mutate: func(td *types.TableData) { td.Phase = types.PhaseOpening },
			code:   CodeWrongPhase,
		},
		{
			name:   "too few dice",
			mutate: func(td *types.TableData) { td.Rolls["a"] = td.Rolls["a"][:1] },
			code:   CodeMustRoll,
		},
		{
			name: "goaded",
			mutate: func(td *types.TableData) {
				td.GoadBackfire["a"] = types.GoadObligation{MustRoll: true, GoadedBy: "b", CanPayToResist: true, ResistCost: 5}
			},
			code: CodeMustRoll,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTable(t)
			td := bettingTable()
			tt.mutate(&td)
			tb.seed(t, 20, []string{"a", "b"}, td)
			out, err := tb.gm.Hold(ctx, "a")
			require.NoError(t, err)
			rejected(t, out, tt.code)
		})
	}
}

// TestRoundInvariants plays whole rounds with seeded dice and checks the turn
// and bust rules after every action.
func TestRoundInvariants(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 20; seed++ {
		store := state.NewStore(state.NewStoreOptions{Settings: state.NewMemorySettings(), Authority: authority})
		runCtx, cancel := context.WithCancel(ctx)
		go store.Start(runCtx)

		ledger := wallet.NewLedger(nil)
		gm := NewGameManager(NewGameManagerOptions{
			State:     store,
			Authority: authority,
			Wallet:    ledger,
			Roller:    dice.NewSeededRoller(seed),
		})
		order := []string{"a", "b", "c"}
		for _, id := range order {
			ledger.Fund(id, 100)
			_, err := gm.JoinTable(ctx, id, id, types.Player{Name: id})
			require.NoError(t, err)
		}
		out, err := gm.StartRound(ctx, authority)
		require.NoError(t, err)

		for i := 0; i < 100 && out.State.Status == types.StatusPlaying; i++ {
			td := out.State.TableData
			current := td.CurrentPlayer
			switch {
			case td.Phase == types.PhaseCut:
				out, err = gm.TheCut(ctx, td.TheCutPlayer, seed%2 == 0)
			case td.Phase == types.PhaseBetting && td.Totals[current] >= 15:
				out, err = gm.Hold(ctx, current)
			default:
				out, err = gm.SubmitRoll(ctx, current, 10)
			}
			require.NoError(t, err)
			require.Nil(t, out.Rejection, "seed %d step %d", seed, i)

			gs := out.State
			if gs.Status != types.StatusPlaying {
				break
			}
			td = gs.TableData
			if td.CurrentPlayer != "" {
				assert.Contains(t, gs.TurnOrder, td.CurrentPlayer)
				assert.False(t, td.Holds[td.CurrentPlayer])
				assert.False(t, td.Busts[td.CurrentPlayer])
			}
			for _, id := range order {
				assert.Equal(t, td.Totals[id] > 21, td.Busts[id], "seed %d player %s", seed, id)
				if td.Busts[id] {
					again, err := gm.SubmitRoll(ctx, id, 10)
					require.NoError(t, err)
					require.NotNil(t, again.Rejection)
					assert.Equal(t, gs.Revision, again.State.Revision)
				}
			}
		}
		assert.Equal(t, types.StatusPayout, out.State.Status, "seed %d", seed)
		cancel()
	}
}

func TestTheCut(t *testing.T) {
	ctx := context.Background()
	tb := newTable(t)
	tb.seat(t, 100, "a", "b")
	_, err := tb.gm.StartRound(ctx, authority)
	require.NoError(t, err)

	tb.roller.Push(3, 4, 2, 5)
	var out Outcome
	for _, id := range []string{"a", "b", "a", "b"} {
		out, err = tb.gm.SubmitRoll(ctx, id, 6)
		require.NoError(t, err)
		require.Nil(t, out.Rejection)
	}
	td := out.State.TableData
	assert.Equal(t, types.PhaseCut, td.Phase)
	assert.Equal(t, "a", td.TheCutPlayer)

	out, err = tb.gm.SubmitRoll(ctx, "a", 6)
	require.NoError(t, err)
	rejected(t, out, CodeWrongPhase)

	out, err = tb.gm.TheCut(ctx, "b", true)
	require.NoError(t, err)
	rejected(t, out, CodeNotYourTurn)

	tb.roller.Push(6)
	out, err = tb.gm.TheCut(ctx, "a", true)
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	td = out.State.TableData
	assert.Equal(t, types.PhaseBetting, td.Phase)
	assert.True(t, td.TheCutUsed)
	assert.Equal(t, "a", td.CurrentPlayer)
	assert.Equal(t, 8, td.Totals["a"])
	assert.Equal(t, 2, td.VisibleTotals["a"])
	require.Len(t, privateFor(out.Effects, "a"), 1)
	assert.Empty(t, privateFor(out.Effects, "b"))
}

func TestFold(t *testing.T) {
	tb := newTable(t)
	tb.seed(t, 20, []string{"a", "b"}, bettingTable())

	out, err := tb.gm.Fold(context.Background(), "a")
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	td := out.State.TableData
	assert.True(t, td.Folded["a"])
	assert.True(t, td.FoldedEarly["a"])
	assert.Equal(t, "b", td.CurrentPlayer)
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	tb := newTable(t)
	tb.ledger.Fund("a", 100)

	out, err := tb.gm.Handle(ctx, "a", ActionJoin, []byte(`{"name":"Alice"}`))
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, "Alice", out.State.Players["a"].Name)

	out, err = tb.gm.Handle(ctx, "a", "dance", nil)
	require.NoError(t, err)
	rejected(t, out, CodeInvalidRequest)

	out, err = tb.gm.Handle(ctx, "a", ActionRoll, []byte(`{"die":`))
	require.NoError(t, err)
	rejected(t, out, CodeInvalidRequest)

	out, err = tb.gm.Handle(ctx, "a", ActionAutoplay, []byte(`{"enabled":true,"strategy":"bully"}`))
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, types.Autoplay{Enabled: true, Strategy: types.StrategyBully, Difficulty: types.DifficultyNormal}, out.State.Autoplay["a"])
}

func TestSubmitThroughQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tb := newTable(t)
	tb.gm.requests = queue.NewInMemoryQueue[*Request](8)
	go tb.gm.Start(ctx)

	payload, err := json.Marshal(JoinPayload{Name: "Bea"})
	require.NoError(t, err)
	out, err := tb.gm.Submit(ctx, "b", ActionJoin, payload)
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	assert.Equal(t, []string{"b"}, out.State.TurnOrder)
}

func TestView(t *testing.T) {
	tb := newTable(t)
	td := bettingTable()
	td.Cheaters["b"] = []types.CheatRecord{{DieIndex: 0}}
	td.Rolls["a"] = append(td.Rolls["a"], types.Roll{Die: 6, Result: 6, Blind: true})
	td.Totals["a"] = 13
	gs := tb.seed(t, 20, []string{"a", "b"}, td)

	view := View(gs, "a", authority)
	assert.Equal(t, 3, view.TableData.Rolls["a"][0].Result)
	assert.Equal(t, 0, view.TableData.Rolls["a"][2].Result)
	assert.Equal(t, 7, view.TableData.Totals["a"])
	assert.Equal(t, 0, view.TableData.Rolls["b"][0].Result)
	assert.Equal(t, 5, view.TableData.Totals["b"])
	assert.NotContains(t, view.TableData.Cheaters, "b")

	assert.Equal(t, 2, gs.TableData.Rolls["b"][0].Result)
	assert.Same(t, gs, View(gs, authority, authority))
}

func TestView_HidesCheats(t *testing.T) {
	ctx := context.Background()
	tb := newTable(t)
	tb.seed(t, 20, []string{"a", "b"}, bettingTable())

	tb.roller.Push(20)
	out, err := tb.gm.Cheat(ctx, "a", nil, 1)
	require.NoError(t, err)
	require.Nil(t, out.Rejection)
	require.Equal(t, 1, out.State.TableData.CheatsThisRound)

	other := View(out.State, "b", authority).TableData
	assert.Zero(t, other.CheatsThisRound)
	assert.False(t, other.SkillUsed("a", SkillCheat))
	assert.False(t, other.SkillUsedThisTurn)
	assert.NotContains(t, other.Cheaters, "a")
	assert.Equal(t, 0, other.Rolls["a"][0].Result)
	assert.Equal(t, 4, other.Rolls["a"][1].Result)
	assert.Equal(t, 4, other.Totals["a"])

	own := View(out.State, "a", authority).TableData
	assert.True(t, own.SkillUsed("a", SkillCheat))
	assert.Equal(t, 4, own.Rolls["a"][0].Result)
	assert.Len(t, own.Cheaters["a"], 1)

	full := View(out.State, authority, authority).TableData
	assert.Equal(t, 1, full.CheatsThisRound)
	assert.True(t, full.SkillUsed("a", SkillCheat))
	assert.True(t, out.State.TableData.SkillUsed("a", SkillCheat), "views never touch the committed state")
}
