package diagnostics

import (
	"testing"

	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func validState() *types.GameState {
	gs := types.NewGameState()
	gs.Status = types.StatusPlaying
	gs.Pot = 20
	gs.TurnOrder = []string{"a", "b"}
	gs.Players["a"] = types.Player{Name: "A"}
	gs.Players["b"] = types.Player{Name: "B"}
	td := &gs.TableData
	td.Phase = types.PhaseBetting
	td.CurrentPlayer = "a"
	td.Rolls["a"] = []types.Roll{{Die: 6, Result: 3}, {Die: 20, Result: 15, Public: true}}
	td.Totals["a"] = 18
	td.VisibleTotals["a"] = 15
	return gs
}

func fields(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(gs *types.GameState)
		want   []string
	}{
		{
			name:   "valid",
			mutate: func(gs *types.GameState) {},
			want:   []string{},
		},
		{
			name:   "stranger in a per-player map",
			mutate: func(gs *types.GameState) { gs.TableData.Holds["z"] = true },
			want:   []string{"tableData.holds"},
		},
		{
			name:   "current player holds",
			mutate: func(gs *types.GameState) { gs.TableData.Holds["a"] = true },
			want:   []string{"tableData.currentPlayer"},
		},
		{
			name: "illegal die",
			mutate: func(gs *types.GameState) {
				gs.TableData.Rolls["a"][0] = types.Roll{Die: 12, Result: 3}
			},
			want: []string{"tableData.rolls.a"},
		},
		{
			name: "unmarked bust",
			mutate: func(gs *types.GameState) {
				gs.TableData.Rolls["a"][0].Result = 6
				gs.TableData.Rolls["a"] = append(gs.TableData.Rolls["a"], types.Roll{Die: 4, Result: 4, Public: true})
				gs.TableData.Totals["a"] = 25
			},
			want: []string{"tableData.busts.a"},
		},
		{
			name: "bust under the target",
			mutate: func(gs *types.GameState) {
				gs.TableData.CurrentPlayer = "b"
				gs.TableData.Busts["a"] = true
			},
			want: []string{"tableData.busts.a"},
		},
		{
			name: "self retaliation",
			mutate: func(gs *types.GameState) {
				gs.TableData.PendingBumpRetaliation = &types.BumpRetaliation{AttackerID: "a", TargetID: "a"}
			},
			want: []string{"tableData.pendingBumpRetaliation"},
		},
		{
			name:   "over the history cap",
			mutate: func(gs *types.GameState) { gs.History = make([]types.HistoryEntry, 4) },
			want:   []string{"history"},
		},
		{
			name:   "npc purse keys are known",
			mutate: func(gs *types.GameState) { gs.NPCWallets["npc"] = 3; gs.TableData.PlayerHeat["npc"] = 10 },
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := validState()
			tt.mutate(gs)
			assert.Equal(t, tt.want, fields(Validate(gs, Limits{HistoryCap: 3})))
		})
	}
}

func TestValidateNil(t *testing.T) {
	issues := Validate(nil, Limits{})
	assert.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}
