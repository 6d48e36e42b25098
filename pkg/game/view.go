package game

import (
	"slices"

	"github.com/cbodonnell/twentyone/pkg/game/types"
)

// View returns the snapshot as viewerID may see it. The authority sees
// everything. Everyone else loses other players' hidden dice, their own blind
// dice, other players' private logs and skill state, and every trace of a cheat they did not
// make.
func View(gs *types.GameState, viewerID, authority string) *types.GameState {
	if gs == nil {
		return nil
	}
	if viewerID != "" && viewerID == authority {
		return gs
	}
	v := gs.Copy()
	td := &v.TableData

	for id, rolls := range td.Rolls {
		own := id == viewerID
		hidden := 0
		for i, roll := range rolls {
			if roll.Public || (own && !roll.Blind) {
				continue
			}
			hidden += roll.Result
			rolls[i].Result = 0
		}
		if own {
			td.Totals[id] -= hidden
		} else {
			td.Totals[id] = td.VisibleTotals[id]
		}
	}

	keepOnly(td.Cheaters, viewerID)
	keepOnly(td.PlayerHeat, viewerID)
	keepOnly(td.HunchRolls, viewerID)
	keepOnly(td.HunchPrediction, viewerID)
	keepOnly(td.HunchExact, viewerID)
	keepOnly(td.HunchLocked, viewerID)
	keepOnly(td.HunchLockedDie, viewerID)
	keepOnly(v.PrivateLogs, viewerID)

	// cheating leaves no public trace; a caught cheat is announced instead
	td.CheatsThisRound = 0
	for id, used := range td.UsedSkills {
		if id == viewerID || !used[SkillCheat] {
			continue
		}
		delete(used, SkillCheat)
	}
	if td.CurrentPlayer != viewerID {
		td.SkillUsedThisTurn = false
	}

	// perfect foresight values are the roll the viewer is about to get; the
	// prediction already carries them
	delete(td.HunchRolls, viewerID)

	v.History = slices.DeleteFunc(v.History, func(e types.HistoryEntry) bool {
		return e.Type == "cheat" && e.ActorID != viewerID
	})
	return v
}

func keepOnly[V any](m map[string]V, id string) {
	for k := range m {
		if k != id {
			delete(m, k)
		}
	}
}
