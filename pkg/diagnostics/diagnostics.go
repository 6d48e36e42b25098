// Package diagnostics inspects a game state snapshot for structural
// problems. It never changes state and its answers are advisory.
package diagnostics

import (
	"fmt"
	"slices"
	"sort"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one detected problem.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// Limits are the caps the snapshot is checked against. Zero uses the defaults.
type Limits struct {
	HistoryCap    int
	PrivateLogCap int
}

// Validate reports every structural problem found in gs, sorted by field.
func Validate(gs *types.GameState, limits Limits) []Issue {
	if gs == nil {
		return []Issue{{Severity: SeverityError, Field: "state", Message: "state is missing"}}
	}
	if limits.HistoryCap == 0 {
		limits.HistoryCap = constants.HistoryCap
	}
	if limits.PrivateLogCap == 0 {
		limits.PrivateLogCap = constants.PrivateLogCap
	}
	v := &validator{gs: gs}
	v.top(limits)
	v.players()
	v.table()
	sort.SliceStable(v.issues, func(i, j int) bool { return v.issues[i].Field < v.issues[j].Field })
	return v.issues
}

type validator struct {
	gs     *types.GameState
	issues []Issue
}

func (v *validator) errorf(field, format string, args ...interface{}) {
	v.issues = append(v.issues, Issue{Severity: SeverityError, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(field, format string, args ...interface{}) {
	v.issues = append(v.issues, Issue{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) top(limits Limits) {
	gs := v.gs
	if !gs.Status.Valid() {
		v.errorf("status", "unknown status %q", gs.Status)
	}
	if gs.Revision < 0 {
		v.errorf("revision", "negative revision %d", gs.Revision)
	}
	if gs.Pot < 0 {
		v.errorf("pot", "negative pot %d", gs.Pot)
	}
	if gs.Status == types.StatusLobby && gs.Pot != 0 {
		v.warnf("pot", "lobby holds a pot of %d", gs.Pot)
	}
	if len(gs.History) > limits.HistoryCap {
		v.errorf("history", "%d entries exceed the cap of %d", len(gs.History), limits.HistoryCap)
	}
	for id, entries := range gs.PrivateLogs {
		if len(entries) > limits.PrivateLogCap {
			v.errorf("privateLogs."+id, "%d entries exceed the cap of %d", len(entries), limits.PrivateLogCap)
		}
	}
	for id, balance := range gs.NPCWallets {
		if balance < 0 {
			v.errorf("npcWallets."+id, "negative balance %d", balance)
		}
	}
	seen := map[string]bool{}
	for i, id := range gs.TurnOrder {
		if id == "" {
			v.errorf("turnOrder", "empty id at seat %d", i)
		}
		if seen[id] {
			v.errorf("turnOrder", "%s is seated twice", id)
		}
		seen[id] = true
	}
}

func (v *validator) players() {
	gs := v.gs
	for _, id := range gs.TurnOrder {
		if _, ok := gs.Players[id]; !ok {
			v.warnf("players", "%s is seated without a profile", id)
		}
	}
	for id := range gs.Players {
		if !gs.IsSeated(id) {
			v.warnf("players", "%s has a profile but no seat", id)
		}
	}
	for id := range gs.Autoplay {
		if !gs.IsSeated(id) {
			v.warnf("autoplay", "%s is not seated", id)
		}
	}
}

func (v *validator) known(id string) bool {
	if v.gs.IsSeated(id) {
		return true
	}
	_, npc := v.gs.NPCWallets[id]
	return npc
}

// checkKeys flags per-player map keys that belong to nobody at the table.
func checkKeys[V any](v *validator, field string, m map[string]V) {
	for id := range m {
		if !v.known(id) {
			v.errorf("tableData."+field, "%s is not at the table", id)
		}
	}
}

func (v *validator) table() {
	gs := v.gs
	td := gs.TableData

	checkKeys(v, "totals", td.Totals)
	checkKeys(v, "visibleTotals", td.VisibleTotals)
	checkKeys(v, "holds", td.Holds)
	checkKeys(v, "busts", td.Busts)
	checkKeys(v, "rolls", td.Rolls)
	checkKeys(v, "folded", td.Folded)
	checkKeys(v, "hasActed", td.HasActed)
	checkKeys(v, "playerHeat", td.PlayerHeat)
	checkKeys(v, "cheaters", td.Cheaters)
	checkKeys(v, "goadBackfire", td.GoadBackfire)
	checkKeys(v, "usedSkills", td.UsedSkills)
	checkKeys(v, "usedDice", td.UsedDice)

	if !td.Phase.Valid() {
		v.errorf("tableData.phase", "unknown phase %q", td.Phase)
	}
	if !td.GameMode.Valid() {
		v.errorf("tableData.gameMode", "unknown game mode %q", td.GameMode)
	}
	if td.SideBetRound != 0 && td.SideBetRound != 1 && td.SideBetRound != 2 {
		v.errorf("tableData.sideBetRound", "side bet round %d", td.SideBetRound)
	}

	if cp := td.CurrentPlayer; cp != "" {
		switch {
		case !gs.IsSeated(cp):
			v.errorf("tableData.currentPlayer", "%s is not seated", cp)
		case td.Holds[cp] || td.Busts[cp] || td.Folded[cp]:
			v.errorf("tableData.currentPlayer", "%s can no longer act", cp)
		}
	} else if gs.Status == types.StatusPlaying && td.Phase != types.PhaseCut {
		v.warnf("tableData.currentPlayer", "round in progress without a current player")
	}

	allowed := td.GameMode.AllowedDice()
	for id, rolls := range td.Rolls {
		total := 0
		for i, roll := range rolls {
			if !slices.Contains(allowed, roll.Die) {
				v.errorf("tableData.rolls."+id, "die %d is a d%d, not allowed in %s", i, roll.Die, td.GameMode)
			}
			if roll.Result < 1 || roll.Result > roll.Die {
				v.errorf("tableData.rolls."+id, "die %d shows %d on a d%d", i, roll.Result, roll.Die)
			}
			total += roll.Result
		}
		if total != td.Totals[id] {
			v.errorf("tableData.totals."+id, "total %d does not match dice %d", td.Totals[id], total)
		}
		busted := total > constants.TargetTotal
		switch {
		case busted && !td.Busts[id]:
			v.errorf("tableData.busts."+id, "total %d is over %d but not marked bust", total, constants.TargetTotal)
		case !busted && td.Busts[id]:
			v.errorf("tableData.busts."+id, "marked bust at total %d", total)
		}
	}

	if p := td.PendingBumpRetaliation; p != nil {
		if p.AttackerID == p.TargetID {
			v.errorf("tableData.pendingBumpRetaliation", "attacker and target are both %s", p.AttackerID)
		}
		if !gs.IsSeated(p.AttackerID) || !gs.IsSeated(p.TargetID) {
			v.errorf("tableData.pendingBumpRetaliation", "references someone not seated")
		}
	}
	if td.TheCutPlayer != "" && !gs.IsSeated(td.TheCutPlayer) {
		v.errorf("tableData.theCutPlayer", "%s is not seated", td.TheCutPlayer)
	}
	if td.Phase == types.PhaseCut && td.TheCutPlayer == "" {
		v.errorf("tableData.theCutPlayer", "cut phase without a cut player")
	}
}
