package state

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/tabledata"
)

// Limits bounds the append-only lists of the document.
type Limits struct {
	HistoryCap    int
	PrivateLogCap int
}

// Op is one explicit change to a top-level field of the game state.
type Op interface {
	Kind() string
	apply(gs *types.GameState, limits Limits) error
}

// Patch is an ordered list of ops applied atomically. An empty patch is a no-op.
type Patch []Op

// Kinds lists the op kinds, for logging.
func (p Patch) Kinds() []string {
	kinds := make([]string, 0, len(p))
	for _, op := range p {
		kinds = append(kinds, op.Kind())
	}
	return kinds
}

func (p Patch) apply(gs *types.GameState, limits Limits) error {
	for _, op := range p {
		if op == nil {
			return fmt.Errorf("nil op in patch")
		}
		if err := op.apply(gs, limits); err != nil {
			return fmt.Errorf("failed to apply %s: %v", op.Kind(), err)
		}
	}
	return nil
}

type setStatus struct{ status types.Status }

func SetStatus(status types.Status) Op { return setStatus{status: status} }

func (o setStatus) Kind() string { return "setStatus" }

func (o setStatus) apply(gs *types.GameState, _ Limits) error {
	if !o.status.Valid() {
		return fmt.Errorf("invalid status %q", o.status)
	}
	gs.Status = o.status
	return nil
}

type setPot struct{ pot int }

func SetPot(pot int) Op { return setPot{pot: pot} }

func (o setPot) Kind() string { return "setPot" }

func (o setPot) apply(gs *types.GameState, _ Limits) error {
	if o.pot < 0 {
		return fmt.Errorf("negative pot %d", o.pot)
	}
	gs.Pot = o.pot
	return nil
}

type setTurnIndex struct{ index int }

func SetTurnIndex(index int) Op { return setTurnIndex{index: index} }

func (o setTurnIndex) Kind() string { return "setTurnIndex" }

func (o setTurnIndex) apply(gs *types.GameState, _ Limits) error {
	gs.TurnIndex = max(o.index, 0)
	return nil
}

type replaceTable struct{ td types.TableData }

// ReplaceTable swaps the whole table sub-document.
func ReplaceTable(td types.TableData) Op { return replaceTable{td: td.Copy()} }

func (o replaceTable) Kind() string { return "replaceTable" }

func (o replaceTable) apply(gs *types.GameState, _ Limits) error {
	gs.TableData = o.td.Copy()
	return nil
}

type mutateTable struct{ fn func(td *types.TableData) }

// MutateTable edits the table sub-document in place. fn receives a private
// copy and must not retain it.
func MutateTable(fn func(td *types.TableData)) Op { return mutateTable{fn: fn} }

func (o mutateTable) Kind() string { return "mutateTable" }

func (o mutateTable) apply(gs *types.GameState, _ Limits) error {
	if o.fn == nil {
		return fmt.Errorf("nil table mutation")
	}
	o.fn(&gs.TableData)
	return nil
}

type mergeTableRaw struct{ partial map[string]interface{} }

// MergeTableRaw overlays a loosely-typed partial table document. It accepts
// flat and grouped keys.
func MergeTableRaw(partial map[string]interface{}) Op { return mergeTableRaw{partial: partial} }

func (o mergeTableRaw) Kind() string { return "mergeTableRaw" }

func (o mergeTableRaw) apply(gs *types.GameState, _ Limits) error {
	merged, err := tabledata.Merge(gs.TableData, o.partial)
	if err != nil {
		return err
	}
	gs.TableData = merged
	return nil
}

type replacePlayers struct{ players map[string]types.Player }

func ReplacePlayers(players map[string]types.Player) Op {
	return replacePlayers{players: maps.Clone(players)}
}

func (o replacePlayers) Kind() string { return "replacePlayers" }

func (o replacePlayers) apply(gs *types.GameState, _ Limits) error {
	gs.Players = maps.Clone(o.players)
	if gs.Players == nil {
		gs.Players = make(map[string]types.Player)
	}
	return nil
}

type replaceTurnOrder struct{ order []string }

func ReplaceTurnOrder(order []string) Op { return replaceTurnOrder{order: slices.Clone(order)} }

func (o replaceTurnOrder) Kind() string { return "replaceTurnOrder" }

func (o replaceTurnOrder) apply(gs *types.GameState, _ Limits) error {
	seen := make(map[string]bool, len(o.order))
	for _, id := range o.order {
		if id == "" || seen[id] {
			return fmt.Errorf("invalid turn order entry %q", id)
		}
		seen[id] = true
	}
	gs.TurnOrder = slices.Clone(o.order)
	if gs.TurnOrder == nil {
		gs.TurnOrder = []string{}
	}
	return nil
}

type replaceNPCWallets struct{ wallets map[string]int }

func ReplaceNPCWallets(wallets map[string]int) Op {
	return replaceNPCWallets{wallets: maps.Clone(wallets)}
}

func (o replaceNPCWallets) Kind() string { return "replaceNPCWallets" }

func (o replaceNPCWallets) apply(gs *types.GameState, _ Limits) error {
	for id, balance := range o.wallets {
		if balance < 0 {
			return fmt.Errorf("negative npc wallet for %s", id)
		}
	}
	gs.NPCWallets = maps.Clone(o.wallets)
	if gs.NPCWallets == nil {
		gs.NPCWallets = make(map[string]int)
	}
	return nil
}

type replaceAutoplay struct{ autoplay map[string]types.Autoplay }

func ReplaceAutoplay(autoplay map[string]types.Autoplay) Op {
	return replaceAutoplay{autoplay: maps.Clone(autoplay)}
}

func (o replaceAutoplay) Kind() string { return "replaceAutoplay" }

func (o replaceAutoplay) apply(gs *types.GameState, _ Limits) error {
	gs.Autoplay = make(map[string]types.Autoplay, len(o.autoplay))
	for id, a := range o.autoplay {
		if !a.Strategy.Valid() {
			a.Strategy = types.StrategyBalanced
		}
		if !a.Difficulty.Valid() {
			a.Difficulty = types.DifficultyNormal
		}
		gs.Autoplay[id] = a
	}
	return nil
}

type replacePrivateLogs struct {
	logs map[string][]types.PrivateLogEntry
}

func ReplacePrivateLogs(logs map[string][]types.PrivateLogEntry) Op {
	c := make(map[string][]types.PrivateLogEntry, len(logs))
	for id, entries := range logs {
		c[id] = slices.Clone(entries)
	}
	return replacePrivateLogs{logs: c}
}

func (o replacePrivateLogs) Kind() string { return "replacePrivateLogs" }

func (o replacePrivateLogs) apply(gs *types.GameState, limits Limits) error {
	gs.PrivateLogs = make(map[string][]types.PrivateLogEntry, len(o.logs))
	for id, entries := range o.logs {
		gs.PrivateLogs[id] = trimFront(slices.Clone(entries), limits.PrivateLogCap)
	}
	return nil
}

type appendHistory struct{ entries []types.HistoryEntry }

// AppendHistory adds entries to the history, evicting the oldest beyond the cap.
func AppendHistory(entries ...types.HistoryEntry) Op {
	return appendHistory{entries: entries}
}

func (o appendHistory) Kind() string { return "appendHistory" }

func (o appendHistory) apply(gs *types.GameState, limits Limits) error {
	for _, entry := range o.entries {
		gs.History = append(gs.History, entry.Copy())
	}
	gs.History = trimFront(gs.History, limits.HistoryCap)
	return nil
}

type appendPrivateLog struct {
	recipientID string
	entries     []types.PrivateLogEntry
}

// AppendPrivateLog adds entries to one participant's private log, evicting the
// oldest beyond the cap.
func AppendPrivateLog(recipientID string, entries ...types.PrivateLogEntry) Op {
	return appendPrivateLog{recipientID: recipientID, entries: entries}
}

func (o appendPrivateLog) Kind() string { return "appendPrivateLog" }

func (o appendPrivateLog) apply(gs *types.GameState, limits Limits) error {
	if o.recipientID == "" {
		return fmt.Errorf("private log entry without recipient")
	}
	if gs.PrivateLogs == nil {
		gs.PrivateLogs = make(map[string][]types.PrivateLogEntry)
	}
	logs := append(gs.PrivateLogs[o.recipientID], o.entries...)
	gs.PrivateLogs[o.recipientID] = trimFront(logs, limits.PrivateLogCap)
	return nil
}

func trimFront[T any](items []T, limit int) []T {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return slices.Clone(items[len(items)-limit:])
}
