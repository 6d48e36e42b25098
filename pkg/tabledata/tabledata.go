// Package tabledata converts loosely-typed table documents into the canonical
// types.TableData and back. Documents may carry the flat field set, the grouped
// views (coreState, skillState, sideBetState, goblinState, cutState) or a
// mixture of both. Flat fields always win over grouped ones.
package tabledata

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/guards"
)

// groupOrder fixes the projection order so the first group carrying a field wins.
var groupOrder = []string{"coreState", "skillState", "sideBetState", "goblinState", "cutState"}

var groups = map[string][]string{
	"coreState": {
		"totals", "visibleTotals", "holds", "busts", "rolls", "folded", "foldedEarly", "hasActed",
		"phase", "gameMode", "currentPlayer", "pendingAction", "pendingBust",
	},
	"skillState": {
		"sloppy", "drinkCount", "cleaningFees", "profiledBy", "playerHeat", "caught", "cheaters",
		"hunchRolls", "hunchPrediction", "hunchExact", "hunchLocked", "hunchLockedDie",
		"goadedThisRound", "goadBackfire", "bumpedThisRound", "usedSkills", "heatDC",
		"cheatsThisRound", "skillUsedThisTurn", "duel", "pendingBumpRetaliation",
	},
	"sideBetState": {"sideBetRound"},
	"goblinState":  {"usedDice", "goblinSetProgress"},
	"cutState":     {"theCutPlayer", "theCutUsed"},
}

// Flatten projects grouped fields onto the flat namespace where the flat
// field is absent. Grouped keys are dropped from the result.
func Flatten(raw map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if _, grouped := groups[k]; grouped {
			continue
		}
		flat[k] = v
	}
	for _, name := range groupOrder {
		group, ok := raw[name].(map[string]interface{})
		if !ok {
			continue
		}
		for _, field := range groups[name] {
			if _, present := flat[field]; present {
				continue
			}
			if v, ok := group[field]; ok {
				flat[field] = v
			}
		}
	}
	return flat
}

// Normalize builds canonical table data from any accepted shape. It never
// fails: unusable values fall back to their defaults.
func Normalize(raw map[string]interface{}) types.TableData {
	flat := Flatten(raw)
	td := types.NewTableData()

	if mode := types.GameMode(guards.NullableString(flat["gameMode"])); mode.Valid() {
		td.GameMode = mode
	}
	if phase := types.Phase(guards.NullableString(flat["phase"])); phase.Valid() {
		td.Phase = phase
	}
	allowed := td.GameMode.AllowedDice()

	td.Totals = intMap(flat["totals"], 0)
	td.VisibleTotals = intMap(flat["visibleTotals"], 0)
	td.Holds = boolMap(flat["holds"])
	td.Busts = boolMap(flat["busts"])
	td.Rolls = rollsMap(flat["rolls"], allowed)
	td.Folded = boolMap(flat["folded"])
	td.FoldedEarly = boolMap(flat["foldedEarly"])
	td.HasActed = boolMap(flat["hasActed"])

	td.Sloppy = boolMap(flat["sloppy"])
	td.DrinkCount = intMap(flat["drinkCount"], 0)
	td.CleaningFees = intMap(flat["cleaningFees"], 0)
	td.ProfiledBy = stringListMap(flat["profiledBy"])
	td.PlayerHeat = intMap(flat["playerHeat"], 1)
	td.Caught = boolMap(flat["caught"])
	td.Cheaters = cheatersMap(flat["cheaters"])

	td.HunchRolls = hunchRollsMap(flat["hunchRolls"])
	td.HunchPrediction = hunchPredictionMap(flat["hunchPrediction"])
	td.HunchExact = boolMap(flat["hunchExact"])
	td.HunchLocked = boolMap(flat["hunchLocked"])
	td.HunchLockedDie = dieMap(flat["hunchLockedDie"], allowed)

	td.GoadedThisRound = boolMap(flat["goadedThisRound"])
	td.GoadBackfire = goadMap(flat["goadBackfire"])
	td.BumpedThisRound = boolMap(flat["bumpedThisRound"])
	td.UsedSkills = usedSkillsMap(flat["usedSkills"])

	td.UsedDice = usedDiceMap(flat["usedDice"], allowed)
	td.GoblinSetProgress = intMap(flat["goblinSetProgress"], 0)

	td.CurrentPlayer = guards.NullableString(flat["currentPlayer"])
	if heat, ok := guards.AsInt(flat["heatDC"]); ok && heat >= 1 {
		td.HeatDC = heat
	}
	td.CheatsThisRound = max(guards.IntOr(flat["cheatsThisRound"], 0), 0)
	td.SkillUsedThisTurn = guards.AsBool(flat["skillUsedThisTurn"])
	td.TheCutPlayer = guards.NullableString(flat["theCutPlayer"])
	td.TheCutUsed = guards.AsBool(flat["theCutUsed"])
	if round := guards.IntOr(flat["sideBetRound"], 0); round == 1 || round == 2 {
		td.SideBetRound = round
	}

	td.Duel = duel(flat["duel"])
	td.PendingBumpRetaliation = bumpRetaliation(flat["pendingBumpRetaliation"])
	td.PendingAction = pendingAction(flat["pendingAction"])
	td.PendingBust = guards.NullableString(flat["pendingBust"])
	return td
}

// Encode renders table data as a document carrying both the flat fields and
// the grouped views.
func Encode(td types.TableData) (map[string]interface{}, error) {
	b, err := json.Marshal(td)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table data: %v", err)
	}
	flat := make(map[string]interface{})
	if err := json.Unmarshal(b, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table data: %v", err)
	}
	doc := make(map[string]interface{}, len(flat)+len(groups))
	for k, v := range flat {
		doc[k] = v
	}
	for _, name := range groupOrder {
		group := make(map[string]interface{}, len(groups[name]))
		for _, field := range groups[name] {
			group[field] = flat[field]
		}
		doc[name] = group
	}
	return doc, nil
}

// Merge overlays a partial document onto current table data and normalizes
// the result. Keys present in partial replace the current values wholesale.
func Merge(current types.TableData, partial map[string]interface{}) (types.TableData, error) {
	doc, err := Encode(current)
	if err != nil {
		return current, err
	}
	base := Flatten(doc)
	for k, v := range Flatten(partial) {
		base[k] = v
	}
	return Normalize(base), nil
}

func boolMap(v interface{}) map[string]bool {
	in := guards.AsMap(v)
	out := make(map[string]bool, len(in))
	for k, x := range in {
		out[k] = guards.AsBool(x)
	}
	return out
}

func intMap(v interface{}, floor int) map[string]int {
	in := guards.AsMap(v)
	out := make(map[string]int, len(in))
	for k, x := range in {
		if i, ok := guards.AsInt(x); ok {
			out[k] = max(i, floor)
		}
	}
	return out
}

func stringListMap(v interface{}) map[string][]string {
	in := guards.AsMap(v)
	out := make(map[string][]string, len(in))
	for k, x := range in {
		out[k] = guards.AsStringSlice(x)
	}
	return out
}

func dieMap(v interface{}, allowed []int) map[string]int {
	in := guards.AsMap(v)
	out := make(map[string]int, len(in))
	for k, x := range in {
		if die, ok := guards.AsInt(x); ok && slices.Contains(allowed, die) {
			out[k] = die
		}
	}
	return out
}

func rollsMap(v interface{}, allowed []int) map[string][]types.Roll {
	in := guards.AsMap(v)
	out := make(map[string][]types.Roll, len(in))
	for k, x := range in {
		items := guards.AsSlice(x)
		rolls := make([]types.Roll, 0, len(items))
		for _, item := range items {
			if !guards.IsPlainObject(item) {
				continue
			}
			obj := guards.AsMap(item)
			die, ok := guards.AsInt(obj["die"])
			if !ok || !slices.Contains(allowed, die) {
				continue
			}
			result, ok := guards.AsInt(obj["result"])
			if !ok {
				continue
			}
			rolls = append(rolls, types.Roll{
				Die:    die,
				Result: min(max(result, 1), die),
				Public: guards.AsBool(obj["public"]),
				Blind:  guards.AsBool(obj["blind"]),
			})
		}
		out[k] = rolls
	}
	return out
}

func cheatersMap(v interface{}) map[string][]types.CheatRecord {
	in := guards.AsMap(v)
	out := make(map[string][]types.CheatRecord, len(in))
	for k, x := range in {
		items := guards.AsSlice(x)
		records := make([]types.CheatRecord, 0, len(items))
		for _, item := range items {
			if !guards.IsPlainObject(item) {
				continue
			}
			obj := guards.AsMap(item)
			index, ok := guards.AsInt(obj["dieIndex"])
			if !ok || index < 0 {
				continue
			}
			records = append(records, types.CheatRecord{
				DieIndex:  index,
				Invisible: guards.AsBool(obj["invisible"]),
			})
		}
		out[k] = records
	}
	return out
}

func hunchRollsMap(v interface{}) map[string]map[int]int {
	in := guards.AsMap(v)
	out := make(map[string]map[int]int, len(in))
	for k, x := range in {
		values := make(map[int]int)
		for dieKey, value := range guards.AsMap(x) {
			die, err := strconv.Atoi(dieKey)
			if err != nil || !slices.Contains(constants.GoblinDice, die) {
				continue
			}
			if result, ok := guards.AsInt(value); ok {
				values[die] = min(max(result, 1), die)
			}
		}
		out[k] = values
	}
	return out
}

func hunchPredictionMap(v interface{}) map[string]map[int]string {
	in := guards.AsMap(v)
	out := make(map[string]map[int]string, len(in))
	for k, x := range in {
		predictions := make(map[int]string)
		for dieKey, value := range guards.AsMap(x) {
			die, err := strconv.Atoi(dieKey)
			if err != nil || die <= 0 {
				continue
			}
			if s := guards.NullableString(value); s != "" {
				predictions[die] = s
			}
		}
		out[k] = predictions
	}
	return out
}

func goadMap(v interface{}) map[string]types.GoadObligation {
	in := guards.AsMap(v)
	out := make(map[string]types.GoadObligation, len(in))
	for k, x := range in {
		if !guards.IsPlainObject(x) {
			continue
		}
		obj := guards.AsMap(x)
		out[k] = types.GoadObligation{
			MustRoll:       guards.AsBool(obj["mustRoll"]),
			GoadedBy:       guards.NullableString(obj["goadedBy"]),
			CanPayToResist: guards.AsBool(obj["canPayToResist"]),
			ResistCost:     max(guards.IntOr(obj["resistCost"], 0), 0),
		}
	}
	return out
}

func usedSkillsMap(v interface{}) map[string]map[string]bool {
	in := guards.AsMap(v)
	out := make(map[string]map[string]bool, len(in))
	for k, x := range in {
		out[k] = boolMap(x)
	}
	return out
}

func usedDiceMap(v interface{}, allowed []int) map[string][]int {
	in := guards.AsMap(v)
	out := make(map[string][]int, len(in))
	for k, x := range in {
		items := guards.AsSlice(x)
		dice := make([]int, 0, len(items))
		for _, item := range items {
			die, ok := guards.AsInt(item)
			if ok && slices.Contains(allowed, die) && !slices.Contains(dice, die) {
				dice = append(dice, die)
			}
		}
		out[k] = dice
	}
	return out
}

func duel(v interface{}) *types.Duel {
	if !guards.IsPlainObject(v) {
		return nil
	}
	obj := guards.AsMap(v)
	return &types.Duel{
		Participants: guards.AsStringSlice(obj["participants"]),
		State:        guards.NullableString(obj["state"]),
	}
}

func bumpRetaliation(v interface{}) *types.BumpRetaliation {
	if !guards.IsPlainObject(v) {
		return nil
	}
	obj := guards.AsMap(v)
	attacker := guards.NullableString(obj["attackerId"])
	target := guards.NullableString(obj["targetId"])
	if attacker == "" || target == "" || attacker == target {
		return nil
	}
	return &types.BumpRetaliation{AttackerID: attacker, TargetID: target}
}

func pendingAction(v interface{}) *types.PendingAction {
	if !guards.IsPlainObject(v) {
		return nil
	}
	obj := guards.AsMap(v)
	kind := guards.NullableString(obj["type"])
	if kind == "" {
		return nil
	}
	return &types.PendingAction{
		Type:     kind,
		ActorID:  guards.NullableString(obj["actorId"]),
		TargetID: guards.NullableString(obj["targetId"]),
	}
}
