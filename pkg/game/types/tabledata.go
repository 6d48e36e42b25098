package types

import (
	"maps"
	"slices"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
)

type Phase string

const (
	PhaseOpening Phase = "opening"
	PhaseBetting Phase = "betting"
	PhaseCut     Phase = "cut"
)

func (p Phase) Valid() bool {
	return p == PhaseOpening || p == PhaseBetting || p == PhaseCut
}

type GameMode string

const (
	GameModeStandard GameMode = "standard"
	GameModeGoblin   GameMode = "goblin"
)

func (m GameMode) Valid() bool {
	return m == GameModeStandard || m == GameModeGoblin
}

// AllowedDice returns the die sizes that may be rolled in this mode.
func (m GameMode) AllowedDice() []int {
	if m == GameModeGoblin {
		return constants.GoblinDice
	}
	return constants.StandardDice
}

// Roll is one die a player has taken this round.
type Roll struct {
	Die    int `json:"die"`
	Result int `json:"result"`
	// Public dice count towards the visible total; the hole die does not
	Public bool `json:"public"`
	// Blind dice are hidden from their own roller until the reveal
	Blind bool `json:"blind,omitempty"`
}

// GoadObligation forces a goaded player to roll before they may hold again.
type GoadObligation struct {
	MustRoll       bool   `json:"mustRoll"`
	GoadedBy       string `json:"goadedBy"`
	CanPayToResist bool   `json:"canPayToResist"`
	ResistCost     int    `json:"resistCost"`
}

// BumpRetaliation is the window opened by a failed bump.
type BumpRetaliation struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`
}

// CheatRecord remembers which die a player tampered with.
type CheatRecord struct {
	DieIndex  int  `json:"dieIndex"`
	Invisible bool `json:"invisible"`
}

type Duel struct {
	Participants []string `json:"participants"`
	State        string   `json:"state"`
}

type PendingAction struct {
	Type     string `json:"type"`
	ActorID  string `json:"actorId"`
	TargetID string `json:"targetId,omitempty"`
}

// TableData is the round-scoped sub-document. It is replaced wholesale at
// round start and on return to the lobby.
type TableData struct {
	Totals        map[string]int    `json:"totals"`
	VisibleTotals map[string]int    `json:"visibleTotals"`
	Holds         map[string]bool   `json:"holds"`
	Busts         map[string]bool   `json:"busts"`
	Rolls         map[string][]Roll `json:"rolls"`
	Folded        map[string]bool   `json:"folded"`
	FoldedEarly   map[string]bool   `json:"foldedEarly"`
	HasActed      map[string]bool   `json:"hasActed"`

	Sloppy       map[string]bool     `json:"sloppy"`
	DrinkCount   map[string]int      `json:"drinkCount"`
	CleaningFees map[string]int      `json:"cleaningFees"`
	ProfiledBy   map[string][]string `json:"profiledBy"`
	// PlayerHeat is each player's personal cheat DC
	PlayerHeat map[string]int           `json:"playerHeat"`
	Caught     map[string]bool          `json:"caught"`
	Cheaters   map[string][]CheatRecord `json:"cheaters"`

	// HunchRolls holds the destined value of each die size after a perfect hunch
	HunchRolls      map[string]map[int]int    `json:"hunchRolls"`
	HunchPrediction map[string]map[int]string `json:"hunchPrediction"`
	HunchExact      map[string]bool           `json:"hunchExact"`
	HunchLocked     map[string]bool           `json:"hunchLocked"`
	HunchLockedDie  map[string]int            `json:"hunchLockedDie"`

	GoadedThisRound map[string]bool            `json:"goadedThisRound"`
	GoadBackfire    map[string]GoadObligation  `json:"goadBackfire"`
	BumpedThisRound map[string]bool            `json:"bumpedThisRound"`
	UsedSkills      map[string]map[string]bool `json:"usedSkills"`

	UsedDice          map[string][]int `json:"usedDice"`
	GoblinSetProgress map[string]int   `json:"goblinSetProgress"`

	Phase         Phase    `json:"phase"`
	GameMode      GameMode `json:"gameMode"`
	CurrentPlayer string   `json:"currentPlayer"`
	// HeatDC is the starting personal heat for players without one
	HeatDC            int    `json:"heatDC"`
	CheatsThisRound   int    `json:"cheatsThisRound"`
	SkillUsedThisTurn bool   `json:"skillUsedThisTurn"`
	TheCutPlayer      string `json:"theCutPlayer"`
	TheCutUsed        bool   `json:"theCutUsed"`
	// SideBetRound is 1 or 2, zero when no side bet is open
	SideBetRound int `json:"sideBetRound"`

	Duel                   *Duel            `json:"duel"`
	PendingBumpRetaliation *BumpRetaliation `json:"pendingBumpRetaliation"`
	PendingAction          *PendingAction   `json:"pendingAction"`
	PendingBust            string           `json:"pendingBust"`
}

// NewTableData returns the empty-round defaults.
func NewTableData() TableData {
	return TableData{
		Totals:            map[string]int{},
		VisibleTotals:     map[string]int{},
		Holds:             map[string]bool{},
		Busts:             map[string]bool{},
		Rolls:             map[string][]Roll{},
		Folded:            map[string]bool{},
		FoldedEarly:       map[string]bool{},
		HasActed:          map[string]bool{},
		Sloppy:            map[string]bool{},
		DrinkCount:        map[string]int{},
		CleaningFees:      map[string]int{},
		ProfiledBy:        map[string][]string{},
		PlayerHeat:        map[string]int{},
		Caught:            map[string]bool{},
		Cheaters:          map[string][]CheatRecord{},
		HunchRolls:        map[string]map[int]int{},
		HunchPrediction:   map[string]map[int]string{},
		HunchExact:        map[string]bool{},
		HunchLocked:       map[string]bool{},
		HunchLockedDie:    map[string]int{},
		GoadedThisRound:   map[string]bool{},
		GoadBackfire:      map[string]GoadObligation{},
		BumpedThisRound:   map[string]bool{},
		UsedSkills:        map[string]map[string]bool{},
		UsedDice:          map[string][]int{},
		GoblinSetProgress: map[string]int{},
		Phase:             PhaseOpening,
		GameMode:          GameModeStandard,
		HeatDC:            constants.HeatDCStart,
	}
}

// Finished reports whether a player can no longer act this round.
func (td *TableData) Finished(id string) bool {
	return td.Holds[id] || td.Busts[id]
}

// Heat returns the personal cheat DC for a player.
func (td *TableData) Heat(id string) int {
	if heat, ok := td.PlayerHeat[id]; ok {
		return heat
	}
	if td.HeatDC > 0 {
		return td.HeatDC
	}
	return constants.HeatDCStart
}

// HasCheated reports whether a player tampered with any die this round.
func (td *TableData) HasCheated(id string) bool {
	return len(td.Cheaters[id]) > 0
}

// SkillUsed reports whether a match-limited skill has been spent.
func (td *TableData) SkillUsed(id, skill string) bool {
	return td.UsedSkills[id][skill]
}

// Copy returns a deep copy of the table data.
func (td TableData) Copy() TableData {
	c := td
	c.Totals = maps.Clone(td.Totals)
	c.VisibleTotals = maps.Clone(td.VisibleTotals)
	c.Holds = maps.Clone(td.Holds)
	c.Busts = maps.Clone(td.Busts)
	c.Rolls = cloneSlices(td.Rolls)
	c.Folded = maps.Clone(td.Folded)
	c.FoldedEarly = maps.Clone(td.FoldedEarly)
	c.HasActed = maps.Clone(td.HasActed)
	c.Sloppy = maps.Clone(td.Sloppy)
	c.DrinkCount = maps.Clone(td.DrinkCount)
	c.CleaningFees = maps.Clone(td.CleaningFees)
	c.ProfiledBy = cloneSlices(td.ProfiledBy)
	c.PlayerHeat = maps.Clone(td.PlayerHeat)
	c.Caught = maps.Clone(td.Caught)
	c.Cheaters = cloneSlices(td.Cheaters)
	c.HunchRolls = cloneNested(td.HunchRolls)
	c.HunchPrediction = cloneNested(td.HunchPrediction)
	c.HunchExact = maps.Clone(td.HunchExact)
	c.HunchLocked = maps.Clone(td.HunchLocked)
	c.HunchLockedDie = maps.Clone(td.HunchLockedDie)
	c.GoadedThisRound = maps.Clone(td.GoadedThisRound)
	c.GoadBackfire = maps.Clone(td.GoadBackfire)
	c.BumpedThisRound = maps.Clone(td.BumpedThisRound)
	c.UsedSkills = cloneNested(td.UsedSkills)
	c.UsedDice = cloneSlices(td.UsedDice)
	c.GoblinSetProgress = maps.Clone(td.GoblinSetProgress)
	if td.Duel != nil {
		duel := *td.Duel
		duel.Participants = slices.Clone(td.Duel.Participants)
		c.Duel = &duel
	}
	if td.PendingBumpRetaliation != nil {
		pending := *td.PendingBumpRetaliation
		c.PendingBumpRetaliation = &pending
	}
	if td.PendingAction != nil {
		action := *td.PendingAction
		c.PendingAction = &action
	}
	return c
}

func cloneSlices[V any](m map[string][]V) map[string][]V {
	if m == nil {
		return nil
	}
	out := make(map[string][]V, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func cloneNested[K comparable, V any](m map[string]map[K]V) map[string]map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[string]map[K]V, len(m))
	for k, v := range m {
		out[k] = maps.Clone(v)
	}
	return out
}
