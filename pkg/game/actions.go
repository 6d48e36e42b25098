package game

import (
	"context"
	"encoding/json"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
)

// Action names accepted by Handle.
const (
	ActionJoin       = "join"
	ActionLeave      = "leave"
	ActionAutoplay   = "autoplay"
	ActionNPCWallet  = "npcWallet"
	ActionStart      = "start"
	ActionRoll       = "roll"
	ActionHold       = "hold"
	ActionFold       = "fold"
	ActionCut        = "cut"
	ActionReveal     = "reveal"
	ActionLobby      = "lobby"
	ActionBump       = "bump"
	ActionRetaliate  = "retaliate"
	ActionGoad       = "goad"
	ActionResistGoad = "resist"
	ActionCheat      = "cheat"
	ActionHunch      = "hunch"
	ActionProfile    = "profile"
)

type JoinPayload struct {
	// PlayerID defaults to the requester
	PlayerID   string `json:"playerId,omitempty"`
	Name       string `json:"name"`
	IsAI       bool   `json:"isAi"`
	WalletID   string `json:"walletId,omitempty"`
	NPCActorID string `json:"npcActorId,omitempty"`
}

type SeatPayload struct {
	PlayerID string `json:"playerId,omitempty"`
}

type AutoplayPayload struct {
	PlayerID   string           `json:"playerId,omitempty"`
	Enabled    bool             `json:"enabled"`
	Strategy   types.Strategy   `json:"strategy"`
	Difficulty types.Difficulty `json:"difficulty"`
}

type NPCWalletPayload struct {
	PlayerID string `json:"playerId"`
	Balance  int    `json:"balance"`
}

type RollPayload struct {
	Die int `json:"die"`
}

type CutPayload struct {
	Reroll bool `json:"reroll"`
}

type BumpPayload struct {
	TargetID string `json:"targetId"`
	DieIndex int    `json:"dieIndex"`
}

type RetaliatePayload struct {
	DieIndex int `json:"dieIndex"`
}

type GoadPayload struct {
	TargetID      string `json:"targetId"`
	AttackerSkill string `json:"attackerSkill"`
}

type CheatPayload struct {
	DieIndex   *int `json:"dieIndex,omitempty"`
	Adjustment int  `json:"adjustment"`
}

type ProfilePayload struct {
	TargetID string `json:"targetId"`
}

// Handle routes a named action from a participant to its entry point.
// Malformed payloads and unknown actions are rule violations.
func (gm *GameManager) Handle(ctx context.Context, participantID, action string, payload []byte) (Outcome, error) {
	log.Debug("Handling %s from %s", action, participantID)
	switch action {
	case ActionJoin:
		var p JoinPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		player := types.Player{Name: p.Name, IsAI: p.IsAI, WalletID: p.WalletID, NPCActorID: p.NPCActorID}
		return gm.JoinTable(ctx, participantID, orSelf(p.PlayerID, participantID), player)
	case ActionLeave:
		var p SeatPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.LeaveTable(ctx, participantID, orSelf(p.PlayerID, participantID))
	case ActionAutoplay:
		var p AutoplayPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		autoplay := types.Autoplay{Enabled: p.Enabled, Strategy: p.Strategy, Difficulty: p.Difficulty}
		return gm.SetAutoplay(ctx, participantID, orSelf(p.PlayerID, participantID), autoplay)
	case ActionNPCWallet:
		var p NPCWalletPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.SetNPCWallet(ctx, participantID, p.PlayerID, p.Balance)
	case ActionStart:
		return gm.StartRound(ctx, participantID)
	case ActionRoll:
		var p RollPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.SubmitRoll(ctx, participantID, p.Die)
	case ActionHold:
		return gm.Hold(ctx, participantID)
	case ActionFold:
		return gm.Fold(ctx, participantID)
	case ActionCut:
		var p CutPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.TheCut(ctx, participantID, p.Reroll)
	case ActionReveal:
		return gm.RevealResults(ctx, participantID)
	case ActionLobby:
		return gm.ReturnToLobby(ctx, participantID)
	case ActionBump:
		var p BumpPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.BumpTable(ctx, participantID, p.TargetID, p.DieIndex)
	case ActionRetaliate:
		var p RetaliatePayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.BumpRetaliation(ctx, participantID, p.DieIndex)
	case ActionGoad:
		var p GoadPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.Goad(ctx, participantID, p.TargetID, p.AttackerSkill)
	case ActionResistGoad:
		return gm.ResistGoad(ctx, participantID)
	case ActionCheat:
		var p CheatPayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.Cheat(ctx, participantID, p.DieIndex, p.Adjustment)
	case ActionHunch:
		return gm.Hunch(ctx, participantID)
	case ActionProfile:
		var p ProfilePayload
		if err := decode(payload, &p); err != nil {
			return gm.rejectRequest(ctx, participantID, err)
		}
		return gm.Profile(ctx, participantID, p.TargetID)
	default:
		return gm.rejectRequest(ctx, participantID, reject(CodeInvalidRequest, "unknown action %q", action))
	}
}

func decode(payload []byte, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return reject(CodeInvalidRequest, "malformed payload: %v", err)
	}
	return nil
}

func orSelf(id, self string) string {
	if id == "" {
		return self
	}
	return id
}

// rejectRequest answers a request that never reached the store.
func (gm *GameManager) rejectRequest(ctx context.Context, participantID string, err error) (Outcome, error) {
	rerr, ok := AsRuleError(err)
	if !ok {
		return Outcome{}, err
	}
	current, getErr := gm.state.Get(ctx)
	if getErr != nil {
		return Outcome{}, getErr
	}
	warning := effects.Warning(participantID, rerr.Message)
	gm.dispatch(ctx, warning)
	return Outcome{State: current, Effects: []effects.Effect{warning}, Rejection: rerr}, nil
}
