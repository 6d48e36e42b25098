package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
)

// JoinTable seats a participant. Players seat themselves; the authority may
// seat anyone, including NPC bindings.
func (gm *GameManager) JoinTable(ctx context.Context, requester, playerID string, player types.Player) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != playerID && requester != gm.authority {
			return reject(CodeInvalidRequest, "you can only seat yourself")
		}
		if playerID == "" {
			return reject(CodeInvalidRequest, "a seat needs a participant id")
		}
		if t.state.Status != types.StatusLobby {
			return reject(CodeWrongStatus, "seats can only change in the lobby")
		}
		if t.state.IsSeated(playerID) {
			return reject(CodeInvalidRequest, "%s is already seated", playerID)
		}
		if player.Name == "" {
			player.Name = t.name(playerID)
		}
		t.state.TurnOrder = append(t.state.TurnOrder, playerID)
		t.state.Players[playerID] = player
		if player.IsNPC() {
			if _, ok := t.state.NPCWallets[playerID]; !ok {
				t.state.NPCWallets[playerID] = 0
			}
		}
		t.announce("A new challenger", "", fmt.Sprintf("%s takes a seat", player.Name))
		t.record("join", playerID, "", fmt.Sprintf("%s joined the table", player.Name), 0)
		return nil
	})
}

// LeaveTable removes a seat in the lobby.
func (gm *GameManager) LeaveTable(ctx context.Context, requester, playerID string) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != playerID && requester != gm.authority {
			return reject(CodeInvalidRequest, "you can only leave your own seat")
		}
		if t.state.Status != types.StatusLobby {
			return reject(CodeWrongStatus, "seats can only change in the lobby")
		}
		if !t.state.IsSeated(playerID) {
			return reject(CodeNotSeated, "%s is not seated", playerID)
		}
		name := t.name(playerID)
		t.state.TurnOrder = slices.DeleteFunc(t.state.TurnOrder, func(id string) bool { return id == playerID })
		delete(t.state.Players, playerID)
		delete(t.state.Autoplay, playerID)
		t.announce("Seat empty", "", fmt.Sprintf("%s leaves the table", name))
		t.record("leave", playerID, "", fmt.Sprintf("%s left the table", name), 0)
		return nil
	})
}

// SetAutoplay configures AI control of a seat.
func (gm *GameManager) SetAutoplay(ctx context.Context, requester, playerID string, autoplay types.Autoplay) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != playerID && requester != gm.authority {
			return reject(CodeInvalidRequest, "you can only configure your own seat")
		}
		if !t.state.IsSeated(playerID) {
			return reject(CodeNotSeated, "%s is not seated", playerID)
		}
		if autoplay.Strategy == "" {
			autoplay.Strategy = types.StrategyBalanced
		}
		if autoplay.Difficulty == "" {
			autoplay.Difficulty = types.DifficultyNormal
		}
		if !autoplay.Strategy.Valid() || !autoplay.Difficulty.Valid() {
			return reject(CodeInvalidRequest, "unknown strategy or difficulty")
		}
		t.state.Autoplay[playerID] = autoplay
		return nil
	})
}

// SetNPCWallet sets the purse of an NPC seat.
func (gm *GameManager) SetNPCWallet(ctx context.Context, requester, playerID string, balance int) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != gm.authority {
			return reject(CodeInvalidRequest, "only the table authority manages npc purses")
		}
		if !t.state.Players[playerID].IsNPC() {
			return reject(CodeInvalidTarget, "%s is not an npc seat", playerID)
		}
		if balance < 0 {
			return reject(CodeInvalidRequest, "a purse cannot be negative")
		}
		t.state.NPCWallets[playerID] = balance
		return nil
	})
}

// StartRound collects the ante from every non-house seat and opens a round.
func (gm *GameManager) StartRound(ctx context.Context, requester string) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != gm.authority {
			return reject(CodeInvalidRequest, "only the table authority may start a round")
		}
		if t.state.Status != types.StatusLobby && t.state.Status != types.StatusPayout {
			return reject(CodeWrongStatus, "a round is already in progress")
		}
		if len(t.state.TurnOrder) == 0 {
			return reject(CodeInvalidRequest, "nobody is seated")
		}
		players := t.nonHouse()
		if len(players) == 0 {
			return reject(CodeInvalidRequest, "the house cannot play alone")
		}

		ante := gm.ante
		for _, id := range players {
			ok, err := t.canAfford(id, ante)
			if err != nil {
				return err
			}
			if !ok {
				return reject(CodeInsufficientFunds, "%s cannot cover the %d gp ante", t.name(id), ante)
			}
		}
		var paid []string
		for _, id := range players {
			ok, err := t.deduct(id, ante)
			if err == nil && ok {
				paid = append(paid, id)
				continue
			}
			if refundErr := t.payOut(paid, ante); refundErr != nil {
				return fmt.Errorf("failed to refund antes after a failed deduction: %v", refundErr)
			}
			if err != nil {
				return err
			}
			return reject(CodeInsufficientFunds, "%s cannot cover the %d gp ante", t.name(id), ante)
		}

		td := types.NewTableData()
		td.GameMode = gm.gameMode
		for _, id := range t.state.TurnOrder {
			td.PlayerHeat[id] = constants.HeatDCStart
		}
		td.CurrentPlayer = t.state.TurnOrder[0]
		t.state.TableData = td
		t.state.Pot = ante * len(players) * constants.HouseMatchMultiplier
		t.state.Status = types.StatusPlaying

		subtitle := ""
		if td.GameMode == types.GameModeGoblin {
			subtitle = "Goblin Rules"
		}
		t.announce("New Round", subtitle, fmt.Sprintf("The pot stands at %d gp. %s rolls first.", t.state.Pot, t.name(td.CurrentPlayer)))
		t.record("round_start", requester, "", fmt.Sprintf("Round started with a %d gp pot", t.state.Pot), t.state.Pot, players...)
		return nil
	})
}

// actionGate checks what every in-turn action shares.
func (t *txn) actionGate(playerID string) error {
	td := t.table()
	if t.state.Status != types.StatusPlaying {
		return reject(CodeWrongStatus, "no round is in progress")
	}
	if !t.state.IsSeated(playerID) {
		return reject(CodeNotSeated, "you are not seated at this table")
	}
	if td.PendingBumpRetaliation != nil {
		return reject(CodePendingRetaliation, "waiting for %s to retaliate", t.name(td.PendingBumpRetaliation.TargetID))
	}
	if td.Phase == types.PhaseCut {
		return reject(CodeWrongPhase, "waiting for %s to make the cut", t.name(td.TheCutPlayer))
	}
	if td.CurrentPlayer != playerID {
		return reject(CodeNotYourTurn, "it is not your turn")
	}
	if td.Finished(playerID) {
		return reject(CodeAlreadyActed, "you are out of this round")
	}
	return nil
}

// SubmitRoll rolls one die for the current player.
func (gm *GameManager) SubmitRoll(ctx context.Context, playerID string, die int) (Outcome, error) {
	return gm.runAndReveal(ctx, playerID, func(t *txn) error {
		if err := t.actionGate(playerID); err != nil {
			return err
		}
		td := t.table()
		if !slices.Contains(td.GameMode.AllowedDice(), die) {
			return reject(CodeInvalidDie, "a d%d is not allowed at this table", die)
		}
		if td.GameMode == types.GameModeGoblin && slices.Contains(td.UsedDice[playerID], die) {
			return reject(CodeInvalidDie, "you already used your d%d this round", die)
		}
		if locked := td.HunchLockedDie[playerID]; locked != 0 && die != locked {
			return reject(CodeInvalidDie, "your hunch locked you into the d%d", locked)
		}

		value, destined := td.HunchRolls[playerID][die]
		if !destined {
			var err error
			value, err = gm.roller.Roll(die)
			if err != nil {
				return fmt.Errorf("failed to roll d%d: %v", die, err)
			}
		}
		blind := td.HunchLocked[playerID]
		hole := td.Phase == types.PhaseOpening && len(td.Rolls[playerID]) == 0
		roll := types.Roll{Die: die, Result: value, Public: !hole && !blind, Blind: blind}

		delete(td.HunchRolls, playerID)
		delete(td.HunchPrediction, playerID)
		delete(td.HunchExact, playerID)
		delete(td.HunchLocked, playerID)
		delete(td.HunchLockedDie, playerID)
		delete(td.GoadBackfire, playerID)

		td.Rolls[playerID] = append(td.Rolls[playerID], roll)
		td.Totals[playerID] += value
		if roll.Public {
			td.VisibleTotals[playerID] += value
		}
		if td.GameMode == types.GameModeGoblin {
			td.UsedDice[playerID] = append(td.UsedDice[playerID], die)
			td.GoblinSetProgress[playerID] = len(td.UsedDice[playerID])
		}
		td.HasActed[playerID] = true

		name := t.name(playerID)
		switch {
		case roll.Public:
			t.announce(fmt.Sprintf("%s rolls a d%d", name, die), "", fmt.Sprintf("%d, showing %d", value, td.VisibleTotals[playerID]))
			t.record("roll", playerID, "", fmt.Sprintf("%s rolled %d on a d%d", name, value, die), value)
		case blind:
			t.announce(fmt.Sprintf("%s rolls a d%d", name, die), "", "The result stays hidden")
			t.tell(playerID, "Blind roll", fmt.Sprintf("Your d%d is face down until the reveal", die))
			t.record("roll", playerID, "", fmt.Sprintf("%s rolled a d%d blind", name, die), 0)
		default:
			t.announce(fmt.Sprintf("%s rolls a d%d", name, die), "", "The hole die stays hidden")
			t.tell(playerID, "Hole die", fmt.Sprintf("Your hole d%d shows %d", die, value))
			t.record("roll", playerID, "", fmt.Sprintf("%s rolled a hole d%d", name, die), 0)
		}

		t.checkBust(playerID)
		t.advance()
		return nil
	})
}

// Hold ends the current player's round with their total.
func (gm *GameManager) Hold(ctx context.Context, playerID string) (Outcome, error) {
	return gm.runAndReveal(ctx, playerID, func(t *txn) error {
		if err := t.actionGate(playerID); err != nil {
			return err
		}
		td := t.table()
		if td.Phase != types.PhaseBetting {
			return reject(CodeWrongPhase, "take your opening dice first")
		}
		if len(td.Rolls[playerID]) < constants.MinRollsToHold {
			return reject(CodeMustRoll, "roll at least %d dice before holding", constants.MinRollsToHold)
		}
		if obligation := td.GoadBackfire[playerID]; obligation.MustRoll {
			return reject(CodeMustRoll, "%s goaded you, you must roll", t.name(obligation.GoadedBy))
		}
		td.Holds[playerID] = true
		td.HasActed[playerID] = true
		name := t.name(playerID)
		t.announce(fmt.Sprintf("%s holds", name), "", fmt.Sprintf("Showing %d", td.VisibleTotals[playerID]))
		t.record("hold", playerID, "", fmt.Sprintf("%s held", name), 0)
		t.advance()
		return nil
	})
}

// Fold drops the current player from contention. Folded players never win.
func (gm *GameManager) Fold(ctx context.Context, playerID string) (Outcome, error) {
	return gm.runAndReveal(ctx, playerID, func(t *txn) error {
		if err := t.actionGate(playerID); err != nil {
			return err
		}
		td := t.table()
		if !td.HasActed[playerID] {
			td.FoldedEarly[playerID] = true
		}
		td.Folded[playerID] = true
		td.Holds[playerID] = true
		td.HasActed[playerID] = true
		delete(td.GoadBackfire, playerID)
		name := t.name(playerID)
		t.announce(fmt.Sprintf("%s folds", name), "", "")
		t.record("fold", playerID, "", fmt.Sprintf("%s folded", name), 0)
		t.advance()
		return nil
	})
}

// TheCut lets the player showing the lowest hand after the opening reroll
// their hole die once before betting starts.
func (gm *GameManager) TheCut(ctx context.Context, playerID string, reroll bool) (Outcome, error) {
	return gm.runAndReveal(ctx, playerID, func(t *txn) error {
		td := t.table()
		if t.state.Status != types.StatusPlaying {
			return reject(CodeWrongStatus, "no round is in progress")
		}
		if td.Phase != types.PhaseCut {
			return reject(CodeWrongPhase, "there is no cut to make")
		}
		if td.TheCutPlayer != playerID {
			return reject(CodeNotYourTurn, "the cut belongs to %s", t.name(td.TheCutPlayer))
		}
		td.TheCutUsed = true
		name := t.name(playerID)
		if hole := holeDie(td.Rolls[playerID]); reroll && hole >= 0 {
			_, value, err := t.reroll(playerID, hole)
			if err != nil {
				return err
			}
			t.tell(playerID, "The Cut", fmt.Sprintf("Your hole die now shows %d", value))
			t.announce("The Cut", "", fmt.Sprintf("%s rerolls their hole die", name))
			t.record("cut", playerID, "", fmt.Sprintf("%s took the cut", name), 0)
		} else {
			t.announce("The Cut", "", fmt.Sprintf("%s stands pat", name))
			t.record("cut", playerID, "", fmt.Sprintf("%s passed on the cut", name), 0)
		}
		t.startBetting()
		return nil
	})
}

// holeDie returns the index of the first hidden roll or -1.
func holeDie(rolls []types.Roll) int {
	return slices.IndexFunc(rolls, func(r types.Roll) bool { return !r.Public })
}

// RevealResults forces the showdown. Only the authority may call it while
// players are still acting.
func (gm *GameManager) RevealResults(ctx context.Context, requester string) (Outcome, error) {
	return gm.reveal(ctx, requester, true)
}

// reveal discloses every roll and then settles the pot in a second commit.
func (gm *GameManager) reveal(ctx context.Context, requester string, force bool) (Outcome, error) {
	revealed, err := gm.run(ctx, requester, func(t *txn) error {
		return t.beginReveal(force)
	})
	if err != nil || revealed.Rejection != nil {
		return revealed, err
	}
	settled, err := gm.run(ctx, requester, func(t *txn) error {
		return t.settle()
	})
	if err != nil {
		return revealed, err
	}
	settled.Effects = append(revealed.Effects, settled.Effects...)
	return settled, nil
}

func (t *txn) beginReveal(force bool) error {
	td := t.table()
	if force && t.requester != t.gm.authority {
		return reject(CodeInvalidRequest, "only the table authority may force the reveal")
	}
	switch t.state.Status {
	case types.StatusPlaying:
		if !force && td.CurrentPlayer != "" {
			return reject(CodeWrongPhase, "players are still acting")
		}
	case types.StatusRevealing:
		if !force {
			return reject(CodeWrongStatus, "the reveal is already running")
		}
	default:
		return reject(CodeWrongStatus, "no round to reveal")
	}

	t.state.Status = types.StatusRevealing
	td.CurrentPlayer = ""
	td.PendingBumpRetaliation = nil
	t.announce("Showdown", "", "All dice are revealed")

	delay := time.Duration(0)
	for _, id := range t.state.TurnOrder {
		for i, roll := range td.Rolls[id] {
			t.effects = append(t.effects, effects.Reveal(id, roll.Die, roll.Result, delay))
			delay = t.gm.revealDelay
			td.Rolls[id][i].Public = true
			td.Rolls[id][i].Blind = false
		}
		td.VisibleTotals[id] = td.Totals[id]
	}
	return nil
}

func (t *txn) settle() error {
	td := t.table()
	if t.state.Status != types.StatusRevealing {
		return reject(CodeWrongStatus, "nothing to settle")
	}

	best := -1
	var winners []string
	for _, id := range t.state.TurnOrder {
		if td.Busts[id] || td.Folded[id] || td.Caught[id] {
			continue
		}
		total := td.Totals[id]
		if total > constants.TargetTotal {
			continue
		}
		switch {
		case total > best:
			best = total
			winners = []string{id}
		case total == best:
			winners = append(winners, id)
		}
	}

	t.state.Status = types.StatusPayout
	if len(winners) == 0 {
		t.announce("No winner", "", "The house keeps the pot")
		t.record("payout", "", "", "Nobody stood under 21; the house keeps the pot", 0)
		return nil
	}

	share := t.state.Pot / len(winners)
	if err := t.payOut(winners, share); err != nil {
		return err
	}
	names := make([]string, 0, len(winners))
	for _, id := range winners {
		names = append(names, t.name(id))
	}
	message := fmt.Sprintf("%s wins %d gp with %d", strings.Join(names, " and "), share, best)
	if len(winners) > 1 {
		message = fmt.Sprintf("%s split the pot at %d gp each with %d", strings.Join(names, " and "), share, best)
	}
	t.announce("Payout", "", message)
	t.record("payout", "", "", message, share, winners...)
	return nil
}

// ReturnToLobby clears the table for the next round.
func (gm *GameManager) ReturnToLobby(ctx context.Context, requester string) (Outcome, error) {
	return gm.run(ctx, requester, func(t *txn) error {
		if requester != gm.authority {
			return reject(CodeInvalidRequest, "only the table authority may return to the lobby")
		}
		t.state.Pot = 0
		t.state.TableData = types.NewTableData()
		t.state.TableData.GameMode = gm.gameMode
		t.state.Status = types.StatusLobby
		t.announce("Back to the lobby", "", "Take your seats for the next round")
		return nil
	})
}
