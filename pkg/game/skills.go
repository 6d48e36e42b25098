package game

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cbodonnell/twentyone/pkg/dice"
	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/wallet"
)

// Skill names as stored in usedSkills and shown in cut-ins.
const (
	SkillBump    = "bump"
	SkillGoad    = "goad"
	SkillCheat   = "cheat"
	SkillHunch   = "hunch"
	SkillProfile = "profile"
)

// skillGate checks what every skill shares before any die is rolled.
func (t *txn) skillGate(actorID, skill string, matchLimited bool) error {
	td := t.table()
	if t.state.Status != types.StatusPlaying {
		return reject(CodeWrongStatus, "no round is in progress")
	}
	if !t.state.IsSeated(actorID) {
		return reject(CodeNotSeated, "you are not seated at this table")
	}
	if t.isHouse(actorID) {
		return reject(CodeHouseExempt, "the house does not play skills")
	}
	if td.Phase != types.PhaseBetting {
		return reject(CodeWrongPhase, "skills are only usable while betting")
	}
	if td.PendingBumpRetaliation != nil {
		return reject(CodePendingRetaliation, "waiting for %s to retaliate", t.name(td.PendingBumpRetaliation.TargetID))
	}
	if td.CurrentPlayer != actorID {
		return reject(CodeNotYourTurn, "skills are used on your own turn")
	}
	if td.Busts[actorID] || td.Folded[actorID] {
		return reject(CodeAlreadyActed, "you are out of this round")
	}
	if td.SkillUsedThisTurn {
		return reject(CodeAlreadyActed, "you already used a skill this turn")
	}
	if matchLimited && td.SkillUsed(actorID, skill) {
		return reject(CodeLimitReached, "you already used %s this round", skill)
	}
	return nil
}

func (t *txn) targetGate(actorID, targetID string, allowHolding bool) error {
	td := t.table()
	switch {
	case targetID == actorID:
		return reject(CodeInvalidTarget, "you cannot target yourself")
	case !t.state.IsSeated(targetID):
		return reject(CodeInvalidTarget, "%s is not at the table", targetID)
	case t.isHouse(targetID):
		return reject(CodeHouseExempt, "the house cannot be targeted")
	case td.Busts[targetID]:
		return reject(CodeInvalidTarget, "%s already busted", t.name(targetID))
	case td.Folded[targetID]:
		return reject(CodeInvalidTarget, "%s folded", t.name(targetID))
	case !allowHolding && td.Holds[targetID]:
		return reject(CodeInvalidTarget, "%s is holding", t.name(targetID))
	}
	return nil
}

func (t *txn) dieIndex(playerID string, index int) error {
	if index < 0 || index >= len(t.table().Rolls[playerID]) {
		return reject(CodeInvalidDie, "%s has no die at position %d", t.name(playerID), index)
	}
	return nil
}

// completeSkill spends the actor's skill for the turn.
func (t *txn) completeSkill(actorID, skill string) {
	td := t.table()
	td.HasActed[actorID] = true
	td.SkillUsedThisTurn = true
	if td.UsedSkills[actorID] == nil {
		td.UsedSkills[actorID] = map[string]bool{}
	}
	td.UsedSkills[actorID][skill] = true
	t.settleTurn()
}

func outcomeResult(check dice.CheckResult, success bool) map[string]interface{} {
	return map[string]interface{}{
		"success": success,
		"natural": check.Natural,
		"total":   check.Total,
	}
}

// BumpTable jostles the table: a STR contest that rerolls one of the target's
// dice on success and opens a retaliation window on failure.
func (gm *GameManager) BumpTable(ctx context.Context, actorID, targetID string, dieIndex int) (Outcome, error) {
	return gm.runAndReveal(ctx, actorID, func(t *txn) error {
		if err := t.skillGate(actorID, SkillBump, false); err != nil {
			return err
		}
		if err := t.targetGate(actorID, targetID, false); err != nil {
			return err
		}
		if err := t.dieIndex(targetID, dieIndex); err != nil {
			return err
		}
		td := t.table()
		attack, err := t.check(actorID, wallet.StatStrength)
		if err != nil {
			return err
		}
		defense, err := t.check(targetID, wallet.StatStrength)
		if err != nil {
			return err
		}
		td.BumpedThisRound[targetID] = true
		actor, target := t.name(actorID), t.name(targetID)

		if dice.Contest(attack, defense.Total) {
			public := td.Rolls[targetID][dieIndex].Public
			old, value, err := t.reroll(targetID, dieIndex)
			if err != nil {
				return err
			}
			result := outcomeResult(attack, true)
			result["dieIndex"] = dieIndex
			if public {
				result["from"], result["to"] = old, value
			} else {
				t.tell(targetID, "Bumped!", fmt.Sprintf("Your hole die went from %d to %d", old, value))
			}
			t.cutIn(SkillBump, actorID, targetID, result)
			t.record("bump", actorID, targetID, fmt.Sprintf("%s bumped %s's die", actor, target), 0)
		} else {
			td.PendingBumpRetaliation = &types.BumpRetaliation{AttackerID: actorID, TargetID: targetID}
			if attack.CriticalFailure() {
				if _, err := t.penalize(actorID); err != nil {
					return err
				}
			}
			t.cutIn(SkillBump, actorID, targetID, outcomeResult(attack, false))
			t.tell(targetID, "Retaliate", fmt.Sprintf("%s fumbled the bump. Pick one of their dice to reroll.", actor))
			t.record("bump", actorID, targetID, fmt.Sprintf("%s failed to bump %s", actor, target), 0)
		}
		t.completeSkill(actorID, SkillBump)
		return nil
	})
}

// BumpRetaliation closes the window a failed bump opened by rerolling one of
// the attacker's dice. Only the bumped player or the authority may answer.
func (gm *GameManager) BumpRetaliation(ctx context.Context, requester string, dieIndex int) (Outcome, error) {
	return gm.runAndReveal(ctx, requester, func(t *txn) error {
		td := t.table()
		if t.state.Status != types.StatusPlaying {
			return reject(CodeWrongStatus, "no round is in progress")
		}
		pending := td.PendingBumpRetaliation
		if pending == nil {
			return reject(CodeInvalidRequest, "there is nothing to retaliate against")
		}
		if requester != pending.TargetID && requester != t.gm.authority {
			return reject(CodeNotYourTurn, "only %s may retaliate", t.name(pending.TargetID))
		}
		if err := t.dieIndex(pending.AttackerID, dieIndex); err != nil {
			return err
		}
		public := td.Rolls[pending.AttackerID][dieIndex].Public
		old, value, err := t.reroll(pending.AttackerID, dieIndex)
		if err != nil {
			return err
		}
		td.PendingBumpRetaliation = nil

		result := map[string]interface{}{"dieIndex": dieIndex}
		if public {
			result["from"], result["to"] = old, value
		} else {
			t.tell(pending.AttackerID, "Retaliation", fmt.Sprintf("Your hole die went from %d to %d", old, value))
		}
		t.cutIn("retaliation", pending.TargetID, pending.AttackerID, result)
		t.record("retaliation", pending.TargetID, pending.AttackerID,
			fmt.Sprintf("%s retaliated against %s", t.name(pending.TargetID), t.name(pending.AttackerID)), 0)
		t.settleTurn()
		return nil
	})
}

// Goad pressures a target into rolling again. The attacker picks
// intimidation or persuasion against the target's insight.
func (gm *GameManager) Goad(ctx context.Context, actorID, targetID, attackerSkill string) (Outcome, error) {
	return gm.runAndReveal(ctx, actorID, func(t *txn) error {
		if attackerSkill != wallet.StatIntimidation && attackerSkill != wallet.StatPersuasion {
			return reject(CodeInvalidRequest, "goad with %s or %s", wallet.StatIntimidation, wallet.StatPersuasion)
		}
		if err := t.skillGate(actorID, SkillGoad, false); err != nil {
			return err
		}
		if err := t.targetGate(actorID, targetID, true); err != nil {
			return err
		}
		td := t.table()
		if td.GoadBackfire[targetID].MustRoll {
			return reject(CodeInvalidTarget, "%s is already goaded", t.name(targetID))
		}
		attack, err := t.check(actorID, attackerSkill)
		if err != nil {
			return err
		}
		defense, err := t.check(targetID, wallet.StatInsight)
		if err != nil {
			return err
		}
		td.GoadedThisRound[targetID] = true
		actor, target := t.name(actorID), t.name(targetID)

		if dice.Contest(attack, defense.Total) {
			td.Holds[targetID] = false
			td.GoadBackfire[targetID] = types.GoadObligation{
				MustRoll:       true,
				GoadedBy:       actorID,
				CanPayToResist: !attack.CriticalSuccess(),
				ResistCost:     t.gm.ante,
			}
			message := fmt.Sprintf("%s goaded you. Roll on your next turn", actor)
			if !attack.CriticalSuccess() {
				message += fmt.Sprintf(" or pay %d gp to resist", t.gm.ante)
			}
			t.tell(targetID, "Goaded!", message)
			t.cutIn(SkillGoad, actorID, targetID, outcomeResult(attack, true))
			t.record("goad", actorID, targetID, fmt.Sprintf("%s goaded %s", actor, target), 0)
		} else {
			paid, err := t.penalize(actorID)
			if err != nil {
				return err
			}
			if attack.CriticalFailure() {
				td.GoadBackfire[actorID] = types.GoadObligation{
					MustRoll:       true,
					GoadedBy:       targetID,
					CanPayToResist: true,
					ResistCost:     t.gm.ante,
				}
				t.tell(actorID, "Backfire", fmt.Sprintf("%s turned it around on you. You must roll next.", target))
			}
			t.cutIn(SkillGoad, actorID, targetID, outcomeResult(attack, false))
			amount := 0
			if paid {
				amount = t.gm.ante
			}
			t.record("goad", actorID, targetID, fmt.Sprintf("%s failed to goad %s", actor, target), amount)
		}
		t.completeSkill(actorID, SkillGoad)
		return nil
	})
}

// ResistGoad pays off a goad obligation into the pot.
func (gm *GameManager) ResistGoad(ctx context.Context, playerID string) (Outcome, error) {
	return gm.run(ctx, playerID, func(t *txn) error {
		td := t.table()
		if t.state.Status != types.StatusPlaying {
			return reject(CodeWrongStatus, "no round is in progress")
		}
		obligation, ok := td.GoadBackfire[playerID]
		if !ok || !obligation.MustRoll {
			return reject(CodeInvalidRequest, "nobody goaded you")
		}
		if !obligation.CanPayToResist {
			return reject(CodeInvalidRequest, "this goad cannot be bought off")
		}
		paid, err := t.deduct(playerID, obligation.ResistCost)
		if err != nil {
			return err
		}
		if !paid {
			return reject(CodeInsufficientFunds, "resisting costs %d gp", obligation.ResistCost)
		}
		t.state.Pot += obligation.ResistCost
		delete(td.GoadBackfire, playerID)
		name := t.name(playerID)
		t.announce(fmt.Sprintf("%s shrugs it off", name), "", fmt.Sprintf("%d gp goes into the pot", obligation.ResistCost))
		t.record("resist", playerID, obligation.GoadedBy, fmt.Sprintf("%s paid to resist a goad", name), obligation.ResistCost)
		return nil
	})
}

// Cheat secretly nudges one of the actor's own hidden dice. dieIndex
// defaults to the hole die.
func (gm *GameManager) Cheat(ctx context.Context, actorID string, dieIndex *int, adjustment int) (Outcome, error) {
	return gm.runAndReveal(ctx, actorID, func(t *txn) error {
		if err := t.skillGate(actorID, SkillCheat, false); err != nil {
			return err
		}
		if len(t.nonHouse()) < constants.CheatMinParticipants {
			return reject(CodeInvalidRequest, "nobody is here to fool")
		}
		if adjustment == 0 || adjustment < -constants.CheatMaxAdjustment || adjustment > constants.CheatMaxAdjustment {
			return reject(CodeInvalidRequest, "adjust a die by 1 to %d either way", constants.CheatMaxAdjustment)
		}
		td := t.table()
		index := holeDie(td.Rolls[actorID])
		if dieIndex != nil {
			index = *dieIndex
		}
		if err := t.dieIndex(actorID, index); err != nil {
			return err
		}
		roll := td.Rolls[actorID][index]
		if roll.Public {
			return reject(CodeInvalidDie, "the table can see that die")
		}
		value := min(max(roll.Result+adjustment, 1), roll.Die)
		if value == roll.Result {
			return reject(CodeInvalidRequest, "that would not change the die")
		}

		heat := td.Heat(actorID)
		check, err := t.check(actorID, wallet.StatSleightOfHand)
		if err != nil {
			return err
		}
		td.CheatsThisRound++
		name := t.name(actorID)

		switch {
		case check.CriticalSuccess():
			t.setResult(actorID, index, value)
			td.Cheaters[actorID] = append(td.Cheaters[actorID], types.CheatRecord{DieIndex: index, Invisible: true})
			t.tell(actorID, "Flawless", fmt.Sprintf("Your d%d now shows %d and nobody will ever know", roll.Die, value))
			t.record("cheat", actorID, "", fmt.Sprintf("%s cheated without a trace", name), 0)
		case check.CriticalFailure():
			// caught players sit out like a fold; busts stays tied to the total
			td.Caught[actorID] = true
			td.Folded[actorID] = true
			td.Holds[actorID] = true
			delete(td.GoadBackfire, actorID)
			td.PlayerHeat[actorID] = heat + constants.HeatDCStep
			if _, err := t.penalize(actorID); err != nil {
				return err
			}
			t.announce("Caught cheating!", "", fmt.Sprintf("%s was caught with a loaded die and forfeits the round", name))
			t.cutIn(SkillCheat, actorID, "", outcomeResult(check, false))
			t.record("caught", actorID, "", fmt.Sprintf("%s was caught cheating", name), t.gm.ante)
		case dice.Threshold(check, heat):
			t.setResult(actorID, index, value)
			td.Cheaters[actorID] = append(td.Cheaters[actorID], types.CheatRecord{DieIndex: index})
			td.PlayerHeat[actorID] = heat + constants.HeatDCStep
			t.tell(actorID, "Sleight of hand", fmt.Sprintf("Your d%d now shows %d", roll.Die, value))
			t.record("cheat", actorID, "", fmt.Sprintf("%s cheated", name), 0)
		default:
			td.PlayerHeat[actorID] = heat + constants.HeatDCStep
			t.tell(actorID, "Fumbled", "You could not palm the die. Nothing changed, but eyes are on you.")
			t.record("cheat", actorID, "", fmt.Sprintf("%s tried to cheat", name), 0)
		}
		t.completeSkill(actorID, SkillCheat)
		return nil
	})
}

// Hunch is a WIS check that foretells the actor's next roll.
func (gm *GameManager) Hunch(ctx context.Context, actorID string) (Outcome, error) {
	return gm.runAndReveal(ctx, actorID, func(t *txn) error {
		if err := t.skillGate(actorID, SkillHunch, true); err != nil {
			return err
		}
		td := t.table()
		check, err := t.check(actorID, wallet.StatWisdom)
		if err != nil {
			return err
		}
		allowed := t.availableDice(actorID)
		name := t.name(actorID)

		switch {
		case check.CriticalFailure():
			largest := slices.Max(allowed)
			td.HunchLockedDie[actorID] = largest
			t.tell(actorID, "Bad feeling", fmt.Sprintf("Your next roll must be the d%d", largest))
			t.cutIn(SkillHunch, actorID, "", outcomeResult(check, false))
		case dice.Threshold(check, constants.HunchDC):
			destined := make(map[int]int, len(allowed))
			predictions := make(map[int]string, len(allowed))
			var lines []string
			for _, die := range allowed {
				value, err := gm.roller.Roll(die)
				if err != nil {
					return fmt.Errorf("failed to probe d%d: %v", die, err)
				}
				destined[die] = value
				if check.CriticalSuccess() {
					predictions[die] = fmt.Sprintf("%d", value)
				} else if value > constants.HunchThresholds[die] {
					predictions[die] = "HIGH"
				} else {
					predictions[die] = "LOW"
				}
				lines = append(lines, fmt.Sprintf("d%d: %s", die, predictions[die]))
			}
			td.HunchRolls[actorID] = destined
			td.HunchPrediction[actorID] = predictions
			td.HunchExact[actorID] = check.CriticalSuccess()
			title := "Hunch"
			if check.CriticalSuccess() {
				title = "Perfect foresight"
			}
			t.tell(actorID, title, strings.Join(lines, ", "))
			t.cutIn(SkillHunch, actorID, "", outcomeResult(check, true))
		default:
			td.HunchLocked[actorID] = true
			t.tell(actorID, "Clouded", "Your next roll is blind until the reveal")
			t.cutIn(SkillHunch, actorID, "", outcomeResult(check, false))
		}
		t.record("hunch", actorID, "", fmt.Sprintf("%s followed a hunch", name), 0)
		t.completeSkill(actorID, SkillHunch)
		return nil
	})
}

// availableDice lists the dice the player may still roll this round.
func (t *txn) availableDice(playerID string) []int {
	td := t.table()
	allowed := td.GameMode.AllowedDice()
	if td.GameMode != types.GameModeGoblin {
		return allowed
	}
	out := slices.DeleteFunc(slices.Clone(allowed), func(die int) bool {
		return slices.Contains(td.UsedDice[playerID], die)
	})
	if len(out) == 0 {
		return allowed
	}
	return out
}

// Profile reads a target: the actor's investigation against the target's
// passive deception.
func (gm *GameManager) Profile(ctx context.Context, actorID, targetID string) (Outcome, error) {
	return gm.runAndReveal(ctx, actorID, func(t *txn) error {
		if err := t.skillGate(actorID, SkillProfile, true); err != nil {
			return err
		}
		if err := t.targetGate(actorID, targetID, true); err != nil {
			return err
		}
		td := t.table()
		attack, err := t.check(actorID, wallet.StatInvestigation)
		if err != nil {
			return err
		}
		deception, err := t.gm.wallet.StatModifier(t.ctx, t.actorID(targetID), wallet.StatDeception)
		if err != nil {
			return fmt.Errorf("failed to read deception of %s: %v", targetID, err)
		}
		td.ProfiledBy[targetID] = append(td.ProfiledBy[targetID], actorID)
		actor, target := t.name(actorID), t.name(targetID)

		switch {
		case attack.CriticalFailure():
			message := fmt.Sprintf("%s tipped their hand", actor)
			if hole := holeDie(td.Rolls[actorID]); hole >= 0 {
				roll := td.Rolls[actorID][hole]
				message += fmt.Sprintf(": their hole d%d shows %d", roll.Die, roll.Result)
			}
			if td.HasCheated(actorID) {
				message += ", and they have cheated this round"
			} else {
				message += ", and they have played it straight"
			}
			t.tell(targetID, "Read them back", message)
			t.cutIn(SkillProfile, actorID, targetID, outcomeResult(attack, false))
		case dice.Contest(attack, constants.PassiveBase+deception):
			message := fmt.Sprintf("%s has played it straight", target)
			if td.HasCheated(targetID) {
				message = fmt.Sprintf("%s has cheated this round", target)
				if attack.CriticalSuccess() {
					var indices []string
					for _, record := range td.Cheaters[targetID] {
						indices = append(indices, fmt.Sprintf("%d", record.DieIndex+1))
					}
					message += fmt.Sprintf(" (die %s)", strings.Join(indices, ", "))
				}
			}
			t.tell(actorID, "Profile", message)
			t.cutIn(SkillProfile, actorID, targetID, outcomeResult(attack, true))
		default:
			t.tell(actorID, "Profile", fmt.Sprintf("%s gives nothing away", target))
			t.cutIn(SkillProfile, actorID, targetID, outcomeResult(attack, false))
		}
		t.record("profile", actorID, targetID, fmt.Sprintf("%s studied %s", actor, target), 0)
		t.completeSkill(actorID, SkillProfile)
		return nil
	})
}
