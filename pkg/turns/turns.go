// Package turns answers who acts next and whether a round is over. It never
// changes state; the game package drives every transition.
package turns

import (
	"slices"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
)

// NextActivePlayer scans forward from the current player, wrapping at most
// once, and returns the first player who neither holds nor busted. It returns
// "" when nobody qualifies.
func NextActivePlayer(turnOrder []string, td types.TableData) string {
	n := len(turnOrder)
	if n == 0 {
		return ""
	}
	start := slices.Index(turnOrder, td.CurrentPlayer)
	for step := 1; step <= n; step++ {
		id := turnOrder[(start+step+n)%n]
		if !td.Finished(id) {
			return id
		}
	}
	return ""
}

// AllFinished reports whether every seated player holds or busted.
func AllFinished(turnOrder []string, td types.TableData) bool {
	for _, id := range turnOrder {
		if !td.Finished(id) {
			return false
		}
	}
	return true
}

// OpeningComplete reports whether every player still in the round has taken
// the opening dice.
func OpeningComplete(turnOrder []string, td types.TableData) bool {
	for _, id := range turnOrder {
		if td.Finished(id) {
			continue
		}
		if len(td.Rolls[id]) < constants.OpeningDice {
			return false
		}
	}
	return true
}

// CutCandidate returns the unfinished player with the lowest visible total,
// the earliest seat winning ties. It returns "" when fewer than two players
// remain in the round.
func CutCandidate(turnOrder []string, td types.TableData) string {
	candidate := ""
	lowest := 0
	active := 0
	for _, id := range turnOrder {
		if td.Finished(id) {
			continue
		}
		active++
		if candidate == "" || td.VisibleTotals[id] < lowest {
			candidate = id
			lowest = td.VisibleTotals[id]
		}
	}
	if active < 2 {
		return ""
	}
	return candidate
}

// TurnIndex returns the advisory index of the current player.
func TurnIndex(turnOrder []string, td types.TableData) int {
	return max(slices.Index(turnOrder, td.CurrentPlayer), 0)
}
