package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
)

var (
	// ErrInvalidSides is returned when a die has fewer than one side.
	ErrInvalidSides = errors.New("die must have at least one side")
	// ErrExhausted is returned by a ScriptedRoller with no values left.
	ErrExhausted = errors.New("scripted roller exhausted")
)

// Roller produces die results in [1, sides].
type Roller interface {
	Roll(sides int) (int, error)
}

// SeededRoller is a Roller over a seeded math/rand source. It is safe for
// concurrent use.
type SeededRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRoller creates a deterministic roller from a seed.
func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewSource(seed))}
}

// NewRoller creates a roller seeded from crypto/rand.
func NewRoller() (*SeededRoller, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededRoller(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %v", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (r *SeededRoller) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, ErrInvalidSides
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1, nil
}

// ScriptedRoller returns predetermined values in order. Values are clamped
// to the requested die.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
}

func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Push appends values to the script.
func (r *ScriptedRoller) Push(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

// Remaining returns the number of unused values.
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

func (r *ScriptedRoller) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, ErrInvalidSides
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0, ErrExhausted
	}
	v := r.values[0]
	r.values = r.values[1:]
	return min(max(v, 1), sides), nil
}

// CheckResult is the outcome of one d20 check.
type CheckResult struct {
	// Natural is the kept unmodified face
	Natural int
	// Total is Natural plus the modifier
	Total int
	// Faces holds every face rolled; two under disadvantage
	Faces []int
}

func (c CheckResult) CriticalSuccess() bool {
	return c.Natural == constants.NaturalSuccess
}

func (c CheckResult) CriticalFailure() bool {
	return c.Natural == constants.NaturalFailure
}

// Check rolls a d20 plus modifier. With disadvantage two dice are rolled and
// the lower one kept.
func Check(r Roller, modifier int, disadvantage bool) (CheckResult, error) {
	first, err := r.Roll(constants.CheckDie)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to roll check: %v", err)
	}
	result := CheckResult{Natural: first, Faces: []int{first}}
	if disadvantage {
		second, err := r.Roll(constants.CheckDie)
		if err != nil {
			return CheckResult{}, fmt.Errorf("failed to roll disadvantage: %v", err)
		}
		result.Faces = append(result.Faces, second)
		result.Natural = min(first, second)
	}
	result.Total = result.Natural + modifier
	return result, nil
}

// Contest resolves an attacker against a defender total. The attacker must
// strictly exceed the defender and a natural 1 always fails.
func Contest(attack CheckResult, defense int) bool {
	if attack.CriticalFailure() {
		return false
	}
	if attack.CriticalSuccess() {
		return true
	}
	return attack.Total > defense
}

// Threshold resolves a check against a DC. Meeting the DC succeeds and the
// natural faces decide before any modifier.
func Threshold(check CheckResult, dc int) bool {
	if check.CriticalFailure() {
		return false
	}
	if check.CriticalSuccess() {
		return true
	}
	return check.Total >= dc
}
