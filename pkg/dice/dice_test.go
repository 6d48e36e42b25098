package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededRollerRange(t *testing.T) {
	r := NewSeededRoller(42)
	for _, sides := range []int{2, 4, 6, 8, 10, 20} {
		for i := 0; i < 200; i++ {
			v, err := r.Roll(sides)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, sides)
		}
	}
}

func TestSeededRollerDeterministic(t *testing.T) {
	a, b := NewSeededRoller(7), NewSeededRoller(7)
	for i := 0; i < 20; i++ {
		x, err := a.Roll(20)
		require.NoError(t, err)
		y, err := b.Roll(20)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestInvalidSides(t *testing.T) {
	_, err := NewSeededRoller(1).Roll(0)
	assert.ErrorIs(t, err, ErrInvalidSides)
	_, err = NewScriptedRoller(3).Roll(-1)
	assert.ErrorIs(t, err, ErrInvalidSides)
}

func TestScriptedRoller(t *testing.T) {
	r := NewScriptedRoller(3, 25, 0)
	v, err := r.Roll(6)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	v, err = r.Roll(20)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	v, err = r.Roll(4)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = r.Roll(4)
	assert.ErrorIs(t, err, ErrExhausted)

	r.Push(2)
	assert.Equal(t, 1, r.Remaining())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		faces        []int
		modifier     int
		disadvantage bool
		wantNatural  int
		wantTotal    int
	}{
		{name: "plain", faces: []int{12}, modifier: 3, wantNatural: 12, wantTotal: 15},
		{name: "disadvantage keeps lower", faces: []int{18, 4}, modifier: 2, disadvantage: true, wantNatural: 4, wantTotal: 6},
		{name: "disadvantage loses a natural 20", faces: []int{20, 11}, disadvantage: true, wantNatural: 11, wantTotal: 11},
		{name: "negative modifier", faces: []int{5}, modifier: -2, wantNatural: 5, wantTotal: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(NewScriptedRoller(tt.faces...), tt.modifier, tt.disadvantage)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNatural, got.Natural)
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.faces, got.Faces)
		})
	}
}

func TestContest(t *testing.T) {
	tests := []struct {
		name    string
		attack  CheckResult
		defense int
		want    bool
	}{
		{name: "strictly greater wins", attack: CheckResult{Natural: 10, Total: 14}, defense: 13, want: true},
		{name: "tie favours defender", attack: CheckResult{Natural: 10, Total: 13}, defense: 13, want: false},
		{name: "natural 1 always fails", attack: CheckResult{Natural: 1, Total: 30}, defense: 2, want: false},
		{name: "natural 20 always wins", attack: CheckResult{Natural: 20, Total: 20}, defense: 25, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contest(tt.attack, tt.defense))
		})
	}
}

func TestThreshold(t *testing.T) {
	assert.True(t, Threshold(CheckResult{Natural: 9, Total: 12}, 12))
	assert.False(t, Threshold(CheckResult{Natural: 9, Total: 11}, 12))
	assert.False(t, Threshold(CheckResult{Natural: 1, Total: 15}, 12))
	assert.True(t, Threshold(CheckResult{Natural: 20, Total: 18}, 25))
}
