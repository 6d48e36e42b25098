package effects_test

import (
	"context"
	"testing"
	"time"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/stretchr/testify/assert"

	mocks "github.com/cbodonnell/twentyone/mocks/github.com/cbodonnell/twentyone/pkg/effects"
)

func TestPublic(t *testing.T) {
	tests := []struct {
		effect effects.Effect
		want   bool
	}{
		{effect: effects.Announcement("t", "", "m"), want: true},
		{effect: effects.CutIn("bump", "a", "b", nil), want: true},
		{effect: effects.Reveal("a", 6, 3, 0), want: true},
		{effect: effects.Private("a", "t", "m"), want: false},
		{effect: effects.Warning("a", "m"), want: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.effect.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.effect.Public())
		})
	}
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()
	n := mocks.NewNotifier(t)
	n.EXPECT().CutIn(ctx, "goad", "a", "b", map[string]interface{}{"success": false}).Return(nil)
	n.EXPECT().Reveal(ctx, "a", 8, 7).Return(nil)

	assert.NoError(t, effects.Deliver(ctx, n, effects.CutIn("goad", "a", "b", map[string]interface{}{"success": false})))

	start := time.Now()
	assert.NoError(t, effects.Deliver(ctx, n, effects.Reveal("a", 8, 7, 20*time.Millisecond)))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.Error(t, effects.Deliver(ctx, n, effects.Effect{Kind: "confetti"}))
}

func TestDeliver_CancelledReveal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := mocks.NewNotifier(t)
	err := effects.Deliver(ctx, n, effects.Reveal("a", 6, 3, time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
}
