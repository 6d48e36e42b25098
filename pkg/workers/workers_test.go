package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/twentyone/pkg/diagnostics"
	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/queue"
	"github.com/cbodonnell/twentyone/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/twentyone/mocks/github.com/cbodonnell/twentyone/pkg/effects"
)

func TestEffectDispatcher_DeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := mocks.NewNotifier(t)
	var mu sync.Mutex
	var order []string
	done := make(chan struct{})
	track := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, name)
		if len(order) == 4 {
			close(done)
		}
	}
	notifier.EXPECT().Announce(ctx, "Round", "", "started").Return(nil).Run(func(context.Context, string, string, string) { track("announce") })
	notifier.EXPECT().Private(ctx, "a", "Hole die", "3").Return(errors.New("gone")).Run(func(context.Context, string, string, string) { track("private") })
	notifier.EXPECT().Reveal(ctx, "a", 6, 3).Return(nil).Run(func(context.Context, string, int, int) { track("reveal") })
	notifier.EXPECT().Warn(ctx, "b", "not your turn").Return(nil).Run(func(context.Context, string, string) { track("warn") })

	d := NewEffectDispatcher(NewEffectDispatcherOptions{
		EffectQueue: queue.NewInMemoryQueue[effects.Effect](8),
		Notifier:    notifier,
	})
	d.Dispatch(ctx,
		effects.Announcement("Round", "", "started"),
		effects.Private("a", "Hole die", "3"),
		effects.Reveal("a", 6, 3, 5*time.Millisecond),
		effects.Warning("b", "not your turn"),
	)
	go d.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("effects were not delivered")
	}
	assert.Equal(t, []string{"announce", "private", "reveal", "warn"}, order)
}

func TestEffectDispatcher_DropsWhenFull(t *testing.T) {
	q := queue.NewInMemoryQueue[effects.Effect](1)
	d := NewEffectDispatcher(NewEffectDispatcherOptions{
		EffectQueue:    q,
		Notifier:       mocks.NewNotifier(t),
		EnqueueTimeout: time.Millisecond,
	})

	start := time.Now()
	d.Dispatch(context.Background(),
		effects.Announcement("one", "", ""),
		effects.Announcement("two", "", ""),
	)
	assert.Less(t, time.Since(start), time.Second)
	pending := q.ReadAllMessages()
	require.Len(t, pending, 1)
	assert.Equal(t, "one", pending[0].Title)
}

type recordingPublisher struct {
	mu        sync.Mutex
	revisions []int64
	err       error
}

func (p *recordingPublisher) PublishState(ctx context.Context, gameState *types.GameState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revisions = append(p.revisions, gameState.Revision)
	return p.err
}

func (p *recordingPublisher) seen() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.revisions...)
}

func TestStateBroadcastWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := state.NewStore(state.NewStoreOptions{
		Settings:  state.NewMemorySettings(),
		Authority: "gm",
	})
	go store.Start(ctx)

	publisher := &recordingPublisher{err: errors.New("no observers")}
	w := NewStateBroadcastWorker(NewStateBroadcastWorkerOptions{
		Publisher: publisher,
		StateChan: store.Subscribe(),
	})
	go w.Start(ctx)

	for pot := 1; pot <= 3; pot++ {
		_, err := store.Update(ctx, "gm", state.Patch{state.SetPot(pot)})
		require.NoError(t, err)
	}
	assert.Eventually(t, func() bool { return len(publisher.seen()) == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1, 2, 3}, publisher.seen())
}

func TestStateBroadcastWorker_StopsOnClose(t *testing.T) {
	stateChan := make(chan *types.GameState)
	w := NewStateBroadcastWorker(NewStateBroadcastWorkerOptions{
		Publisher: &recordingPublisher{},
		StateChan: stateChan,
	})
	stopped := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(stopped)
	}()
	close(stateChan)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestAuditWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := state.NewStore(state.NewStoreOptions{
		Settings:  state.NewMemorySettings(),
		Authority: "gm",
	})
	go store.Start(ctx)

	w := NewAuditWorker(NewAuditWorkerOptions{
		StateManager: store,
		Limits:       diagnostics.Limits{},
	})
	assert.Equal(t, 0, w.audit(ctx))

	_, err := store.Update(ctx, "gm", state.Patch{state.SetPot(40)})
	require.NoError(t, err)
	assert.Equal(t, 1, w.audit(ctx), "a lobby holding a pot is reported")
	assert.Equal(t, 0, w.audit(ctx), "an unchanged revision is not audited twice")
}
