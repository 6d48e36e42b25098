package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/queue"
)

const defaultEnqueueTimeout = 50 * time.Millisecond

type EffectDispatcher struct {
	effectQueue    queue.Queue[effects.Effect]
	notifier       effects.Notifier
	enqueueTimeout time.Duration
}

type NewEffectDispatcherOptions struct {
	EffectQueue queue.Queue[effects.Effect]
	Notifier    effects.Notifier
	// EnqueueTimeout bounds how long Dispatch waits on a full queue
	EnqueueTimeout time.Duration
}

// NewEffectDispatcher creates a new EffectDispatcher.
// The dispatcher takes effects from committed game transitions
// and delivers them to the notifier one at a time, in order.
func NewEffectDispatcher(opts NewEffectDispatcherOptions) *EffectDispatcher {
	if opts.EnqueueTimeout <= 0 {
		opts.EnqueueTimeout = defaultEnqueueTimeout
	}
	return &EffectDispatcher{
		effectQueue:    opts.EffectQueue,
		notifier:       opts.Notifier,
		enqueueTimeout: opts.EnqueueTimeout,
	}
}

// Dispatch queues effects for delivery. It never waits longer than the
// enqueue timeout; effects that do not fit are dropped.
func (w *EffectDispatcher) Dispatch(ctx context.Context, effs ...effects.Effect) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.enqueueTimeout)
	defer cancel()
	for _, e := range effs {
		if err := w.effectQueue.Enqueue(ctx, e); err != nil {
			log.Error("Failed to queue %s effect: %v", e.Kind, err)
		}
	}
}

func (w *EffectDispatcher) Start(ctx context.Context) {
	for {
		e, err := w.effectQueue.Dequeue(ctx)
		if err != nil {
			return
		}
		if err := effects.Deliver(ctx, w.notifier, e); err != nil {
			log.Error("Failed to deliver %s effect: %v", e.Kind, err)
		}
	}
}
