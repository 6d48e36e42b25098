package workers

import (
	"context"

	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
)

// StatePublisher pushes committed snapshots to connected observers.
type StatePublisher interface {
	PublishState(ctx context.Context, gameState *types.GameState) error
}

type StateBroadcastWorker struct {
	publisher StatePublisher
	stateChan <-chan *types.GameState
}

type NewStateBroadcastWorkerOptions struct {
	Publisher StatePublisher
	StateChan <-chan *types.GameState
}

// NewStateBroadcastWorker creates a new StateBroadcastWorker.
// The worker forwards every committed snapshot to the publisher.
func NewStateBroadcastWorker(opts NewStateBroadcastWorkerOptions) *StateBroadcastWorker {
	return &StateBroadcastWorker{
		publisher: opts.Publisher,
		stateChan: opts.StateChan,
	}
}

func (w *StateBroadcastWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case gameState, ok := <-w.stateChan:
			if !ok {
				return
			}
			if err := w.publisher.PublishState(ctx, gameState); err != nil {
				log.Error("Failed to publish game state revision %d: %v", gameState.Revision, err)
			}
		}
	}
}
