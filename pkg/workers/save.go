package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/twentyone/pkg/diagnostics"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/state"
)

type AuditWorker struct {
	stateManager state.StateManager
	limits       diagnostics.Limits
	interval     time.Duration
	lastRevision int64
}

type NewAuditWorkerOptions struct {
	StateManager state.StateManager
	Limits       diagnostics.Limits
	Interval     time.Duration
}

// NewAuditWorker creates a new AuditWorker.
// The worker periodically validates the committed game state
// and logs any structural problems it finds.
func NewAuditWorker(opts NewAuditWorkerOptions) *AuditWorker {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	return &AuditWorker{
		stateManager: opts.StateManager,
		limits:       opts.Limits,
		interval:     opts.Interval,
		lastRevision: -1,
	}
}

func (w *AuditWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.audit(ctx)
		}
	}
}

// audit validates the current snapshot once per revision and returns the
// number of issues found.
func (w *AuditWorker) audit(ctx context.Context) int {
	gameState, err := w.stateManager.Get(ctx)
	if err != nil {
		log.Error("Failed to get current game state: %v", err)
		return 0
	}
	if gameState.Revision == w.lastRevision {
		return 0
	}
	w.lastRevision = gameState.Revision

	issues := diagnostics.Validate(gameState, w.limits)
	for _, issue := range issues {
		if issue.Severity == diagnostics.SeverityError {
			log.Error("Game state revision %d: %s: %s", gameState.Revision, issue.Field, issue.Message)
		} else {
			log.Warn("Game state revision %d: %s: %s", gameState.Revision, issue.Field, issue.Message)
		}
	}
	return len(issues)
}
