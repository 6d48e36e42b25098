package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/queue"
	"github.com/cbodonnell/twentyone/pkg/tabledata"
)

// ErrStopped is returned when the store worker has exited.
var ErrStopped = errors.New("state store stopped")

// PatchFunc computes a patch from the state current inside the critical
// section. Returning an error marks an infrastructure fault.
type PatchFunc func(ctx context.Context, current *types.GameState) (Patch, error)

// StateManager provides shared access to the game state.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns the latest committed snapshot. Callers must not mutate it.
	Get(ctx context.Context) (*types.GameState, error)
	// Update applies a patch on behalf of actor.
	Update(ctx context.Context, actor string, patch Patch) (*types.GameState, error)
	// UpdateFunc applies the patch computed by fn on behalf of actor.
	UpdateFunc(ctx context.Context, actor string, fn PatchFunc) (*types.GameState, error)
	// IsAuthority reports whether actor may commit mutations.
	IsAuthority(actor string) bool
}

type cacheEntry struct {
	revision  int64
	updatedAt int64
	state     *types.GameState
}

type mutation struct {
	ctx    context.Context
	actor  string
	fn     PatchFunc
	result chan *types.GameState
}

// Store owns the game document. Every mutation runs on the single worker
// started by Start, one at a time and in submission order.
type Store struct {
	settings  Settings
	key       string
	authority string
	limits    Limits
	now       func() time.Time

	mailbox queue.Queue[*mutation]
	cache   atomic.Pointer[cacheEntry]
	// lastKnown survives cache invalidation and backs fallback returns
	lastKnown atomic.Pointer[types.GameState]
	done      chan struct{}

	subscribersLock sync.RWMutex
	subscribers     map[chan *types.GameState]struct{}
}

type NewStoreOptions struct {
	Settings Settings
	// Key defaults to constants.StateSettingKey
	Key string
	// Authority is the only actor allowed to commit mutations
	Authority string
	Limits    Limits
	// QueueSize bounds pending mutations; zero uses the queue default
	QueueSize int
	Now       func() time.Time
}

func NewStore(opts NewStoreOptions) *Store {
	if opts.Key == "" {
		opts.Key = constants.StateSettingKey
	}
	if opts.Limits.HistoryCap == 0 {
		opts.Limits.HistoryCap = constants.HistoryCap
	}
	if opts.Limits.PrivateLogCap == 0 {
		opts.Limits.PrivateLogCap = constants.PrivateLogCap
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		settings:    opts.Settings,
		key:         opts.Key,
		authority:   opts.Authority,
		limits:      opts.Limits,
		now:         opts.Now,
		mailbox:     queue.NewInMemoryQueue[*mutation](opts.QueueSize),
		done:        make(chan struct{}),
		subscribers: make(map[chan *types.GameState]struct{}),
	}
}

func (s *Store) IsAuthority(actor string) bool {
	return actor != "" && actor == s.authority
}

// Authority returns the identity allowed to commit mutations.
func (s *Store) Authority() string {
	return s.authority
}

// Start runs the mutation worker until ctx is done.
func (s *Store) Start(ctx context.Context) {
	defer close(s.done)
	defer s.mailbox.Close()

	for {
		m, err := s.mailbox.Dequeue(ctx)
		if err != nil {
			return
		}
		m.result <- s.apply(m)
	}
}

// Get serves the cached snapshot, rereading the settings store on a miss.
func (s *Store) Get(ctx context.Context) (*types.GameState, error) {
	if entry := s.cache.Load(); entry != nil {
		return entry.state, nil
	}

	gameState, err := s.settings.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %v", err)
	}
	if gameState == nil {
		gameState = types.NewGameState()
	}
	s.remember(gameState)
	return gameState, nil
}

// remember caches a snapshot unless a newer one is already cached.
func (s *Store) remember(gameState *types.GameState) {
	entry := &cacheEntry{revision: gameState.Revision, updatedAt: gameState.UpdatedAt, state: gameState}
	for {
		current := s.cache.Load()
		if current != nil && (current.revision > entry.revision ||
			(current.revision == entry.revision && current.updatedAt >= entry.updatedAt)) {
			return
		}
		if s.cache.CompareAndSwap(current, entry) {
			s.lastKnown.Store(gameState)
			return
		}
	}
}

func (s *Store) invalidate() {
	s.cache.Store(nil)
}

// fallback returns the best state known without touching storage.
func (s *Store) fallback() *types.GameState {
	if gameState := s.lastKnown.Load(); gameState != nil {
		return gameState
	}
	return types.NewGameState()
}

func (s *Store) Update(ctx context.Context, actor string, patch Patch) (*types.GameState, error) {
	return s.UpdateFunc(ctx, actor, func(ctx context.Context, current *types.GameState) (Patch, error) {
		return patch, nil
	})
}

// UpdateFunc queues fn behind every earlier mutation. Non-authority actors get
// the current state back without anything being queued. Once queued, the
// mutation runs to completion even if ctx is cancelled.
func (s *Store) UpdateFunc(ctx context.Context, actor string, fn PatchFunc) (*types.GameState, error) {
	if !s.IsAuthority(actor) {
		log.Warn("Rejected state update from non-authority actor %q", actor)
		return s.Get(ctx)
	}

	m := &mutation{
		ctx:    context.WithoutCancel(ctx),
		actor:  actor,
		fn:     fn,
		result: make(chan *types.GameState, 1),
	}
	if err := s.mailbox.Enqueue(ctx, m); err != nil {
		if errors.Is(err, queue.ErrClosed) {
			return nil, ErrStopped
		}
		return nil, fmt.Errorf("failed to enqueue state update: %v", err)
	}

	select {
	case gameState := <-m.result:
		return gameState, nil
	case <-s.done:
		// the worker may have finished this mutation just before exiting
		select {
		case gameState := <-m.result:
			return gameState, nil
		default:
			return nil, ErrStopped
		}
	}
}

// apply is the critical section. It never panics and always returns a state.
func (s *Store) apply(m *mutation) (result *types.GameState) {
	ctx := m.ctx
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic in state update: %v", r)
			s.invalidate()
			result = s.fallback()
		}
	}()

	current, err := s.Get(ctx)
	if err != nil {
		log.Error("Failed to get current game state: %v", err)
		s.invalidate()
		return s.fallback()
	}

	patch, err := m.fn(ctx, current)
	if err != nil {
		log.Error("Failed to compute state patch: %v", err)
		s.invalidate()
		return current
	}
	if len(patch) == 0 {
		return current
	}

	next := current.Copy()
	if err := patch.apply(next, s.limits); err != nil {
		log.Error("Failed to apply state patch %v: %v", patch.Kinds(), err)
		s.invalidate()
		return current
	}
	next.TableData, err = tabledata.Merge(next.TableData, nil)
	if err != nil {
		log.Error("Failed to normalize table data: %v", err)
		s.invalidate()
		return current
	}
	next.Revision = current.Revision + 1
	next.UpdatedAt = max(s.now().UnixMilli(), current.UpdatedAt)
	next.UpdatedBy = m.actor

	if err := s.settings.Set(ctx, s.key, next); err != nil {
		log.Error("Failed to persist game state revision %d: %v", next.Revision, err)
		s.invalidate()
		return current
	}

	s.remember(next)
	log.Debug("Committed game state revision %d: %v", next.Revision, patch.Kinds())
	s.publish(next)
	return next
}

// Subscribe returns a channel receiving every committed snapshot. Slow
// subscribers miss snapshots rather than blocking the worker.
func (s *Store) Subscribe() <-chan *types.GameState {
	ch := make(chan *types.GameState, 16)
	s.subscribersLock.Lock()
	defer s.subscribersLock.Unlock()
	s.subscribers[ch] = struct{}{}
	return ch
}

func (s *Store) Unsubscribe(ch <-chan *types.GameState) {
	s.subscribersLock.Lock()
	defer s.subscribersLock.Unlock()
	for sub := range s.subscribers {
		if sub == ch {
			delete(s.subscribers, sub)
			close(sub)
			return
		}
	}
}

func (s *Store) publish(gameState *types.GameState) {
	s.subscribersLock.RLock()
	defer s.subscribersLock.RUnlock()
	for sub := range s.subscribers {
		select {
		case sub <- gameState:
		default:
			log.Warn("Dropped game state revision %d for a slow subscriber", gameState.Revision)
		}
	}
}
