package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/twentyone/pkg/dice"
	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game/constants"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/queue"
	"github.com/cbodonnell/twentyone/pkg/state"
	"github.com/cbodonnell/twentyone/pkg/turns"
	"github.com/cbodonnell/twentyone/pkg/wallet"
	"github.com/google/uuid"
)

// EffectSink executes presentation effects off the caller's path.
type EffectSink interface {
	Dispatch(ctx context.Context, effs ...effects.Effect)
}

// GameManager is the mutation request surface of the table. Every entry
// point validates against the state current inside the store's critical
// section and commits as the authority.
type GameManager struct {
	state       state.StateManager
	authority   string
	wallet      wallet.Wallet
	roller      dice.Roller
	sink        EffectSink
	requests    queue.Queue[*Request]
	ante        int
	gameMode    types.GameMode
	revealDelay time.Duration
	now         func() time.Time
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	State     state.StateManager
	Authority string
	Wallet    wallet.Wallet
	Roller    dice.Roller
	Sink      EffectSink
	// Requests feeds Start; it may be nil when entry points are called directly
	Requests    queue.Queue[*Request]
	Ante        int
	GameMode    types.GameMode
	RevealDelay time.Duration
	Now         func() time.Time
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	if opts.Ante <= 0 {
		opts.Ante = constants.DefaultAnte
	}
	if !opts.GameMode.Valid() {
		opts.GameMode = types.GameModeStandard
	}
	if opts.RevealDelay < 0 {
		opts.RevealDelay = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GameManager{
		state:       opts.State,
		authority:   opts.Authority,
		wallet:      opts.Wallet,
		roller:      opts.Roller,
		sink:        opts.Sink,
		requests:    opts.Requests,
		ante:        opts.Ante,
		gameMode:    opts.GameMode,
		revealDelay: opts.RevealDelay,
		now:         opts.Now,
	}
}

// Authority returns the identity the manager commits as.
func (gm *GameManager) Authority() string {
	return gm.authority
}

// State returns the latest committed snapshot.
func (gm *GameManager) State(ctx context.Context) (*types.GameState, error) {
	return gm.state.Get(ctx)
}

// Outcome is the result of one request.
type Outcome struct {
	State   *types.GameState
	Effects []effects.Effect
	// Rejection is set when the request broke a rule; State is then unchanged
	Rejection *RuleError
	// complete reports that the round has no active player left
	complete bool
}

// txn is the working copy a single request mutates inside the critical section.
type txn struct {
	ctx       context.Context
	gm        *GameManager
	requester string
	state     *types.GameState
	effects   []effects.Effect
	history   []types.HistoryEntry
	private   []privateEntry
	complete  bool
}

type privateEntry struct {
	recipientID string
	entry       types.PrivateLogEntry
}

// run executes action against a fresh working copy and commits the result.
// Rule violations leave the state untouched and warn the requester.
func (gm *GameManager) run(ctx context.Context, requester string, action func(t *txn) error) (Outcome, error) {
	var (
		out      Outcome
		infraErr error
		base     int64
	)
	committed, err := gm.state.UpdateFunc(ctx, gm.authority, func(ctx context.Context, current *types.GameState) (state.Patch, error) {
		base = current.Revision
		out = Outcome{}
		t := &txn{ctx: ctx, gm: gm, requester: requester, state: current.Copy()}
		if err := action(t); err != nil {
			if rerr, ok := AsRuleError(err); ok {
				out.Rejection = rerr
				return nil, nil
			}
			infraErr = err
			return nil, err
		}
		out.Effects = t.effects
		out.complete = t.complete
		return t.patch(), nil
	})
	if err != nil {
		return Outcome{}, err
	}
	out.State = committed

	if out.Rejection != nil {
		log.Debug("Rejected request from %s: %v", requester, out.Rejection)
		warning := effects.Warning(requester, out.Rejection.Message)
		out.Effects = []effects.Effect{warning}
		gm.dispatch(ctx, warning)
		return out, nil
	}
	if infraErr != nil {
		out.Effects = nil
		return out, infraErr
	}
	if committed == nil || committed.Revision != base+1 {
		out.Effects = nil
		return out, fmt.Errorf("failed to commit game state")
	}
	gm.dispatch(ctx, out.Effects...)
	return out, nil
}

// runAndReveal runs action and, when it left nobody to act, reveals and
// settles the round.
func (gm *GameManager) runAndReveal(ctx context.Context, requester string, action func(t *txn) error) (Outcome, error) {
	out, err := gm.run(ctx, requester, action)
	if err != nil || out.Rejection != nil || !out.complete {
		return out, err
	}
	revealed, err := gm.reveal(ctx, requester, false)
	if err != nil {
		return out, err
	}
	revealed.Effects = append(out.Effects, revealed.Effects...)
	return revealed, nil
}

func (gm *GameManager) dispatch(ctx context.Context, effs ...effects.Effect) {
	if gm.sink == nil || len(effs) == 0 {
		return
	}
	gm.sink.Dispatch(ctx, effs...)
}

func (t *txn) patch() state.Patch {
	gs := t.state
	p := state.Patch{
		state.SetStatus(gs.Status),
		state.SetPot(gs.Pot),
		state.ReplaceTurnOrder(gs.TurnOrder),
		state.ReplacePlayers(gs.Players),
		state.ReplaceAutoplay(gs.Autoplay),
		state.ReplaceNPCWallets(gs.NPCWallets),
		state.ReplaceTable(gs.TableData),
		state.SetTurnIndex(turns.TurnIndex(gs.TurnOrder, gs.TableData)),
	}
	if len(t.history) > 0 {
		p = append(p, state.AppendHistory(t.history...))
	}
	for _, e := range t.private {
		p = append(p, state.AppendPrivateLog(e.recipientID, e.entry))
	}
	return p
}

func (t *txn) table() *types.TableData {
	return &t.state.TableData
}

func (t *txn) announce(title, subtitle, message string) {
	t.effects = append(t.effects, effects.Announcement(title, subtitle, message))
}

// tell sends private feedback and keeps it in the recipient's private log.
func (t *txn) tell(recipientID, title, message string) {
	t.effects = append(t.effects, effects.Private(recipientID, title, message))
	t.private = append(t.private, privateEntry{
		recipientID: recipientID,
		entry: types.PrivateLogEntry{
			ID:        uuid.NewString(),
			Timestamp: t.gm.now().UnixMilli(),
			Title:     title,
			Message:   message,
		},
	})
}

func (t *txn) cutIn(skill, actorID, targetID string, result map[string]interface{}) {
	t.effects = append(t.effects, effects.CutIn(skill, actorID, targetID, result))
}

func (t *txn) record(kind, actorID, targetID, message string, amount int, players ...string) {
	t.history = append(t.history, types.HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: t.gm.now().UnixMilli(),
		Type:      kind,
		ActorID:   actorID,
		TargetID:  targetID,
		Message:   message,
		Amount:    amount,
		Players:   players,
	})
}

// isHouse reports whether id is the neutral house: the authority seated
// without an NPC binding.
func (t *txn) isHouse(id string) bool {
	return id == t.gm.authority && !t.state.Players[id].IsNPC()
}

func (t *txn) nonHouse() []string {
	out := make([]string, 0, len(t.state.TurnOrder))
	for _, id := range t.state.TurnOrder {
		if !t.isHouse(id) {
			out = append(out, id)
		}
	}
	return out
}

func (t *txn) name(id string) string {
	if p, ok := t.state.Players[id]; ok && p.Name != "" {
		return p.Name
	}
	if t.gm.wallet != nil {
		if name, err := t.gm.wallet.Name(t.ctx, t.actorID(id)); err == nil && name != "" {
			return name
		}
	}
	return id
}

// actorID is the identity whose character sheet backs a seat.
func (t *txn) actorID(id string) string {
	if npc := t.state.Players[id].NPCActorID; npc != "" {
		return npc
	}
	return id
}

func (t *txn) walletID(id string) string {
	if w := t.state.Players[id].WalletID; w != "" {
		return w
	}
	return id
}

func (t *txn) canAfford(id string, amount int) (bool, error) {
	if t.state.Players[id].IsNPC() {
		return t.state.NPCWallets[id] >= amount, nil
	}
	ok, err := t.gm.wallet.CanAfford(t.ctx, t.walletID(id), amount)
	if err != nil {
		return false, fmt.Errorf("failed to check funds for %s: %v", id, err)
	}
	return ok, nil
}

func (t *txn) deduct(id string, amount int) (bool, error) {
	if t.state.Players[id].IsNPC() {
		if t.state.NPCWallets[id] < amount {
			return false, nil
		}
		t.state.NPCWallets[id] -= amount
		return true, nil
	}
	ok, err := t.gm.wallet.Deduct(t.ctx, t.walletID(id), amount)
	if err != nil {
		return false, fmt.Errorf("failed to deduct from %s: %v", id, err)
	}
	return ok, nil
}

// payOut credits amountEach to every non-house id.
func (t *txn) payOut(ids []string, amountEach int) error {
	if amountEach <= 0 {
		return nil
	}
	var walletIDs []string
	for _, id := range ids {
		switch {
		case t.isHouse(id):
		case t.state.Players[id].IsNPC():
			t.state.NPCWallets[id] += amountEach
		default:
			walletIDs = append(walletIDs, t.walletID(id))
		}
	}
	if len(walletIDs) == 0 {
		return nil
	}
	if err := t.gm.wallet.PayOut(t.ctx, walletIDs, amountEach); err != nil {
		return fmt.Errorf("failed to pay out: %v", err)
	}
	return nil
}

// penalize moves one ante from id into the pot when they can cover it.
func (t *txn) penalize(id string) (bool, error) {
	ok, err := t.deduct(id, t.gm.ante)
	if err != nil {
		return false, err
	}
	if ok {
		t.state.Pot += t.gm.ante
	}
	return ok, nil
}

func (t *txn) check(id string, stat string) (dice.CheckResult, error) {
	modifier, err := t.gm.wallet.StatModifier(t.ctx, t.actorID(id), stat)
	if err != nil {
		return dice.CheckResult{}, fmt.Errorf("failed to read %s of %s: %v", stat, id, err)
	}
	result, err := dice.Check(t.gm.roller, modifier, t.table().Sloppy[id])
	if err != nil {
		return dice.CheckResult{}, err
	}
	return result, nil
}

// advance hands the turn to the next active player, ending the opening when
// every player has their opening dice.
func (t *txn) advance() {
	td := t.table()
	if td.Phase == types.PhaseOpening && turns.OpeningComplete(t.state.TurnOrder, *td) {
		t.endOpening()
		return
	}
	td.CurrentPlayer = turns.NextActivePlayer(t.state.TurnOrder, *td)
	td.SkillUsedThisTurn = false
	if td.CurrentPlayer == "" {
		t.complete = true
	}
}

func (t *txn) endOpening() {
	td := t.table()
	if candidate := turns.CutCandidate(t.state.TurnOrder, *td); candidate != "" && !td.TheCutUsed {
		td.Phase = types.PhaseCut
		td.TheCutPlayer = candidate
		td.CurrentPlayer = candidate
		td.SkillUsedThisTurn = false
		t.announce("The Cut", "", fmt.Sprintf("%s shows the lowest hand and may reroll their hole die", t.name(candidate)))
		return
	}
	t.startBetting()
}

func (t *txn) startBetting() {
	td := t.table()
	td.Phase = types.PhaseBetting
	td.CurrentPlayer = ""
	td.CurrentPlayer = turns.NextActivePlayer(t.state.TurnOrder, *td)
	td.SkillUsedThisTurn = false
	if td.CurrentPlayer == "" {
		t.complete = true
	}
}

// settleTurn moves the turn on if the current player can no longer act.
func (t *txn) settleTurn() {
	td := t.table()
	if td.CurrentPlayer != "" && !td.Finished(td.CurrentPlayer) {
		return
	}
	if turns.AllFinished(t.state.TurnOrder, *td) {
		td.CurrentPlayer = ""
		t.complete = true
		return
	}
	t.advance()
}

// setResult changes one die and keeps the totals in step.
func (t *txn) setResult(id string, index int, value int) (old int) {
	td := t.table()
	roll := td.Rolls[id][index]
	delta := value - roll.Result
	td.Rolls[id][index].Result = value
	td.Totals[id] += delta
	if roll.Public {
		td.VisibleTotals[id] += delta
	}
	t.checkBust(id)
	return roll.Result
}

func (t *txn) reroll(id string, index int) (old, value int, err error) {
	roll := t.table().Rolls[id][index]
	value, err = t.gm.roller.Roll(roll.Die)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to reroll d%d: %v", roll.Die, err)
	}
	return t.setResult(id, index, value), value, nil
}

func (t *txn) checkBust(id string) {
	td := t.table()
	if td.Busts[id] || td.Totals[id] <= constants.TargetTotal {
		return
	}
	td.Busts[id] = true
	t.announce("Bust!", "", fmt.Sprintf("%s goes over %d", t.name(id), constants.TargetTotal))
	t.record("bust", id, "", fmt.Sprintf("%s busted", t.name(id)), 0)
}

// Request is a queued action for Start to process.
type Request struct {
	ParticipantID string
	Action        string
	Payload       []byte
	Reply         chan<- Reply
}

type Reply struct {
	Outcome Outcome
	Err     error
}

// Submit queues a request for Start and waits for its reply.
func (gm *GameManager) Submit(ctx context.Context, participantID, action string, payload []byte) (Outcome, error) {
	if gm.requests == nil {
		return gm.Handle(ctx, participantID, action, payload)
	}
	reply := make(chan Reply, 1)
	req := &Request{ParticipantID: participantID, Action: action, Payload: payload, Reply: reply}
	if err := gm.requests.Enqueue(ctx, req); err != nil {
		return Outcome{}, fmt.Errorf("failed to enqueue request: %v", err)
	}
	select {
	case r := <-reply:
		return r.Outcome, r.Err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Start processes queued requests until ctx is done.
func (gm *GameManager) Start(ctx context.Context) error {
	if gm.requests == nil {
		return fmt.Errorf("game manager has no request queue")
	}
	for {
		req, err := gm.requests.Dequeue(ctx)
		if err != nil {
			return nil
		}
		gm.processRequest(ctx, req)
	}
}

func (gm *GameManager) processRequest(ctx context.Context, req *Request) {
	out, err := gm.Handle(ctx, req.ParticipantID, req.Action, req.Payload)
	if err != nil {
		log.Error("Failed to handle %s from %s: %v", req.Action, req.ParticipantID, err)
	}
	if req.Reply != nil {
		req.Reply <- Reply{Outcome: out, Err: err}
	}
}
