package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/handengine/internal/handid"
)

// EventListener receives every event the engine applies, including the
// ones it generates itself. Listeners are the hook for the persistence
// collaborator; a failing listener never fails the engine.
type EventListener interface {
	HandleEvent(Event)
}

// Engine folds events into hand state. It owns exactly one current
// snapshot, replaced atomically after each successful reduction; earlier
// snapshots are never mutated.
//
// An Engine is not safe for concurrent use. The caller serializes access,
// typically with a per-hand lock keyed by hand ID.
type Engine struct {
	state     *HandState
	listeners []EventListener
	logger    *log.Logger
	clock     quartz.Clock
	ids       *handid.Generator
	replaying bool

	pending       []Event
	startingChips int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used to timestamp generated events.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithIDs sets the generator used to mint generated event IDs.
func WithIDs(ids *handid.Generator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithEvents replays an existing log during construction. Replay is a
// pure fold: automatic transitions are not re-detected (the log already
// contains them) and listeners are not notified.
func WithEvents(events []Event) Option {
	return func(e *Engine) { e.pending = events }
}

// New constructs an engine for one hand, optionally rebuilding state from
// a persisted event log.
func New(cfg GameConfig, opts ...Option) (*Engine, error) {
	e := &Engine{
		state:  NewHandState(cfg),
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
		ids:    handid.NewGenerator(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithPrefix("engine")

	if len(e.pending) > 0 {
		e.replaying = true
		for i, ev := range e.pending {
			if err := e.applyOne(ev); err != nil {
				e.replaying = false
				return nil, fmt.Errorf("replay event %d (%s): %w", i, ev.Type, err)
			}
		}
		e.replaying = false
		e.pending = nil
	}
	return e, nil
}

// ApplyEvent validates and applies one event, then synchronously detects
// and applies any automatic follow-up transitions (fold-to-one
// completion, street advance, hand completion). The triggering event is
// always emitted to listeners before any generated follow-up.
func (e *Engine) ApplyEvent(ev Event) (*HandState, error) {
	if err := e.applyOne(ev); err != nil {
		return nil, err
	}
	if !e.replaying {
		if err := e.autoAdvance(); err != nil {
			return nil, err
		}
	}
	return e.state, nil
}

// ProcessEvent is an alias for ApplyEvent.
func (e *Engine) ProcessEvent(ev Event) (*HandState, error) {
	return e.ApplyEvent(ev)
}

// CurrentState returns the current snapshot. Snapshots are immutable
// after application, so the result stays valid across further events.
func (e *Engine) CurrentState() *HandState {
	return e.state
}

// CurrentPlayer returns the player on act, or nil when no action is
// pending.
func (e *Engine) CurrentPlayer() *PlayerState {
	if e.state.Betting.ActionOn == "" {
		return nil
	}
	return e.state.Players[e.state.Betting.ActionOn]
}

// LegalActions returns the actions currently available to a player.
func (e *Engine) LegalActions(playerID string) []LegalAction {
	return LegalActions(e.state, playerID)
}

// ValidateAction pre-checks an action before the caller constructs the
// corresponding ACTION_TAKEN event. ApplyEvent repeats the same check and
// fails closed, so this is the first of two lines of defense.
func (e *Engine) ValidateAction(playerID string, action Action, amount int) ValidationResult {
	if err := validateAction(e.state, playerID, action, amount); err != nil {
		return invalid(err)
	}
	return valid()
}

// OnEvent subscribes a listener to all applied and generated events.
func (e *Engine) OnEvent(l EventListener) {
	e.listeners = append(e.listeners, l)
}

// OffEvent removes a previously subscribed listener.
func (e *Engine) OffEvent(l EventListener) {
	for i, sub := range e.listeners {
		if sub == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// applyOne runs the full pipeline for a single event: structural
// validation, reduction onto a cloned snapshot, log append, swap,
// notification.
func (e *Engine) applyOne(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	next := e.state.Clone()
	if err := applyToState(next, ev); err != nil {
		return fmt.Errorf("apply %s: %w", ev.Type, err)
	}
	next.Events = append(next.Events, ev)
	e.state = next

	e.trackChips(ev)
	if !e.replaying {
		e.emit(ev)
	}

	if e.state.Complete {
		if got := e.state.chipTotal(); got != e.startingChips {
			e.logger.Error("chip conservation violated",
				"expected", e.startingChips, "got", got, "gameId", e.state.GameID)
		}
	}
	return nil
}

// trackChips maintains the conserved chip total: seeded by the starting
// stacks, increased only by dead blind money entering from absent seats.
func (e *Engine) trackChips(ev Event) {
	switch p := ev.Payload.(type) {
	case HandInitialized:
		total := 0
		for _, sp := range p.Players {
			total += sp.Stack
		}
		e.startingChips = total
	case BlindsPosted:
		e.startingChips += p.DeadSmallBlind + p.DeadBigBlind
	}
}

// autoAdvance applies generated transitions until the state settles:
// somebody still has to act, or the hand is complete.
func (e *Engine) autoAdvance() error {
	for {
		ev, ok := e.nextAutoEvent()
		if !ok {
			return nil
		}
		e.logger.Debug("auto transition", "type", ev.Type, "street", e.state.Street)
		if err := e.applyOne(ev); err != nil {
			return fmt.Errorf("auto transition %s: %w", ev.Type, err)
		}
	}
}

// nextAutoEvent decides whether the current state calls for a generated
// follow-up event.
func (e *Engine) nextAutoEvent() (Event, bool) {
	s := e.state
	if s.Complete || len(s.Players) == 0 {
		return Event{}, false
	}

	contesting := s.nonFolded()

	if len(contesting) == 1 {
		pot := s.TotalPot()
		return e.newEvent(HandCompleted{
			Winners:  []Winner{{PlayerID: contesting[0], Amount: pot}},
			Showdown: false,
			FinalPot: pot,
		}), true
	}

	if !IsBettingRoundComplete(s) {
		return Event{}, false
	}

	if s.Street == StreetRiver {
		return e.newEvent(HandCompleted{
			Winners:  showdownWinners(s),
			Showdown: true,
			FinalPot: s.TotalPot(),
		}), true
	}

	next, _ := s.Street.Next()
	return e.newEvent(StreetCompleted{
		Street:        s.Street,
		Pot:           s.TotalPot(),
		ActivePlayers: contesting,
		NextStreet:    &next,
	}), true
}

func (e *Engine) newEvent(p Payload) Event {
	return NewEvent(e.ids.Event(), e.clock.Now(), p)
}

// emit notifies listeners one at a time. A panicking listener is logged
// and isolated; it cannot corrupt the already-committed state.
func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		e.notify(l, ev)
	}
}

func (e *Engine) notify(l EventListener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event listener failed", "type", ev.Type, "error", r)
		}
	}()
	l.HandleEvent(ev)
}
