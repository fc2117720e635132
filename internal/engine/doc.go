// Package engine implements a deterministic, event-sourced betting engine
// for a single hand of No-Limit Hold'em.
//
// The engine consumes an initial GameConfig plus an ordered sequence of
// events and derives a HandState from them. Events are the only channel
// through which state changes: every applied event produces a fresh
// immutable snapshot, so a persisted event log can be folded back into an
// identical state at any time.
//
// # Basic Usage
//
// Drive a hand live by applying events one at a time:
//
//	e, _ := engine.New(cfg)
//	e.ApplyEvent(initEvent)
//	e.ApplyEvent(blindsEvent)
//	// ...
//	if res := e.ValidateAction("p1", engine.ActionRaise, 60); res.Valid {
//	    e.ApplyEvent(actionEvent)
//	}
//
// Or rebuild a completed hand from its persisted log:
//
//	e, err := engine.New(cfg, engine.WithEvents(persisted))
//
// # Architecture
//
// The package is split along the lines of its responsibilities:
//   - events.go: the closed set of domain events and their wire form
//   - state.go: HandState and its nested value types
//   - rules.go: pure functions over a snapshot (legal actions, ordering,
//     round completion)
//   - reducers.go: per-event state transitions
//   - sidepots.go: pot partitioning at all-in boundaries
//   - showdown.go: winner determination at the river
//   - engine.go: the reducer loop, listeners, and automatic transitions
//
// The engine itself is single-threaded; callers are responsible for
// serializing access to one Engine instance. Replaying a log against
// independent instances is safe to do concurrently.
package engine
