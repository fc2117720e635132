package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cardroom/handengine/internal/engine"
)

// Recorder is an engine.EventListener that appends every event it sees to
// a Store under the hand's ID, assigning sequence numbers in arrival
// order. Persistence is best-effort from the engine's point of view:
// append failures are logged and the engine is never failed. A production
// deployment that needs stronger guarantees should drain an outbox
// instead of writing inline.
type Recorder struct {
	store  Store
	handID string
	logger *log.Logger

	mu  sync.Mutex
	seq int
}

// NewRecorder creates a recorder for one hand.
func NewRecorder(s Store, handID string, logger *log.Logger) *Recorder {
	return &Recorder{
		store:  s,
		handID: handID,
		logger: logger.WithPrefix("recorder"),
	}
}

// HandleEvent implements engine.EventListener.
func (r *Recorder) HandleEvent(ev engine.Event) {
	r.mu.Lock()
	seq := r.seq
	r.seq++
	r.mu.Unlock()

	if err := r.store.Append(context.Background(), r.handID, seq, ev); err != nil {
		r.logger.Error("persist event failed",
			"handId", r.handID, "seq", seq, "type", ev.Type, "error", err)
	}
}

// Seq returns the next sequence number to be assigned.
func (r *Recorder) Seq() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}
