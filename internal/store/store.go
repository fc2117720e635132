// Package store persists hand event logs. It is the engine's persistence
// collaborator: the engine knows nothing about it beyond the listener
// interface, and the store knows nothing about betting rules.
//
// Every event is appended under a monotonically increasing per-hand
// sequence number, so a hand's log can be reloaded in order and folded
// back into state with engine.WithEvents.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cardroom/handengine/internal/engine"
)

var (
	// ErrSequenceConflict means the appended sequence number is already
	// taken for that hand. Retrying is the caller's business.
	ErrSequenceConflict = errors.New("sequence number already used for hand")

	// ErrHandNotFound means no events exist for the requested hand.
	ErrHandNotFound = errors.New("hand not found")
)

// Store is an append-only event log keyed by hand ID.
type Store interface {
	// Append persists one event at the given per-hand sequence number.
	Append(ctx context.Context, handID string, seq int, ev engine.Event) error

	// Load returns a hand's events in sequence order.
	Load(ctx context.Context, handID string) ([]engine.Event, error)

	// Hands lists the hand IDs present in the store.
	Hands(ctx context.Context) ([]string, error)
}

// Memory is an in-memory Store, used in tests and as the reference
// implementation of the sequencing contract.
type Memory struct {
	mu     sync.Mutex
	events map[string]map[int]engine.Event
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]map[int]engine.Event)}
}

// Append implements Store.
func (m *Memory) Append(_ context.Context, handID string, seq int, ev engine.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hand := m.events[handID]
	if hand == nil {
		hand = make(map[int]engine.Event)
		m.events[handID] = hand
	}
	if _, taken := hand[seq]; taken {
		return fmt.Errorf("%w: hand %q seq %d", ErrSequenceConflict, handID, seq)
	}
	hand[seq] = ev
	return nil
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, handID string) ([]engine.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hand := m.events[handID]
	if len(hand) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrHandNotFound, handID)
	}
	seqs := make([]int, 0, len(hand))
	for seq := range hand {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	out := make([]engine.Event, len(seqs))
	for i, seq := range seqs {
		out[i] = hand[seq]
	}
	return out, nil
}

// Hands implements Store.
func (m *Memory) Hands(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.events))
	for id := range m.events {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
