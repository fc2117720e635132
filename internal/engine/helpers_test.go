package engine

import (
	"fmt"
	"testing"
	"time"
)

func testConfig() GameConfig {
	return GameConfig{
		Variant:  "nlhe",
		Format:   FormatCash,
		Blinds:   Blinds{Small: 5, Big: 10},
		Currency: "chips",
	}
}

var testClockStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// eventSeq mints structurally valid events with increasing timestamps so
// tests stay deterministic without real clocks.
type eventSeq struct {
	n  int
	at time.Time
}

func newEventSeq() *eventSeq {
	return &eventSeq{at: testClockStart}
}

func (s *eventSeq) next(p Payload) Event {
	s.n++
	s.at = s.at.Add(time.Second)
	return NewEvent(fmt.Sprintf("evt_%03d", s.n), s.at, p)
}

func seated(id string, pos Position, seat, stack int) SeatedPlayer {
	return SeatedPlayer{ID: id, Name: id, Position: pos, Seat: seat, Stack: stack}
}

func initPayload(players ...SeatedPlayer) HandInitialized {
	return HandInitialized{
		GameID:     "hand_test",
		GameType:   "nlhe",
		GameFormat: FormatCash,
		Blinds:     Blinds{Small: 5, Big: 10},
		Players:    players,
	}
}

// mustApply applies a payload through the engine, failing the test on any
// error.
func mustApply(t *testing.T, e *Engine, seq *eventSeq, p Payload) *HandState {
	t.Helper()
	state, err := e.ApplyEvent(seq.next(p))
	if err != nil {
		t.Fatalf("apply %T: %v", p, err)
	}
	return state
}

// act applies an ACTION_TAKEN for the given player, deriving the
// informational pot fields from the current state.
func act(t *testing.T, e *Engine, seq *eventSeq, playerID string, action Action, amount int) *HandState {
	t.Helper()
	s := e.CurrentState()
	return mustApply(t, e, seq, ActionTaken{
		PlayerID:  playerID,
		Action:    action,
		Amount:    amount,
		AllIn:     action == ActionAllIn,
		Street:    s.Street,
		PotBefore: s.Betting.Pot,
	})
}

// threeHanded seats BTN/SB/BB with 1000 chip stacks and posts blinds.
func threeHanded(t *testing.T) (*Engine, *eventSeq) {
	t.Helper()
	e, err := New(testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	seq := newEventSeq()
	mustApply(t, e, seq, initPayload(
		seated("btn", PositionBTN, 1, 1000),
		seated("sb", PositionSB, 2, 1000),
		seated("bb", PositionBB, 3, 1000),
	))
	mustApply(t, e, seq, BlindsPosted{Posts: []BlindPost{
		{PlayerID: "sb", Type: BlindSmall, Amount: 5},
		{PlayerID: "bb", Type: BlindBig, Amount: 10},
	}})
	return e, seq
}

// rulesState builds a bare snapshot for rules-only tests that want full
// control over betting fields.
func rulesState(cfg GameConfig) *HandState {
	h := NewHandState(cfg)
	return h
}

func addPlayer(h *HandState, id string, pos Position, seat, stack int) *PlayerState {
	p := &PlayerState{
		ID:       id,
		Name:     id,
		Position: pos,
		Seat:     seat,
		Stack:    stack,
		Status:   StatusActive,
	}
	h.Players[id] = p
	h.PlayerOrder = append(h.PlayerOrder, id)
	return p
}

func legalActionSet(actions []LegalAction) map[Action]bool {
	out := make(map[Action]bool, len(actions))
	for _, la := range actions {
		out[la.Action] = true
	}
	return out
}

func findAction(actions []LegalAction, a Action) (LegalAction, bool) {
	for _, la := range actions {
		if la.Action == a {
			return la, true
		}
	}
	return LegalAction{}, false
}
