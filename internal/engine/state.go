package engine

import (
	"sort"
	"time"
)

// Street represents a betting round.
type Street string

const (
	StreetPreflop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

var streetOrder = map[Street]int{
	StreetPreflop: 0,
	StreetFlop:    1,
	StreetTurn:    2,
	StreetRiver:   3,
}

// Next returns the street that follows s. ok is false at the river, which
// has no successor: betting closure there ends the hand.
func (s Street) Next() (next Street, ok bool) {
	switch s {
	case StreetPreflop:
		return StreetFlop, true
	case StreetFlop:
		return StreetTurn, true
	case StreetTurn:
		return StreetRiver, true
	default:
		return "", false
	}
}

func (s Street) String() string { return string(s) }

// Action represents a player action.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionBet   Action = "bet"
	ActionRaise Action = "raise"
	ActionAllIn Action = "allin"
)

func (a Action) String() string { return string(a) }

// Position is a named table position.
type Position string

const (
	PositionUTG  Position = "UTG"
	PositionUTG1 Position = "UTG+1"
	PositionMP   Position = "MP"
	PositionLJ   Position = "LJ"
	PositionHJ   Position = "HJ"
	PositionCO   Position = "CO"
	PositionBTN  Position = "BTN"
	PositionSB   Position = "SB"
	PositionBB   Position = "BB"
)

// PlayerStatus is a player's standing within the current hand.
type PlayerStatus string

const (
	StatusActive     PlayerStatus = "active"
	StatusFolded     PlayerStatus = "folded"
	StatusAllIn      PlayerStatus = "allin"
	StatusSittingOut PlayerStatus = "sitting_out"
)

// GameFormat distinguishes cash play from tournament play.
type GameFormat string

const (
	FormatCash       GameFormat = "cash"
	FormatTournament GameFormat = "tournament"
)

// Blinds holds the forced-bet sizes for a hand.
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
	Ante  int `json:"ante,omitempty"`
}

// GameConfig is the immutable per-hand configuration.
type GameConfig struct {
	Variant  string     `json:"variant"`
	Format   GameFormat `json:"format"`
	Blinds   Blinds     `json:"blinds"`
	Currency string     `json:"currency,omitempty"`
}

// PlayerState is the per-player record within a hand. Players are created
// by HAND_INITIALIZED and never removed mid-hand; folded and all-in
// players remain as records.
type PlayerState struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Position      Position     `json:"position"`
	Seat          int          `json:"seat"`
	Stack         int          `json:"stack"`
	Status        PlayerStatus `json:"status"`
	HoleCards     []Card       `json:"holeCards,omitempty"`
	CurrentBet    int          `json:"currentBet"`
	TotalInvested int          `json:"totalInvested"`
	HasActed      bool         `json:"hasActed"`
	IsHero        bool         `json:"isHero,omitempty"`
}

func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.HoleCards = append([]Card(nil), p.HoleCards...)
	return &cp
}

// SidePot is a derived pot fragment carved out at an all-in investment
// level. Side pots are recomputed from player totals at street completion,
// never mutated by individual actions.
type SidePot struct {
	Amount    int      `json:"amount"`
	Eligible  []string `json:"eligible"`
	Street    Street   `json:"street"`
	CreatedBy string   `json:"createdBy,omitempty"`
}

// BettingState is the hand-wide betting context. Bet-level fields reset at
// every street transition; the pot, side pots and dead money persist.
type BettingState struct {
	CurrentBet    int       `json:"currentBet"`
	MinRaise      int       `json:"minRaise"` // minimum legal raise-to amount
	LastRaiseSize int       `json:"lastRaiseSize"`
	Pot           int       `json:"pot"`
	SidePots      []SidePot `json:"sidePots,omitempty"`
	DeadMoney     int       `json:"deadMoney,omitempty"`
	ActionOn      string    `json:"actionOn,omitempty"`
	NumBets       int       `json:"numBets"`
	LastAggressor string    `json:"lastAggressor,omitempty"`
}

// Winner records one player's share of the pot at hand completion.
type Winner struct {
	PlayerID     string `json:"playerId"`
	Amount       int    `json:"amount"`
	HandStrength string `json:"handStrength,omitempty"`
}

// ActionRecord is a flat audit entry of one taken action.
type ActionRecord struct {
	PlayerID  string    `json:"playerId"`
	Action    Action    `json:"action"`
	Amount    int       `json:"amount"`
	Street    Street    `json:"street"`
	Pot       int       `json:"pot"`
	Timestamp time.Time `json:"timestamp"`
}

// HandState is the aggregate root derived from the event log. Snapshots
// returned by the engine are never mutated after application; reducers
// clone before writing.
type HandState struct {
	GameID      string                  `json:"gameId"`
	Config      GameConfig              `json:"config"`
	Street      Street                  `json:"street"`
	Board       []Card                  `json:"board"`
	Players     map[string]*PlayerState `json:"players"`
	PlayerOrder []string                `json:"playerOrder"`
	Betting     BettingState            `json:"betting"`
	Events      []Event                 `json:"-"`
	History     []ActionRecord          `json:"history"`
	Complete    bool                    `json:"complete"`
	Winners     []Winner                `json:"winners,omitempty"`
}

// NewHandState returns the empty pre-initialization state for a hand.
func NewHandState(cfg GameConfig) *HandState {
	return &HandState{
		Config:  cfg,
		Street:  StreetPreflop,
		Players: map[string]*PlayerState{},
		Betting: BettingState{
			MinRaise:      cfg.Blinds.Big,
			LastRaiseSize: cfg.Blinds.Big,
		},
	}
}

// Clone deep-copies the state so a reducer can produce the next snapshot
// without aliasing the previous one. Events are immutable and shared.
func (h *HandState) Clone() *HandState {
	cp := *h
	cp.Board = append([]Card(nil), h.Board...)
	cp.PlayerOrder = append([]string(nil), h.PlayerOrder...)
	cp.Players = make(map[string]*PlayerState, len(h.Players))
	for id, p := range h.Players {
		cp.Players[id] = p.clone()
	}
	cp.Betting.SidePots = cloneSidePots(h.Betting.SidePots)
	cp.Events = append([]Event(nil), h.Events...)
	cp.History = append([]ActionRecord(nil), h.History...)
	cp.Winners = append([]Winner(nil), h.Winners...)
	return &cp
}

func cloneSidePots(pots []SidePot) []SidePot {
	if pots == nil {
		return nil
	}
	out := make([]SidePot, len(pots))
	for i, sp := range pots {
		out[i] = sp
		out[i].Eligible = append([]string(nil), sp.Eligible...)
	}
	return out
}

// Player returns the player record for id, or nil.
func (h *HandState) Player(id string) *PlayerState {
	return h.Players[id]
}

// TotalPot returns the main pot plus all side pots.
func (h *HandState) TotalPot() int {
	total := h.Betting.Pot
	for _, sp := range h.Betting.SidePots {
		total += sp.Amount
	}
	return total
}

// nonFolded returns the IDs of players still contesting the pot, in
// current action order (players absent from the order come last).
func (h *HandState) nonFolded() []string {
	var ids []string
	seen := map[string]bool{}
	for _, id := range h.PlayerOrder {
		if p := h.Players[id]; p != nil && p.Status != StatusFolded && p.Status != StatusSittingOut {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var missing []string
	for id, p := range h.Players {
		if !seen[id] && p.Status != StatusFolded && p.Status != StatusSittingOut {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return h.Players[missing[i]].Seat < h.Players[missing[j]].Seat
	})
	return append(ids, missing...)
}

// countCanAct counts players who can still take actions: not folded, not
// all-in, not sitting out.
func (h *HandState) countCanAct() int {
	n := 0
	for _, p := range h.Players {
		if p.Status == StatusActive {
			n++
		}
	}
	return n
}

// chipTotal is the conserved quantity: stacks plus everything in the pots.
// Bets made during the current street are already part of the main pot.
func (h *HandState) chipTotal() int {
	total := h.TotalPot()
	for _, p := range h.Players {
		total += p.Stack
	}
	return total
}
