package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies one of the closed set of domain events.
type EventType string

const (
	EventHandInitialized EventType = "hand_initialized"
	EventBlindsPosted    EventType = "blinds_posted"
	EventCardsDealt      EventType = "cards_dealt"
	EventActionTaken     EventType = "action_taken"
	EventStreetCompleted EventType = "street_completed"
	EventHandCompleted   EventType = "hand_completed"
)

func (et EventType) String() string { return string(et) }

// eventSchemaVersion is stamped on every event the engine creates.
const eventSchemaVersion = 1

// Payload is the typed body of a domain event. The set of implementations
// is closed: one per EventType.
type Payload interface {
	eventType() EventType
}

// Event is one immutable entry in a hand's log. Events are strictly
// ordered and are the only channel through which state changes.
type Event struct {
	ID        string
	Type      EventType
	Version   int
	Timestamp time.Time
	Payload   Payload
}

// NewEvent wraps a payload in an event envelope. The type tag is derived
// from the payload so the two can never disagree.
func NewEvent(id string, ts time.Time, p Payload) Event {
	return Event{
		ID:        id,
		Type:      p.eventType(),
		Version:   eventSchemaVersion,
		Timestamp: ts,
		Payload:   p,
	}
}

// Validate checks structural well-formedness: identity, a known type
// matching the payload, and a timestamp. Domain legality is the reducers'
// concern, not Validate's.
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedEvent)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrMalformedEvent)
	}
	if e.Payload == nil {
		return fmt.Errorf("%w: missing payload", ErrMalformedEvent)
	}
	if e.Type != e.Payload.eventType() {
		return fmt.Errorf("%w: type %q does not match payload %q", ErrMalformedEvent, e.Type, e.Payload.eventType())
	}
	return nil
}

// SeatedPlayer describes one player at hand initialization.
type SeatedPlayer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Seat     int      `json:"seat"`
	Stack    int      `json:"stack"`
	IsHero   bool     `json:"isHero,omitempty"`
}

// HandInitialized seeds the aggregate.
type HandInitialized struct {
	GameID     string         `json:"gameId"`
	GameType   string         `json:"gameType"`
	GameFormat GameFormat     `json:"gameFormat"`
	Blinds     Blinds         `json:"blinds"`
	Players    []SeatedPlayer `json:"players"`
	ButtonSeat int            `json:"buttonSeat"`
}

func (HandInitialized) eventType() EventType { return EventHandInitialized }

// BlindType distinguishes the forced-bet kinds within BLINDS_POSTED.
type BlindType string

const (
	BlindSmall BlindType = "small"
	BlindBig   BlindType = "big"
	BlindAnte  BlindType = "ante"
)

// BlindPost is a single forced bet by a seated player.
type BlindPost struct {
	PlayerID string    `json:"playerId"`
	Type     BlindType `json:"type"`
	Amount   int       `json:"amount"`
}

// BlindsPosted records the forced bets opening the hand. The dead amounts
// support partial tables where the nominal small- or big-blind seat is
// absent: the money still enters the pot with no contributing player.
type BlindsPosted struct {
	Posts          []BlindPost `json:"posts"`
	DeadSmallBlind int         `json:"deadSmallBlind,omitempty"`
	DeadBigBlind   int         `json:"deadBigBlind,omitempty"`
}

func (BlindsPosted) eventType() EventType { return EventBlindsPosted }

// CardDeal assigns cards to one player, or to the board when PlayerID is
// empty.
type CardDeal struct {
	PlayerID string `json:"playerId,omitempty"`
	Cards    []Card `json:"cards"`
}

// CardsDealt records hole or community cards entering the hand.
type CardsDealt struct {
	Street Street     `json:"street"`
	Deals  []CardDeal `json:"deals"`
}

func (CardsDealt) eventType() EventType { return EventCardsDealt }

// ActionTaken is the only event kind subject to legality validation
// against the current state.
type ActionTaken struct {
	PlayerID  string `json:"playerId"`
	Action    Action `json:"action"`
	Amount    int    `json:"amount"`
	AllIn     bool   `json:"isAllIn,omitempty"`
	Street    Street `json:"street"`
	PotBefore int    `json:"potBefore"`
	PotAfter  int    `json:"potAfter"`
}

func (ActionTaken) eventType() EventType { return EventActionTaken }

// StreetCompleted closes a betting round. A nil NextStreet signals hand
// completion through betting closure, e.g. an everyone-all-in runout.
type StreetCompleted struct {
	Street        Street   `json:"street"`
	Pot           int      `json:"pot"`
	ActivePlayers []string `json:"activePlayers"`
	NextStreet    *Street  `json:"nextStreet,omitempty"`
}

func (StreetCompleted) eventType() EventType { return EventStreetCompleted }

// HandCompleted finalizes the hand and distributes the pot.
type HandCompleted struct {
	Winners  []Winner `json:"winners"`
	Showdown bool     `json:"showdown"`
	FinalPot int      `json:"finalPot"`
}

func (HandCompleted) eventType() EventType { return EventHandCompleted }

// eventEnvelope is the wire form: a type tag plus raw payload, decoded in
// a second pass once the tag is known.
type eventEnvelope struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Version   int             `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the event as a tagged envelope.
func (e Event) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Type, err)
	}
	return json.Marshal(eventEnvelope{
		ID:        e.ID,
		Type:      e.Type,
		Version:   e.Version,
		Timestamp: e.Timestamp,
		Payload:   raw,
	})
}

// UnmarshalJSON decodes a tagged envelope, rejecting unknown event types.
func (e *Event) UnmarshalJSON(data []byte) error {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	payload, err := decodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}
	*e = Event{
		ID:        env.ID,
		Type:      env.Type,
		Version:   env.Version,
		Timestamp: env.Timestamp,
		Payload:   payload,
	}
	return nil
}

func decodePayload(t EventType, raw json.RawMessage) (Payload, error) {
	var p Payload
	switch t {
	case EventHandInitialized:
		p = &HandInitialized{}
	case EventBlindsPosted:
		p = &BlindsPosted{}
	case EventCardsDealt:
		p = &CardsDealt{}
	case EventActionTaken:
		p = &ActionTaken{}
	case EventStreetCompleted:
		p = &StreetCompleted{}
	case EventHandCompleted:
		p = &HandCompleted{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return deref(p), nil
}

// deref normalizes decoded payloads to their value form, matching what
// NewEvent stores.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *HandInitialized:
		return *v
	case *BlindsPosted:
		return *v
	case *CardsDealt:
		return *v
	case *ActionTaken:
		return *v
	case *StreetCompleted:
		return *v
	case *HandCompleted:
		return *v
	default:
		return p
	}
}
