package engine

import (
	"fmt"
	"strings"
)

// Card is a playing card in compact rank+suit notation, e.g. "As" or "Td".
// The engine never deals cards; they arrive through CARDS_DEALT events and
// are carried opaquely until showdown evaluation.
type Card string

const (
	cardRanks = "23456789TJQKA"
	cardSuits = "shdc"
)

// Valid reports whether the card is well-formed.
func (c Card) Valid() bool {
	if len(c) != 2 {
		return false
	}
	return strings.IndexByte(cardRanks, c[0]) >= 0 && strings.IndexByte(cardSuits, c[1]) >= 0
}

// Rank returns the card rank as 2..14 (ace high), or 0 if malformed.
func (c Card) Rank() int {
	if !c.Valid() {
		return 0
	}
	return strings.IndexByte(cardRanks, c[0]) + 2
}

// Suit returns the suit byte ('s', 'h', 'd' or 'c'), or 0 if malformed.
func (c Card) Suit() byte {
	if !c.Valid() {
		return 0
	}
	return c[1]
}

func (c Card) String() string { return string(c) }

func validateCards(cards []Card) error {
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrMalformedCard, string(c))
		}
	}
	return nil
}
