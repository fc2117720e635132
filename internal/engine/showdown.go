package engine

import (
	"sort"

	poker "github.com/paulhankin/poker"
)

// showdownWinners determines the pot distribution at the river. Each pot
// in the full partition goes to the eligible non-folded player(s) with
// the best five-of-seven hand; ties split evenly with odd chips to the
// earliest winner in action order.
//
// The engine does not deal, so a log can legitimately reach completion
// without a full board or without every hole card. Any pot that cannot be
// evaluated falls to its first eligible player in action order.
func showdownWinners(h *HandState) []Winner {
	pots := potPartition(h, h.Street)
	awards := map[string]int{}
	strength := map[string]string{}

	for _, pot := range pots {
		winners := potWinners(h, pot.Eligible)
		share := pot.Amount / len(winners)
		odd := pot.Amount - share*len(winners)
		for i, id := range winners {
			amt := share
			if i == 0 {
				amt += odd
			}
			awards[id] += amt
			if s := describeHand(h, id); s != "" {
				strength[id] = s
			}
		}
	}

	var out []Winner
	for _, id := range orderedIDs(h) {
		if amt, ok := awards[id]; ok && amt > 0 {
			out = append(out, Winner{PlayerID: id, Amount: amt, HandStrength: strength[id]})
		}
	}
	return out
}

// potWinners ranks the eligible players for one pot. Falls back to the
// first eligible player when any hand cannot be scored.
func potWinners(h *HandState, eligible []string) []string {
	ordered := orderEligible(h, eligible)
	if len(ordered) == 1 {
		return ordered
	}

	best := int16(-1)
	var winners []string
	for _, id := range ordered {
		score, ok := scoreHand(h, id)
		if !ok {
			return ordered[:1]
		}
		switch {
		case score > best:
			best = score
			winners = []string{id}
		case score == best:
			winners = append(winners, id)
		}
	}
	return winners
}

// scoreHand evaluates a player's best five-card hand from two hole cards
// and the five-card board. Higher scores are stronger.
func scoreHand(h *HandState, playerID string) (int16, bool) {
	cards, ok := sevenCards(h, playerID)
	if !ok {
		return 0, false
	}
	return poker.Eval7(&cards), true
}

func describeHand(h *HandState, playerID string) string {
	cards, ok := sevenCards(h, playerID)
	if !ok {
		return ""
	}
	desc, err := poker.Describe(cards[:])
	if err != nil {
		return ""
	}
	return desc
}

func sevenCards(h *HandState, playerID string) ([7]poker.Card, bool) {
	var out [7]poker.Card
	pl := h.Players[playerID]
	if pl == nil || len(pl.HoleCards) != 2 || len(h.Board) != 5 {
		return out, false
	}
	all := append(append([]Card(nil), pl.HoleCards...), h.Board...)
	for i, c := range all {
		pc, ok := libraryCard(c)
		if !ok {
			return out, false
		}
		out[i] = pc
	}
	return out, true
}

// libraryCard converts an engine card to the evaluator's representation.
// The library counts aces low as rank 1.
func libraryCard(c Card) (poker.Card, bool) {
	if !c.Valid() {
		return 0, false
	}
	var suit poker.Suit
	switch c.Suit() {
	case 'c':
		suit = poker.Club
	case 'd':
		suit = poker.Diamond
	case 'h':
		suit = poker.Heart
	case 's':
		suit = poker.Spade
	}
	rank := c.Rank()
	if rank == 14 {
		rank = 1
	}
	pc, err := poker.MakeCard(suit, poker.Rank(rank))
	if err != nil {
		return 0, false
	}
	return pc, true
}

// orderEligible keeps only eligible IDs, in current action order.
func orderEligible(h *HandState, eligible []string) []string {
	allowed := make(map[string]bool, len(eligible))
	for _, id := range eligible {
		allowed[id] = true
	}
	var out []string
	for _, id := range orderedIDs(h) {
		if allowed[id] {
			out = append(out, id)
		}
	}
	return out
}

// orderedIDs is the current action order extended with any remaining
// players sorted by seat, so distributions are deterministic.
func orderedIDs(h *HandState) []string {
	seen := map[string]bool{}
	out := append([]string(nil), h.PlayerOrder...)
	for _, id := range out {
		seen[id] = true
	}
	var rest []string
	for id := range h.Players {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return h.Players[rest[i]].Seat < h.Players[rest[j]].Seat
	})
	return append(out, rest...)
}
