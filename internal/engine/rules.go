package engine

import "sort"

// LegalAction describes one action currently available to a player.
// Fixed-size actions (call, all-in) carry Amount; sized actions (bet,
// raise) carry a Min..Max range of raise-to amounts.
type LegalAction struct {
	Action      Action `json:"action"`
	Amount      int    `json:"amount,omitempty"`
	Min         int    `json:"min,omitempty"`
	Max         int    `json:"max,omitempty"`
	PartialCall bool   `json:"isPartialCall,omitempty"`
}

// Position rank tables. Preflop action starts left of the big blind;
// postflop it starts left of the button.
var (
	preflopRank = map[Position]int{
		PositionUTG: 0, PositionUTG1: 1, PositionMP: 2, PositionLJ: 3,
		PositionHJ: 4, PositionCO: 5, PositionBTN: 6, PositionSB: 7, PositionBB: 8,
	}
	postflopRank = map[Position]int{
		PositionSB: 0, PositionBB: 1, PositionUTG: 2, PositionUTG1: 3,
		PositionMP: 4, PositionLJ: 5, PositionHJ: 6, PositionCO: 7, PositionBTN: 8,
	}
)

// PlayerOrder computes the action order for a street. A two-player table
// seated as BTN and BB is traditional heads-up: the button acts first
// preflop and last postflop. Every other seating, including short-handed
// tables with other position pairs, uses the generic rank tables with
// unknown positions sorted last.
func PlayerOrder(players map[string]*PlayerState, street Street) []string {
	var seated []*PlayerState
	for _, p := range players {
		if p.Status != StatusSittingOut {
			seated = append(seated, p)
		}
	}

	if len(seated) == 2 {
		if hu := headsUpOrder(seated, street); hu != nil {
			return hu
		}
	}

	ranks := postflopRank
	if street == StreetPreflop {
		ranks = preflopRank
	}
	sort.Slice(seated, func(i, j int) bool {
		ri, iOK := ranks[seated[i].Position]
		rj, jOK := ranks[seated[j].Position]
		if !iOK {
			ri = len(ranks)
		}
		if !jOK {
			rj = len(ranks)
		}
		if ri != rj {
			return ri < rj
		}
		return seated[i].Seat < seated[j].Seat
	})

	order := make([]string, len(seated))
	for i, p := range seated {
		order[i] = p.ID
	}
	return order
}

func headsUpOrder(seated []*PlayerState, street Street) []string {
	var btn, bb *PlayerState
	for _, p := range seated {
		switch p.Position {
		case PositionBTN:
			btn = p
		case PositionBB:
			bb = p
		}
	}
	if btn == nil || bb == nil {
		return nil
	}
	if street == StreetPreflop {
		return []string{btn.ID, bb.ID}
	}
	return []string{bb.ID, btn.ID}
}

// NextPlayer walks the street's action order circularly, starting after
// the player currently on act (or from the top when nobody is), and
// returns the first player able to act. Empty string means no one can.
func NextPlayer(h *HandState) string {
	order := h.PlayerOrder
	if len(order) == 0 {
		return ""
	}
	start := 0
	if h.Betting.ActionOn != "" {
		for i, id := range order {
			if id == h.Betting.ActionOn {
				start = i + 1
				break
			}
		}
	}
	for i := 0; i < len(order); i++ {
		id := order[(start+i)%len(order)]
		if p := h.Players[id]; p != nil && p.Status == StatusActive {
			return id
		}
	}
	return ""
}

// firstToAct returns the first still-active player in the street's order.
func firstToAct(h *HandState) string {
	for _, id := range h.PlayerOrder {
		if p := h.Players[id]; p != nil && p.Status == StatusActive {
			return id
		}
	}
	return ""
}

// minRaiseTo returns the minimum legal raise-to amount. The tracked value
// in BettingState is preferred; the fallback derives it from the last
// raise increment, floored at the big blind.
func minRaiseTo(h *HandState) int {
	if h.Betting.MinRaise > 0 {
		return h.Betting.MinRaise
	}
	inc := h.Betting.LastRaiseSize
	if bb := h.Config.Blinds.Big; inc < bb {
		inc = bb
	}
	return h.Betting.CurrentBet + inc
}

// LegalActions computes the actions available to playerID against the
// given snapshot. The result is empty for anyone who is not the active
// status, including folded and all-in players.
//
// A player who has already acted this round may not raise again unless a
// complete raise reopened the action after them; an all-in raise smaller
// than the previous raise increment does not reopen. The same gate
// applies to the aggressive all-in while a bet is outstanding, so such a
// player is left with call or fold only.
func LegalActions(h *HandState, playerID string) []LegalAction {
	p := h.Players[playerID]
	if p == nil || p.Status != StatusActive || h.Complete {
		return nil
	}

	toCall := h.Betting.CurrentBet - p.CurrentBet
	opponents := h.countCanAct() >= 2

	actions := []LegalAction{{Action: ActionFold}}

	if toCall == 0 {
		actions = append(actions, LegalAction{Action: ActionCheck})
	} else if p.Stack > 0 {
		if p.Stack <= toCall {
			actions = append(actions, LegalAction{
				Action:      ActionAllIn,
				Amount:      p.Stack,
				PartialCall: true,
			})
		} else {
			actions = append(actions, LegalAction{Action: ActionCall, Amount: toCall})
		}
	}

	bb := h.Config.Blinds.Big
	if h.Betting.CurrentBet == 0 && opponents && p.Stack >= bb {
		actions = append(actions, LegalAction{Action: ActionBet, Min: bb, Max: p.Stack})
	}

	reopened := h.Betting.CurrentBet == 0 || !p.HasActed

	if h.Betting.CurrentBet > 0 && opponents && reopened {
		if raiseTo := minRaiseTo(h); p.CurrentBet+p.Stack >= raiseTo {
			actions = append(actions, LegalAction{
				Action: ActionRaise,
				Min:    raiseTo,
				Max:    p.CurrentBet + p.Stack,
			})
		}
	}

	if opponents && p.Stack > toCall && reopened {
		actions = append(actions, LegalAction{Action: ActionAllIn, Amount: p.Stack})
	}

	return actions
}

// IsBettingRoundComplete reports whether no further action is possible or
// required on the current street.
func IsBettingRoundComplete(h *HandState) bool {
	contesting := h.nonFolded()
	if len(contesting) <= 1 {
		return true
	}

	allIn := true
	for _, id := range contesting {
		if h.Players[id].Status != StatusAllIn {
			allIn = false
			break
		}
	}
	if allIn {
		return true
	}

	if h.Street == StreetPreflop && headsUpPreflopClosed(h, contesting) {
		return true
	}

	for _, id := range contesting {
		p := h.Players[id]
		if p.Status != StatusActive {
			continue
		}
		if !p.HasActed || p.CurrentBet != h.Betting.CurrentBet {
			return false
		}
	}
	return true
}

// headsUpPreflopClosed covers the two-player preflop ending: both players
// have acted and matched a live bet, and the last action was a call, or a
// check of the big-blind option.
func headsUpPreflopClosed(h *HandState, contesting []string) bool {
	if len(contesting) != 2 {
		return false
	}
	a, b := h.Players[contesting[0]], h.Players[contesting[1]]
	if !a.HasActed || !b.HasActed {
		return false
	}
	if a.CurrentBet != b.CurrentBet || a.CurrentBet == 0 {
		return false
	}
	last := lastActionOnStreet(h)
	if last == nil {
		return false
	}
	switch last.Action {
	case ActionCall:
		return true
	case ActionCheck:
		return h.Betting.CurrentBet == h.Config.Blinds.Big
	default:
		return false
	}
}

func lastActionOnStreet(h *HandState) *ActionRecord {
	for i := len(h.History) - 1; i >= 0; i-- {
		if h.History[i].Street == h.Street {
			return &h.History[i]
		}
	}
	return nil
}
