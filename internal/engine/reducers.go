package engine

import "fmt"

// applyToState dispatches one validated event to its reducer. The state
// passed in is a private clone; reducers mutate it freely and the caller
// publishes it as the next snapshot only on success.
func applyToState(h *HandState, ev Event) error {
	switch p := ev.Payload.(type) {
	case HandInitialized:
		return applyHandInitialized(h, p)
	case BlindsPosted:
		return applyBlindsPosted(h, p)
	case CardsDealt:
		return applyCardsDealt(h, p)
	case ActionTaken:
		return applyActionTaken(h, p, ev)
	case StreetCompleted:
		return applyStreetCompleted(h, p)
	case HandCompleted:
		return applyHandCompleted(h, p)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEventType, ev.Payload)
	}
}

func applyHandInitialized(h *HandState, p HandInitialized) error {
	if len(h.Players) > 0 {
		return ErrHandInitialized
	}
	if len(p.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrMalformedEvent)
	}

	h.GameID = p.GameID
	h.Config.Variant = p.GameType
	h.Config.Format = p.GameFormat
	h.Config.Blinds = p.Blinds
	h.Street = StreetPreflop

	for _, sp := range p.Players {
		if sp.ID == "" {
			return fmt.Errorf("%w: player without id", ErrMalformedEvent)
		}
		if _, dup := h.Players[sp.ID]; dup {
			return fmt.Errorf("%w: duplicate player %q", ErrMalformedEvent, sp.ID)
		}
		status := StatusActive
		if sp.Stack <= 0 {
			status = StatusSittingOut
		}
		h.Players[sp.ID] = &PlayerState{
			ID:       sp.ID,
			Name:     sp.Name,
			Position: sp.Position,
			Seat:     sp.Seat,
			Stack:    sp.Stack,
			Status:   status,
			IsHero:   sp.IsHero,
		}
	}

	h.PlayerOrder = PlayerOrder(h.Players, StreetPreflop)
	h.Betting = BettingState{
		MinRaise:      p.Blinds.Big,
		LastRaiseSize: p.Blinds.Big,
		ActionOn:      firstToAct(h),
	}
	return nil
}

func applyBlindsPosted(h *HandState, p BlindsPosted) error {
	if len(h.Players) == 0 {
		return ErrHandNotInitialized
	}
	bb := h.Config.Blinds.Big

	for _, post := range p.Posts {
		pl := h.Players[post.PlayerID]
		if pl == nil {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, post.PlayerID)
		}
		amount := post.Amount
		if amount > pl.Stack {
			amount = pl.Stack
		}
		pl.Stack -= amount
		pl.TotalInvested += amount
		h.Betting.Pot += amount

		switch post.Type {
		case BlindAnte:
			// Antes are dead to the betting line; they only feed the pot.
		case BlindSmall:
			pl.CurrentBet += amount
		case BlindBig:
			pl.CurrentBet += amount
			// A short all-in big blind still sets a full-blind line to call.
			if h.Betting.CurrentBet < bb {
				h.Betting.CurrentBet = bb
			}
			h.Betting.LastRaiseSize = bb
			h.Betting.MinRaise = 2 * bb
		default:
			return fmt.Errorf("%w: unknown blind type %q", ErrMalformedEvent, post.Type)
		}
		if pl.Stack == 0 {
			pl.Status = StatusAllIn
		}
	}

	if p.DeadSmallBlind > 0 {
		h.Betting.Pot += p.DeadSmallBlind
		h.Betting.DeadMoney += p.DeadSmallBlind
	}
	if p.DeadBigBlind > 0 {
		h.Betting.Pot += p.DeadBigBlind
		h.Betting.DeadMoney += p.DeadBigBlind
		if h.Betting.CurrentBet < bb {
			h.Betting.CurrentBet = bb
		}
		h.Betting.LastRaiseSize = bb
		h.Betting.MinRaise = 2 * bb
	}
	return nil
}

func applyCardsDealt(h *HandState, p CardsDealt) error {
	if len(h.Players) == 0 {
		return ErrHandNotInitialized
	}
	for _, deal := range p.Deals {
		if err := validateCards(deal.Cards); err != nil {
			return err
		}
		if deal.PlayerID == "" {
			h.Board = append(h.Board, deal.Cards...)
			continue
		}
		pl := h.Players[deal.PlayerID]
		if pl == nil {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, deal.PlayerID)
		}
		pl.HoleCards = append(pl.HoleCards, deal.Cards...)
	}
	return nil
}

func applyActionTaken(h *HandState, p ActionTaken, ev Event) error {
	if err := validateAction(h, p.PlayerID, p.Action, p.Amount); err != nil {
		return err
	}
	pl := h.Players[p.PlayerID]

	switch p.Action {
	case ActionFold:
		pl.Status = StatusFolded

	case ActionCheck:
		// No chips move.

	case ActionCall:
		pay := h.Betting.CurrentBet - pl.CurrentBet
		if pay > pl.Stack {
			pay = pl.Stack
		}
		moveChips(h, pl, pay)
		if pl.Stack == 0 {
			pl.Status = StatusAllIn
		}

	case ActionBet, ActionRaise:
		delta := p.Amount - pl.CurrentBet
		raiseSize := p.Amount - h.Betting.CurrentBet
		moveChips(h, pl, delta)
		h.Betting.CurrentBet = p.Amount
		h.Betting.LastRaiseSize = raiseSize
		h.Betting.MinRaise = p.Amount + raiseSize
		h.Betting.LastAggressor = pl.ID
		h.Betting.NumBets++
		reopenAction(h, pl.ID)
		if pl.Stack == 0 {
			pl.Status = StatusAllIn
		}

	case ActionAllIn:
		shove := pl.Stack
		newBet := pl.CurrentBet + shove
		moveChips(h, pl, shove)
		pl.Status = StatusAllIn
		if newBet > h.Betting.CurrentBet {
			raiseSize := newBet - h.Betting.CurrentBet
			complete := raiseSize >= h.Betting.LastRaiseSize
			h.Betting.CurrentBet = newBet
			if complete {
				h.Betting.LastRaiseSize = raiseSize
				h.Betting.MinRaise = newBet + raiseSize
				h.Betting.LastAggressor = pl.ID
				h.Betting.NumBets++
				reopenAction(h, pl.ID)
			} else {
				// Incomplete raise: anyone who already voluntarily acted
				// this street loses the right to raise again, even if a
				// complete raise had reopened them in between.
				h.Betting.MinRaise = newBet + h.Betting.LastRaiseSize
				for id, other := range h.Players {
					if id != pl.ID && other.Status == StatusActive && actedThisStreet(h, id) {
						other.HasActed = true
					}
				}
			}
		}

	default:
		return fmt.Errorf("%w: %q", ErrIllegalAction, p.Action)
	}

	pl.HasActed = true
	h.History = append(h.History, ActionRecord{
		PlayerID:  pl.ID,
		Action:    p.Action,
		Amount:    p.Amount,
		Street:    h.Street,
		Pot:       h.Betting.Pot,
		Timestamp: ev.Timestamp,
	})
	h.Betting.ActionOn = NextPlayer(h)
	return nil
}

func applyStreetCompleted(h *HandState, p StreetCompleted) error {
	if len(h.Players) == 0 {
		return ErrHandNotInitialized
	}
	if h.Complete {
		return ErrHandComplete
	}
	if p.NextStreet != nil {
		if streetOrder[*p.NextStreet] <= streetOrder[h.Street] {
			return fmt.Errorf("%w: %s -> %s", ErrStreetRegression, h.Street, *p.NextStreet)
		}
	}

	if anyAllIn(h) {
		pots := potPartition(h, h.Street)
		if len(pots) > 0 {
			h.Betting.Pot = pots[0].Amount
			h.Betting.SidePots = pots[1:]
		}
	}

	for _, pl := range h.Players {
		pl.CurrentBet = 0
		pl.HasActed = false
	}
	bb := h.Config.Blinds.Big
	h.Betting.CurrentBet = 0
	h.Betting.NumBets = 0
	h.Betting.LastAggressor = ""
	h.Betting.LastRaiseSize = bb
	h.Betting.MinRaise = bb

	if p.NextStreet == nil {
		h.Complete = true
		h.Betting.ActionOn = ""
		return nil
	}

	h.Street = *p.NextStreet
	h.PlayerOrder = PlayerOrder(h.Players, h.Street)
	h.Betting.ActionOn = firstToAct(h)
	return nil
}

func applyHandCompleted(h *HandState, p HandCompleted) error {
	if len(h.Players) == 0 {
		return ErrHandNotInitialized
	}
	if h.Complete {
		return ErrHandComplete
	}

	total := 0
	for _, w := range p.Winners {
		total += w.Amount
	}
	if total != h.TotalPot() {
		return fmt.Errorf("%w: awards %d, pot %d", ErrPotMismatch, total, h.TotalPot())
	}

	for _, w := range p.Winners {
		pl := h.Players[w.PlayerID]
		if pl == nil {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, w.PlayerID)
		}
		pl.Stack += w.Amount
	}

	h.Winners = append([]Winner(nil), p.Winners...)
	h.Betting.Pot = 0
	h.Betting.SidePots = nil
	h.Betting.DeadMoney = 0
	h.Betting.ActionOn = ""
	h.Complete = true
	return nil
}

// moveChips transfers amount from the player's stack into the pot and the
// player's street and hand totals.
func moveChips(h *HandState, pl *PlayerState, amount int) {
	pl.Stack -= amount
	pl.CurrentBet += amount
	pl.TotalInvested += amount
	h.Betting.Pot += amount
}

// reopenAction clears hasActed for every other still-active player after a
// complete raise, so each gets a fresh decision against the new price.
func reopenAction(h *HandState, actor string) {
	for id, pl := range h.Players {
		if id != actor && pl.Status == StatusActive {
			pl.HasActed = false
		}
	}
}

// actedThisStreet reports whether the player has an audit record on the
// current street. Posting a blind does not count.
func actedThisStreet(h *HandState, playerID string) bool {
	for i := len(h.History) - 1; i >= 0; i-- {
		rec := h.History[i]
		if rec.Street != h.Street {
			return false
		}
		if rec.PlayerID == playerID {
			return true
		}
	}
	return false
}

func anyAllIn(h *HandState) bool {
	for _, pl := range h.Players {
		if pl.Status == StatusAllIn {
			return true
		}
	}
	return false
}

// validateAction is the single source of truth for action legality, used
// both by the ACTION_TAKEN reducer and by the engine's pre-flight
// ValidateAction.
func validateAction(h *HandState, playerID string, action Action, amount int) error {
	if h.Complete {
		return ErrHandComplete
	}
	if len(h.Players) == 0 {
		return ErrHandNotInitialized
	}
	pl := h.Players[playerID]
	if pl == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	if h.Betting.ActionOn != playerID {
		return fmt.Errorf("%w: action is on %q", ErrNotPlayersTurn, h.Betting.ActionOn)
	}

	for _, la := range LegalActions(h, playerID) {
		if la.Action != action {
			continue
		}
		switch action {
		case ActionBet, ActionRaise:
			if amount < la.Min || amount > la.Max {
				return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrAmountOutOfRange, action, amount, la.Min, la.Max)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s by %q", ErrIllegalAction, action, playerID)
}
