package engine

import (
	"reflect"
	"testing"
)

func TestPlayerOrder_SixHanded(t *testing.T) {
	t.Parallel()
	players := map[string]*PlayerState{
		"u": {ID: "u", Position: PositionUTG, Seat: 1, Status: StatusActive},
		"m": {ID: "m", Position: PositionMP, Seat: 2, Status: StatusActive},
		"c": {ID: "c", Position: PositionCO, Seat: 3, Status: StatusActive},
		"d": {ID: "d", Position: PositionBTN, Seat: 4, Status: StatusActive},
		"s": {ID: "s", Position: PositionSB, Seat: 5, Status: StatusActive},
		"b": {ID: "b", Position: PositionBB, Seat: 6, Status: StatusActive},
	}

	pre := PlayerOrder(players, StreetPreflop)
	if want := []string{"u", "m", "c", "d", "s", "b"}; !reflect.DeepEqual(pre, want) {
		t.Errorf("preflop order = %v, want %v", pre, want)
	}

	post := PlayerOrder(players, StreetFlop)
	if want := []string{"s", "b", "u", "m", "c", "d"}; !reflect.DeepEqual(post, want) {
		t.Errorf("postflop order = %v, want %v", post, want)
	}
}

func TestPlayerOrder_HeadsUpButtonAndBigBlind(t *testing.T) {
	t.Parallel()
	// Traditional heads-up seating: the button acts first preflop and
	// last on every later street.
	players := map[string]*PlayerState{
		"btn": {ID: "btn", Position: PositionBTN, Seat: 1, Status: StatusActive},
		"bb":  {ID: "bb", Position: PositionBB, Seat: 2, Status: StatusActive},
	}

	if got := PlayerOrder(players, StreetPreflop); !reflect.DeepEqual(got, []string{"btn", "bb"}) {
		t.Errorf("preflop order = %v, want [btn bb]", got)
	}
	if got := PlayerOrder(players, StreetTurn); !reflect.DeepEqual(got, []string{"bb", "btn"}) {
		t.Errorf("postflop order = %v, want [bb btn]", got)
	}
}

func TestPlayerOrder_TwoPlayersGenericPositions(t *testing.T) {
	t.Parallel()
	// Two players seated as UTG and BTN are NOT the traditional heads-up
	// pair, so the generic rank tables apply on every street.
	players := map[string]*PlayerState{
		"utg": {ID: "utg", Position: PositionUTG, Seat: 1, Status: StatusActive},
		"btn": {ID: "btn", Position: PositionBTN, Seat: 2, Status: StatusActive},
	}

	if got := PlayerOrder(players, StreetPreflop); !reflect.DeepEqual(got, []string{"utg", "btn"}) {
		t.Errorf("preflop order = %v, want [utg btn]", got)
	}
	if got := PlayerOrder(players, StreetFlop); !reflect.DeepEqual(got, []string{"utg", "btn"}) {
		t.Errorf("postflop order = %v, want [utg btn]", got)
	}
}

func TestPlayerOrder_ExcludesSittingOut(t *testing.T) {
	t.Parallel()
	players := map[string]*PlayerState{
		"s":   {ID: "s", Position: PositionSB, Seat: 1, Status: StatusActive},
		"b":   {ID: "b", Position: PositionBB, Seat: 2, Status: StatusActive},
		"out": {ID: "out", Position: PositionBTN, Seat: 3, Status: StatusSittingOut},
	}

	got := PlayerOrder(players, StreetPreflop)
	if want := []string{"s", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestLegalActions_NoOutstandingBet(t *testing.T) {
	t.Parallel()
	h := rulesState(testConfig())
	addPlayer(h, "a", PositionSB, 1, 500)
	addPlayer(h, "b", PositionBB, 2, 500)
	h.Street = StreetFlop

	actions := LegalActions(h, "a")
	set := legalActionSet(actions)

	if !set[ActionFold] || !set[ActionCheck] || !set[ActionBet] {
		t.Errorf("expected fold/check/bet available, got %v", actions)
	}
	if set[ActionCall] {
		t.Errorf("call must not be offered with nothing to call: %v", actions)
	}
	if allin, ok := findAction(actions, ActionAllIn); ok && allin.PartialCall {
		t.Errorf("partial all-in must not appear with nothing to call: %v", actions)
	}

	bet, _ := findAction(actions, ActionBet)
	if bet.Min != 10 || bet.Max != 500 {
		t.Errorf("bet range = [%d, %d], want [10, 500]", bet.Min, bet.Max)
	}
}

func TestLegalActions_FacingBet(t *testing.T) {
	t.Parallel()
	h := rulesState(testConfig())
	a := addPlayer(h, "a", PositionSB, 1, 500)
	b := addPlayer(h, "b", PositionBB, 2, 470)
	h.Street = StreetFlop
	a.CurrentBet, a.TotalInvested = 30, 30
	a.HasActed = true
	b.CurrentBet = 0
	h.Betting.CurrentBet = 30
	h.Betting.LastRaiseSize = 30
	h.Betting.MinRaise = 60
	h.Betting.Pot = 30

	actions := LegalActions(h, "b")
	set := legalActionSet(actions)

	if set[ActionCheck] {
		t.Errorf("check must not be offered facing a bet: %v", actions)
	}
	call, ok := findAction(actions, ActionCall)
	if !ok || call.Amount != 30 {
		t.Errorf("expected call 30, got %v", actions)
	}
	raise, ok := findAction(actions, ActionRaise)
	if !ok || raise.Min != 60 || raise.Max != 470 {
		t.Errorf("expected raise range [60, 470], got %v", actions)
	}
	if !set[ActionAllIn] {
		t.Errorf("all-in should be available facing a bet with chips behind: %v", actions)
	}
}

func TestLegalActions_ShortStackPartialCall(t *testing.T) {
	t.Parallel()
	// A stack smaller than the call amount turns the call into a partial
	// all-in, and nothing aggressive remains.
	h := rulesState(testConfig())
	a := addPlayer(h, "a", PositionSB, 1, 500)
	addPlayer(h, "b", PositionBB, 2, 20)
	h.Street = StreetFlop
	a.CurrentBet, a.TotalInvested = 100, 100
	a.HasActed = true
	h.Betting.CurrentBet = 100
	h.Betting.MinRaise = 200
	h.Betting.Pot = 100

	actions := LegalActions(h, "b")

	if len(actions) != 2 {
		t.Fatalf("expected fold plus partial all-in only, got %v", actions)
	}
	allin, ok := findAction(actions, ActionAllIn)
	if !ok || !allin.PartialCall || allin.Amount != 20 {
		t.Errorf("expected partial all-in for 20, got %v", actions)
	}
}

func TestLegalActions_NoneForFoldedOrCompleted(t *testing.T) {
	t.Parallel()
	h := rulesState(testConfig())
	a := addPlayer(h, "a", PositionSB, 1, 500)
	addPlayer(h, "b", PositionBB, 2, 500)
	a.Status = StatusFolded

	if got := LegalActions(h, "a"); got != nil {
		t.Errorf("folded player should have no actions, got %v", got)
	}
	if got := LegalActions(h, "missing"); got != nil {
		t.Errorf("unknown player should have no actions, got %v", got)
	}

	h.Complete = true
	if got := LegalActions(h, "b"); got != nil {
		t.Errorf("completed hand should offer no actions, got %v", got)
	}
}

func TestIsBettingRoundComplete(t *testing.T) {
	t.Parallel()

	t.Run("one player left", func(t *testing.T) {
		h := rulesState(testConfig())
		a := addPlayer(h, "a", PositionSB, 1, 500)
		addPlayer(h, "b", PositionBB, 2, 500)
		a.Status = StatusFolded
		if !IsBettingRoundComplete(h) {
			t.Error("round with one contesting player should be complete")
		}
	})

	t.Run("everyone all-in", func(t *testing.T) {
		h := rulesState(testConfig())
		a := addPlayer(h, "a", PositionSB, 1, 0)
		b := addPlayer(h, "b", PositionBB, 2, 0)
		a.Status, b.Status = StatusAllIn, StatusAllIn
		a.TotalInvested, b.TotalInvested = 500, 500
		if !IsBettingRoundComplete(h) {
			t.Error("round with everyone all-in should be complete")
		}
	})

	t.Run("unmatched bet keeps round open", func(t *testing.T) {
		h := rulesState(testConfig())
		a := addPlayer(h, "a", PositionSB, 1, 470)
		addPlayer(h, "b", PositionBB, 2, 500)
		h.Street = StreetFlop
		a.CurrentBet, a.HasActed = 30, true
		h.Betting.CurrentBet = 30
		if IsBettingRoundComplete(h) {
			t.Error("round must stay open while a bet is unmatched")
		}
	})

	t.Run("checked around", func(t *testing.T) {
		h := rulesState(testConfig())
		a := addPlayer(h, "a", PositionSB, 1, 500)
		b := addPlayer(h, "b", PositionBB, 2, 500)
		h.Street = StreetFlop
		a.HasActed, b.HasActed = true, true
		if !IsBettingRoundComplete(h) {
			t.Error("round should close after everyone checks")
		}
	})

	t.Run("big blind option keeps preflop open", func(t *testing.T) {
		h := rulesState(testConfig())
		a := addPlayer(h, "a", PositionBTN, 1, 490)
		b := addPlayer(h, "b", PositionBB, 2, 490)
		a.CurrentBet, a.TotalInvested, a.HasActed = 10, 10, true
		b.CurrentBet, b.TotalInvested = 10, 10
		h.Betting.CurrentBet = 10
		h.Betting.Pot = 20
		if IsBettingRoundComplete(h) {
			t.Error("big blind must still get the option after a limp")
		}
	})
}
