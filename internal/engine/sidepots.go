package engine

import "sort"

// potPartition splits everything invested in the hand into pots bounded
// at each distinct all-in investment level. Folded players' chips count
// toward pot sizes but folded players are never eligible; dead blind
// money joins the lowest pot. With no all-in present the result is a
// single pot covering the total investment.
//
// The partition is recomputed from player totals whenever it is needed,
// never mutated incrementally.
func potPartition(h *HandState, street Street) []SidePot {
	levels := allInLevels(h)

	var pots []SidePot
	prev := 0
	for _, lvl := range levels {
		pot := SidePot{
			Street:    street,
			CreatedBy: allInAt(h, lvl.amount),
		}
		pot.Amount = marginalContribution(h, prev, lvl.amount)
		for _, id := range h.nonFolded() {
			if h.Players[id].TotalInvested >= lvl.amount {
				pot.Eligible = append(pot.Eligible, id)
			}
		}
		if pot.Amount > 0 && len(pot.Eligible) > 0 {
			pots = append(pots, pot)
		}
		prev = lvl.amount
	}

	// Excess above the highest all-in level, or the whole pot when no
	// one is all-in.
	over := SidePot{Street: street}
	for _, id := range h.nonFolded() {
		if h.Players[id].TotalInvested > prev {
			over.Eligible = append(over.Eligible, id)
		}
	}
	over.Amount = marginalContribution(h, prev, maxInvested(h))
	switch {
	case over.Amount > 0 && len(over.Eligible) > 0:
		pots = append(pots, over)
	case over.Amount > 0 && len(pots) > 0:
		// Overage left behind by a folded player: it belongs to whoever
		// contests the highest winnable pot.
		pots[len(pots)-1].Amount += over.Amount
	}

	if len(pots) > 0 {
		pots[0].Amount += h.Betting.DeadMoney
	} else if h.Betting.DeadMoney > 0 {
		pots = append(pots, SidePot{
			Amount:   h.Betting.DeadMoney,
			Eligible: h.nonFolded(),
			Street:   street,
		})
	}
	return pots
}

type allInLevel struct {
	amount int
}

func allInLevels(h *HandState) []allInLevel {
	seen := map[int]bool{}
	var levels []allInLevel
	for _, p := range h.Players {
		if p.Status == StatusAllIn && p.TotalInvested > 0 && !seen[p.TotalInvested] {
			seen[p.TotalInvested] = true
			levels = append(levels, allInLevel{amount: p.TotalInvested})
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].amount < levels[j].amount })
	return levels
}

// allInAt names the all-in player whose investment defines a split level,
// for side-pot provenance. Ties pick the lowest seat.
func allInAt(h *HandState, level int) string {
	id := ""
	seat := int(^uint(0) >> 1)
	for pid, p := range h.Players {
		if p.Status == StatusAllIn && p.TotalInvested == level && p.Seat < seat {
			id, seat = pid, p.Seat
		}
	}
	return id
}

// marginalContribution sums each player's investment clamped to the
// (from, to] band.
func marginalContribution(h *HandState, from, to int) int {
	if to <= from {
		return 0
	}
	total := 0
	for _, p := range h.Players {
		c := p.TotalInvested
		if c > to {
			c = to
		}
		if c > from {
			total += c - from
		}
	}
	return total
}

func maxInvested(h *HandState) int {
	m := 0
	for _, p := range h.Players {
		if p.TotalInvested > m {
			m = p.TotalInvested
		}
	}
	return m
}
