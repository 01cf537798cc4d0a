package strategy

import "blackjack-lite/blackjack"

// Basic plays fixed basic-strategy tables: soft-hand rules first, then
// pairs, then hard totals. It holds no state and never randomizes, so
// the same hand and upcard always produce the same action.
type Basic struct{}

func (Basic) Name() string { return "basic" }

// FirstAction implements blackjack.Decider. It only returns a special
// action (Double, Split, Surrender) when a table row matches; Stand
// here means "no special play", not an actual stand.
func (Basic) FirstAction(view blackjack.HandView) blackjack.ActionType {
	d := view.UpcardValue

	// Soft hands: always split aces, double the listed totals.
	if view.Soft {
		if view.Pair && view.Cards[0].IsAce() {
			return blackjack.PlayerActionTypeSplit
		}
		switch {
		case view.Total == 19 && d == 6:
			return blackjack.PlayerActionTypeDouble
		case view.Total == 18 && d <= 6:
			return blackjack.PlayerActionTypeDouble
		case view.Total == 17 && d >= 3 && d <= 6:
			return blackjack.PlayerActionTypeDouble
		case (view.Total == 16 || view.Total == 15) && d >= 4 && d <= 6:
			return blackjack.PlayerActionTypeDouble
		case (view.Total == 14 || view.Total == 13) && d >= 5 && d <= 6:
			return blackjack.PlayerActionTypeDouble
		}
	}

	// Pairs below aces.
	if view.Pair {
		switch {
		case view.Total == 18 && (d < 7 || d >= 10):
			return blackjack.PlayerActionTypeSplit
		case view.Total == 16:
			return blackjack.PlayerActionTypeSplit
		case view.Total == 14 && d <= 7:
			return blackjack.PlayerActionTypeSplit
		case view.Total == 12 && d >= 3 && d <= 7:
			return blackjack.PlayerActionTypeSplit
		case (view.Total == 6 || view.Total == 4) && d >= 4 && d <= 7:
			return blackjack.PlayerActionTypeSplit
		}
	}

	// Hard totals: surrender the worst spots, double 9 to 11.
	if !view.Soft {
		switch {
		case view.Total == 16 && d >= 9 && d <= 11:
			return blackjack.PlayerActionTypeSurrender
		case view.Total == 15 && d == 10:
			return blackjack.PlayerActionTypeSurrender
		case view.Total == 11:
			return blackjack.PlayerActionTypeDouble
		case view.Total == 10 && d < 10:
			return blackjack.PlayerActionTypeDouble
		case view.Total == 9 && d >= 3 && d <= 6:
			return blackjack.PlayerActionTypeDouble
		}
	}

	return blackjack.PlayerActionTypeStand
}

// NextAction implements blackjack.Decider. Anything but Hit ends the
// hand as a stand.
func (Basic) NextAction(view blackjack.HandView) blackjack.ActionType {
	d := view.UpcardValue
	switch {
	case view.Soft && view.Total <= 17:
		return blackjack.PlayerActionTypeHit
	case view.Soft && view.Total == 18 && d >= 9:
		return blackjack.PlayerActionTypeHit
	case !view.Soft && view.Total <= 11:
		return blackjack.PlayerActionTypeHit
	case view.Total == 12 && (d < 4 || d > 6):
		return blackjack.PlayerActionTypeHit
	case view.Total >= 13 && view.Total <= 16 && d >= 7:
		return blackjack.PlayerActionTypeHit
	}
	return blackjack.PlayerActionTypeStand
}
