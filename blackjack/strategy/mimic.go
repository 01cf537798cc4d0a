package strategy

import "blackjack-lite/blackjack"

// DealerMimic plays exactly like the house: no doubles, no splits, no
// surrenders. Hit below 17, stand on any 17 or better.
type DealerMimic struct{}

func (DealerMimic) Name() string { return "dealer-mimic" }

func (DealerMimic) FirstAction(view blackjack.HandView) blackjack.ActionType {
	if view.Total < 17 {
		return blackjack.PlayerActionTypeHit
	}
	return blackjack.PlayerActionTypeStand
}

func (DealerMimic) NextAction(view blackjack.HandView) blackjack.ActionType {
	if view.Total < 17 {
		return blackjack.PlayerActionTypeHit
	}
	return blackjack.PlayerActionTypeStand
}
