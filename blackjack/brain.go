package blackjack

import "blackjack-lite/card"

// HandView is a read-only projection of the state visible to a strategy:
// the player's own hand plus the dealer's single upcard. Decisions must be
// a pure function of this view.
type HandView struct {
	Cards []card.Card
	Total int
	Soft  bool
	Pair  bool

	Upcard      card.Card
	UpcardValue int
}

// Decider is the core interface all strategies implement.
type Decider interface {
	// FirstAction is consulted once per hand, before any hit. Double,
	// Split and Surrender are only honored here; Hit/Stand mean "no
	// special first action" and hand play continues.
	FirstAction(view HandView) ActionType
	// NextAction is consulted repeatedly while the hand stays active.
	// Anything other than Hit ends the hand as a stand.
	NextAction(view HandView) ActionType
	// Name returns a stable identifier for logs and persistence.
	Name() string
}

// NewHandView derives a view from raw cards. Strategy packages use it
// to exercise their tables without driving a full round.
func NewHandView(cards []card.Card, upcard card.Card) HandView {
	total, softAces := handValue(cards)
	return HandView{
		Cards:       append([]card.Card{}, cards...),
		Total:       total,
		Soft:        softAces > 0 && total <= 21,
		Pair:        len(cards) == 2 && cards[0].Rank() == cards[1].Rank(),
		Upcard:      upcard,
		UpcardValue: upcard.Value(),
	}
}

func buildHandView(h *Hand, upcard card.Card) HandView {
	return NewHandView(h.Cards(), upcard)
}
