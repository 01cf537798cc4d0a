package blackjack

import "blackjack-lite/card"

// Hand 一方的手牌，按发牌顺序保存
type Hand struct {
	cards card.CardList

	doubled            bool
	split              bool // reserved: real splitting is not implemented
	firstActionPending bool
	active             bool
}

func NewHand() *Hand {
	return &Hand{
		cards:              make(card.CardList, 0, 4),
		firstActionPending: true,
		active:             true,
	}
}

func (h *Hand) AddCard(cards ...card.Card) {
	h.cards.Add(cards...)
}

func (h *Hand) Cards() []card.Card { return h.cards }
func (h *Hand) CardCount() int     { return h.cards.Count() }

func (h *Hand) Doubled() bool            { return h.doubled }
func (h *Hand) Split() bool              { return h.split }
func (h *Hand) FirstActionPending() bool { return h.firstActionPending }
func (h *Hand) Active() bool             { return h.active }

func (h *Hand) markDoubled()      { h.doubled = true }
func (h *Hand) clearFirstAction() { h.firstActionPending = false }
func (h *Hand) deactivate()       { h.active = false }

// handValue 软点归约: A 先记 11, 爆牌时逐个降为 1。
// Returns the reduced total and how many aces still count as 11.
func handValue(cards []card.Card) (total int, softAces int) {
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			softAces++
		}
	}
	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces
}

// Total recomputes the soft-ace-aware total on every call.
func (h *Hand) Total() int {
	total, _ := handValue(h.cards)
	return total
}

// IsSoft reports whether an ace still counts as 11 without busting.
func (h *Hand) IsSoft() bool {
	total, softAces := handValue(h.cards)
	return softAces > 0 && total <= 21
}

// IsBlackjack: exactly two cards totalling 21.
func (h *Hand) IsBlackjack() bool {
	return h.cards.Count() == 2 && h.Total() == 21
}

func (h *Hand) IsBusted() bool {
	return h.Total() > 21
}

// IsPair: two cards of equal rank (ten/jack/queen/king are distinct ranks).
func (h *Hand) IsPair() bool {
	return h.cards.Count() == 2 && h.cards[0].Rank() == h.cards[1].Rank()
}

// Display renders the hand the way the round log prints it: "A♠️, K♥️".
func (h *Hand) Display() string {
	out := ""
	for i, c := range h.cards {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}

// LastCard 最近发到的一张牌
func (h *Hand) LastCard() card.Card {
	if h.cards.Count() == 0 {
		return card.CardInvalid
	}
	return h.cards[h.cards.Count()-1]
}
