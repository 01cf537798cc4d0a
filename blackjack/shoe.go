package blackjack

import (
	"math/rand"

	"blackjack-lite/card"
)

// Shoe 牌靴：六副标准牌，从牌尾发牌
type Shoe struct {
	cards card.CardList
}

// NewShoe builds the full unshuffled shoe in suit-major, rank-ascending
// order, repeated once per pack.
func NewShoe() *Shoe {
	s := &Shoe{cards: make(card.CardList, 0, ShoeSize)}
	for p := 0; p < NumPacks; p++ {
		s.cards.Add(PackCards...)
	}
	return s
}

// NewShoeFromCards wraps an explicit card sequence (deterministic tests,
// replay deck overrides). The sequence is copied.
func NewShoeFromCards(cards []card.Card) *Shoe {
	s := &Shoe{}
	s.cards.Init(cards)
	return s
}

// Shuffle 洗牌: Fisher-Yates, 从最后一张到第二张
func (s *Shoe) Shuffle(rng *rand.Rand) {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// DealOne removes and returns the last card of the shoe.
// The reshuffle threshold keeps this from failing in normal play;
// ErrEmptyShoe therefore signals a broken invariant, not a game state.
func (s *Shoe) DealOne() (card.Card, error) {
	if s.cards.Count() == 0 {
		return card.CardInvalid, ErrEmptyShoe
	}
	return s.cards.PopCard(), nil
}

func (s *Shoe) Remaining() int {
	return s.cards.Count()
}

// NeedsReshuffle reports whether the next round must start from a fresh shoe.
func (s *Shoe) NeedsReshuffle() bool {
	return s.cards.Count() < ReshuffleThreshold
}

// Cards returns a copy of the remaining sequence (inspection only).
func (s *Shoe) Cards() []card.Card {
	return append([]card.Card{}, s.cards...)
}
