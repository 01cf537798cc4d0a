package blackjack

import (
	"math/rand"
	"testing"

	"blackjack-lite/card"
)

func TestNewShoeComposition(t *testing.T) {
	s := NewShoe()
	if s.Remaining() != ShoeSize {
		t.Fatalf("expected %d cards, got %d", ShoeSize, s.Remaining())
	}

	rankCount := make(map[byte]int)
	suitCount := make(map[card.Suit]int)
	for _, c := range s.Cards() {
		rankCount[c.Rank()]++
		suitCount[c.Suit()]++
	}
	for r := byte(1); r <= 13; r++ {
		if rankCount[r] != 4*NumPacks {
			t.Errorf("rank %d: expected %d copies, got %d", r, 4*NumPacks, rankCount[r])
		}
	}
	for _, su := range []card.Suit{card.Spade, card.Heart, card.Club, card.Diamond} {
		if suitCount[su] != 13*NumPacks {
			t.Errorf("suit %v: expected %d copies, got %d", su, 13*NumPacks, suitCount[su])
		}
	}

	// Suit-major, rank-ascending: ace of spades first, king of diamonds last.
	cards := s.Cards()
	if cards[0] != card.CardSpadeA {
		t.Fatalf("expected first card %v, got %v", card.CardSpadeA, cards[0])
	}
	if cards[len(cards)-1] != card.CardDiamondK {
		t.Fatalf("expected last card %v, got %v", card.CardDiamondK, cards[len(cards)-1])
	}
}

func TestShuffleKeepsComposition(t *testing.T) {
	s := NewShoe()
	before := make(map[card.Card]int)
	for _, c := range s.Cards() {
		before[c]++
	}

	s.Shuffle(rand.New(rand.NewSource(1)))

	if s.Remaining() != ShoeSize {
		t.Fatalf("shuffle changed the card count: %d", s.Remaining())
	}
	after := make(map[card.Card]int)
	for _, c := range s.Cards() {
		after[c]++
	}
	for c, n := range before {
		if after[c] != n {
			t.Fatalf("card %v: expected %d copies after shuffle, got %d", c, n, after[c])
		}
	}

	// A full-shoe shuffle leaving the order untouched would be astonishing.
	same := true
	fresh := NewShoe().Cards()
	for i, c := range s.Cards() {
		if c != fresh[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("shuffle left the shoe in factory order")
	}
}

func TestShuffleDeterministicBySeed(t *testing.T) {
	a := NewShoe()
	b := NewShoe()
	a.Shuffle(rand.New(rand.NewSource(42)))
	b.Shuffle(rand.New(rand.NewSource(42)))
	ac, bc := a.Cards(), b.Cards()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("same seed produced different orders at index %d", i)
		}
	}
}

func TestDealOneFromEnd(t *testing.T) {
	s := NewShoeFromCards([]card.Card{card.CardSpadeA, card.CardHeartK})

	c, err := s.DealOne()
	if err != nil {
		t.Fatalf("DealOne err: %v", err)
	}
	if c != card.CardHeartK {
		t.Fatalf("expected %v dealt first, got %v", card.CardHeartK, c)
	}

	c, err = s.DealOne()
	if err != nil {
		t.Fatalf("DealOne err: %v", err)
	}
	if c != card.CardSpadeA {
		t.Fatalf("expected %v dealt second, got %v", card.CardSpadeA, c)
	}

	if _, err = s.DealOne(); err != ErrEmptyShoe {
		t.Fatalf("expected ErrEmptyShoe, got %v", err)
	}
}

func TestNeedsReshuffle(t *testing.T) {
	at := NewShoeFromCards(make([]card.Card, ReshuffleThreshold))
	if at.NeedsReshuffle() {
		t.Fatalf("%d cards should not trigger a reshuffle", ReshuffleThreshold)
	}
	below := NewShoeFromCards(make([]card.Card, ReshuffleThreshold-1))
	if !below.NeedsReshuffle() {
		t.Fatalf("%d cards should trigger a reshuffle", ReshuffleThreshold-1)
	}
}
