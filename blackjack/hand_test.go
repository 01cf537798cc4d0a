package blackjack

import (
	"testing"

	"blackjack-lite/card"
)

func TestHandTotalAceReduction(t *testing.T) {
	cases := []struct {
		name  string
		cards []card.Card
		total int
		soft  bool
	}{
		{"empty", nil, 0, false},
		{"single ace", []card.Card{card.CardSpadeA}, 11, true},
		{"two aces", []card.Card{card.CardSpadeA, card.CardHeartA}, 12, true},
		{"natural", []card.Card{card.CardSpadeA, card.CardHeartK}, 21, true},
		{"soft seventeen", []card.Card{card.CardSpadeA, card.CardHeart6}, 17, true},
		{"ace forced hard", []card.Card{card.CardSpadeA, card.CardHeart9, card.CardClub5}, 15, false},
		{"faces reduce ace", []card.Card{card.CardSpadeK, card.CardHeartQ, card.CardClubA}, 21, false},
		{"triple ace", []card.Card{card.CardSpadeA, card.CardHeartA, card.CardClubA, card.CardDiamond8}, 21, true},
		{"hard bust", []card.Card{card.CardSpadeT, card.CardHeart9, card.CardClub5}, 24, false},
	}
	for _, tc := range cases {
		h := NewHand()
		h.AddCard(tc.cards...)
		if got := h.Total(); got != tc.total {
			t.Errorf("%s: expected total %d, got %d", tc.name, tc.total, got)
		}
		if got := h.IsSoft(); got != tc.soft {
			t.Errorf("%s: expected soft=%v, got %v", tc.name, tc.soft, got)
		}
	}
}

func TestHandTotalOrderInvariance(t *testing.T) {
	// 总点数只取决于牌的集合，与发牌顺序无关
	perms := [][]card.Card{
		{card.CardSpadeA, card.CardHeart7, card.CardClubK},
		{card.CardClubK, card.CardSpadeA, card.CardHeart7},
		{card.CardHeart7, card.CardClubK, card.CardSpadeA},
	}
	for i, cards := range perms {
		h := NewHand()
		h.AddCard(cards...)
		if got := h.Total(); got != 18 {
			t.Errorf("perm %d: expected total 18, got %d", i, got)
		}
	}
}

func TestHandBlackjack(t *testing.T) {
	natural := NewHand()
	natural.AddCard(card.CardSpadeA, card.CardHeartK)
	if !natural.IsBlackjack() {
		t.Fatalf("A+K should be blackjack")
	}

	// 21 via three cards is not a natural
	three := NewHand()
	three.AddCard(card.CardSpade7, card.CardHeart7, card.CardClub7)
	if three.IsBlackjack() {
		t.Fatalf("three-card 21 must not count as blackjack")
	}

	twenty := NewHand()
	twenty.AddCard(card.CardSpadeT, card.CardHeartJ)
	if twenty.IsBlackjack() {
		t.Fatalf("two-card 20 must not count as blackjack")
	}
}

func TestHandPair(t *testing.T) {
	pair := NewHand()
	pair.AddCard(card.CardSpade8, card.CardHeart8)
	if !pair.IsPair() {
		t.Fatalf("8+8 should be a pair")
	}

	// Ten and jack share a value but not a rank.
	tenJack := NewHand()
	tenJack.AddCard(card.CardSpadeT, card.CardHeartJ)
	if tenJack.IsPair() {
		t.Fatalf("T+J must not count as a pair")
	}

	single := NewHand()
	single.AddCard(card.CardSpade8)
	if single.IsPair() {
		t.Fatalf("one card is not a pair")
	}
}

func TestNewHandFlags(t *testing.T) {
	h := NewHand()
	if !h.FirstActionPending() {
		t.Fatalf("fresh hand should have the first action pending")
	}
	if !h.Active() {
		t.Fatalf("fresh hand should be active")
	}
	if h.Doubled() || h.Split() {
		t.Fatalf("fresh hand should carry no doubled/split flags")
	}
	if h.LastCard() != card.CardInvalid {
		t.Fatalf("empty hand has no last card")
	}
}

func TestHandDisplay(t *testing.T) {
	h := NewHand()
	h.AddCard(card.CardSpadeA, card.CardHeartK)
	want := card.CardSpadeA.String() + ", " + card.CardHeartK.String()
	if got := h.Display(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if h.LastCard() != card.CardHeartK {
		t.Fatalf("expected last card %v, got %v", card.CardHeartK, h.LastCard())
	}
}
