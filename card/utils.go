package card

// CardsToStrings renders cards in the compact parseable form ("As", "Td").
// Counterpart of StrToCard; used by replay specs and the audit ledger.
func CardsToStrings(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, cardToStr(c))
	}
	return out
}

// StringsToCards parses a list produced by CardsToStrings.
func StringsToCards(ss []string) ([]Card, error) {
	out := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := StrToCard(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func cardToStr(c Card) string {
	rank := c & 0x0F
	rankStr := ""
	switch rank {
	case 1:
		rankStr = "A"
	case 10:
		rankStr = "T"
	case 11:
		rankStr = "J"
	case 12:
		rankStr = "Q"
	case 13:
		rankStr = "K"
	default:
		rankStr = string('0' + byte(rank))
	}
	suitStr := ""
	switch Suit(c >> 4) {
	case Spade:
		suitStr = "s"
	case Heart:
		suitStr = "h"
	case Club:
		suitStr = "c"
	case Diamond:
		suitStr = "d"
	}
	return rankStr + suitStr
}
