package replay

import (
	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

func roundToEvent(rec *blackjack.RoundRecord) *RoundEvent {
	return &RoundEvent{
		Round:       rec.Round,
		PlayerCards: card.CardsToStrings(rec.PlayerCards),
		DealerCards: card.CardsToStrings(rec.DealerCards),
		PlayerTotal: rec.PlayerTotal,
		DealerTotal: rec.DealerTotal,
		Doubled:     rec.Doubled,
		Result:      rec.Result.String(),
		Delta:       rec.Delta,
		Bankroll:    rec.Bankroll,
		Lines:       append([]string{}, rec.Lines...),
	}
}
