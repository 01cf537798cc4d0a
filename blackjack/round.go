package blackjack

import "fmt"

// PlayRound runs one complete round: deal, natural check, player
// decisions, dealer draws, settlement, log append. Stats and bankroll
// are applied before the sink write, so a sink failure returns the
// finished record alongside the error.
func (s *Session) PlayRound() (*RoundRecord, error) {
	if s.bankroll < s.betAmount {
		return nil, ErrInsufficientBankroll
	}

	// 每局开始前检查一次是否需要重洗
	if s.shoe.NeedsReshuffle() {
		s.rebuildShoe()
	}

	s.phase = PhaseTypeDealing
	player := NewHand()
	dealer := NewHand()
	for _, h := range []*Hand{player, dealer, player, dealer} {
		c, err := s.shoe.DealOne()
		if err != nil {
			return nil, err
		}
		h.AddCard(c)
	}
	upcard := dealer.Cards()[0]

	rec := &RoundRecord{Round: s.gamesPlayed + 1}
	rec.Lines = append(rec.Lines,
		fmt.Sprintf("*** Game %d ***", rec.Round),
		fmt.Sprintf("Player's hand: %s (Total: %d)", player.Display(), player.Total()),
	)

	// A two-card 21 on either side settles the round immediately.
	s.phase = PhaseTypeNaturalCheck
	playerNatural := player.IsBlackjack()
	dealerNatural := dealer.IsBlackjack()
	switch {
	case playerNatural && dealerNatural:
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Dealer's hand: %s (Total: %d)", dealer.Display(), dealer.Total()),
			"Both have Blackjack! Push!",
		)
		return s.finishRound(rec, player, dealer, GameResultPush)
	case dealerNatural:
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Dealer's hand: %s (Total: %d)", dealer.Display(), dealer.Total()),
			"Blackjack! Dealer wins!",
		)
		return s.finishRound(rec, player, dealer, GameResultDealerWin)
	case playerNatural:
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Dealer shows: %s", upcard),
			"Blackjack! Player wins!",
		)
		return s.finishRound(rec, player, dealer, GameResultPlayerBlackjack)
	}

	rec.Lines = append(rec.Lines, fmt.Sprintf("Dealer shows: %s", upcard))

	// Double, Split and Surrender are only honored on the opening two
	// cards. Hit and Stand here just mean "play the hand normally".
	s.phase = PhaseTypeFirstAction
	first := s.brain.FirstAction(buildHandView(player, upcard))
	player.clearFirstAction()
	switch first {
	case PlayerActionTypeDouble:
		c, err := s.shoe.DealOne()
		if err != nil {
			return nil, err
		}
		player.AddCard(c)
		player.markDoubled()
		player.deactivate()
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Player doubles down: %s (Total: %d)", c, player.Total()))
		if player.IsBusted() {
			rec.Lines = append(rec.Lines, "Player busts!")
			return s.finishRound(rec, player, dealer, GameResultDoubledLose)
		}
	case PlayerActionTypeSurrender:
		rec.Lines = append(rec.Lines, "Player surrenders!")
		return s.finishRound(rec, player, dealer, GameResultSurrender)
	case PlayerActionTypeSplit:
		// 不支持分牌，按停牌处理
		player.deactivate()
		rec.Lines = append(rec.Lines, "Split unavailable; player stands.")
	}

	// Hit until the strategy stands or the hand busts. A bust ends the
	// round before the dealer draws anything.
	s.phase = PhaseTypePlayerTurn
	for player.Active() {
		act := s.brain.NextAction(buildHandView(player, upcard))
		if act != PlayerActionTypeHit {
			player.deactivate()
			rec.Lines = append(rec.Lines, "Player stands.")
			break
		}
		c, err := s.shoe.DealOne()
		if err != nil {
			return nil, err
		}
		player.AddCard(c)
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Player hits: %s (Total: %d)", c, player.Total()))
		if player.IsBusted() {
			rec.Lines = append(rec.Lines, "Player busts!")
			return s.finishRound(rec, player, dealer, GameResultDealerWin)
		}
	}

	// Dealer draws to 17 and stands on any 17 or better, soft or hard.
	s.phase = PhaseTypeDealerTurn
	for dealer.Total() < 17 {
		c, err := s.shoe.DealOne()
		if err != nil {
			return nil, err
		}
		dealer.AddCard(c)
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Dealer hits: %s (Total: %d)", c, dealer.Total()))
		if dealer.IsBusted() {
			rec.Lines = append(rec.Lines, "Dealer busts!")
			return s.finishRound(rec, player, dealer, GameResultPlayerWin)
		}
	}
	rec.Lines = append(rec.Lines,
		"Dealer stands.",
		fmt.Sprintf("Dealer's hand: %s (Total: %d)", dealer.Display(), dealer.Total()),
	)

	s.phase = PhaseTypeResolve
	var result GameResult
	switch {
	case player.Total() > dealer.Total():
		result = GameResultPlayerWin
		if player.Doubled() {
			result = GameResultDoubledWin
		}
		rec.Lines = append(rec.Lines, "Player wins!")
	case player.Total() < dealer.Total():
		result = GameResultDealerWin
		if player.Doubled() {
			result = GameResultDoubledLose
		}
		rec.Lines = append(rec.Lines, "Dealer wins!")
	default:
		result = GameResultPush
		rec.Lines = append(rec.Lines, "Push!")
	}
	return s.finishRound(rec, player, dealer, result)
}

// finishRound seals the record, applies stats and payout, then hands the
// block to the sink. A failed sink write does not roll the stats back.
func (s *Session) finishRound(rec *RoundRecord, player, dealer *Hand, result GameResult) (*RoundRecord, error) {
	s.phase = PhaseTypeRoundEnd
	rec.PlayerCards = player.Cards()
	rec.DealerCards = dealer.Cards()
	rec.PlayerTotal = player.Total()
	rec.DealerTotal = dealer.Total()
	rec.Doubled = player.Doubled()
	rec.Result = result
	s.applySettlement(rec)
	if err := s.sink.AppendRound(rec); err != nil {
		return rec, fmt.Errorf("append round log: %w", err)
	}
	return rec, nil
}
