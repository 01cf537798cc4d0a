package blackjack

// Payout returns the bankroll delta a finished round pays to the player.
// It is pure: same result and bet always yield the same delta.
func Payout(result GameResult, bet float64) float64 {
	switch result {
	case GameResultPlayerWin:
		return bet
	case GameResultDealerWin:
		return -bet
	case GameResultPush:
		return 0
	case GameResultPlayerBlackjack:
		return bet * 1.5
	case GameResultSurrender:
		return -bet / 2
	case GameResultDoubledWin:
		return bet * 2
	case GameResultDoubledLose:
		return -bet * 2
	}
	return 0
}

// applySettlement folds a finished round into the session tallies.
// 结算并更新统计
func (s *Session) applySettlement(rec *RoundRecord) {
	switch rec.Result {
	case GameResultPlayerWin, GameResultPlayerBlackjack, GameResultDoubledWin:
		s.wins++
	case GameResultDealerWin, GameResultSurrender, GameResultDoubledLose:
		s.losses++
	case GameResultPush:
		s.pushes++
	}

	rec.Delta = Payout(rec.Result, s.betAmount)
	s.bankroll += rec.Delta
	rec.Bankroll = s.bankroll

	s.gamesPlayed++
	s.lastResult = rec.Result
	s.lastRound = rec
}
