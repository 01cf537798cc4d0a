package blackjack

import "testing"

func TestPayout(t *testing.T) {
	cases := []struct {
		result GameResult
		bet    float64
		want   float64
	}{
		{GameResultPlayerWin, 10.0, 10.0},
		{GameResultDealerWin, 10.0, -10.0},
		{GameResultPush, 10.0, 0.0},
		{GameResultPlayerBlackjack, 10.0, 15.0},
		{GameResultSurrender, 10.0, -5.0},
		{GameResultDoubledWin, 10.0, 20.0},
		{GameResultDoubledLose, 10.0, -20.0},
		{GameResultNone, 10.0, 0.0},
		{GameResultPlayerBlackjack, 50.0, 75.0},
		{GameResultSurrender, 25.0, -12.5},
	}
	for _, tc := range cases {
		if got := Payout(tc.result, tc.bet); got != tc.want {
			t.Errorf("Payout(%v, %v): expected %v, got %v", tc.result, tc.bet, tc.want, got)
		}
	}
}

func TestPayoutIsPure(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Payout(GameResultPlayerBlackjack, 10.0); got != 15.0 {
			t.Fatalf("call %d: expected 15.0, got %v", i, got)
		}
	}
}
