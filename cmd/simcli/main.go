package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/blackjack/strategy"
	"blackjack-lite/gamelog"
)

func main() {
	var (
		rounds   = flag.Int("rounds", 1000, "number of rounds to play")
		strat    = flag.String("strategy", "basic", "strategy name ("+strings.Join(strategy.Names(), ", ")+")")
		seed     = flag.Int64("seed", 0, "RNG seed (0 => time-based)")
		bankroll = flag.Float64("bankroll", 1000.0, "starting bankroll")
		bet      = flag.Float64("bet", 10.0, "flat bet per round")
		logPath  = flag.String("log", gamelog.DefaultPath, "round log file")
	)
	flag.Parse()

	brain, err := strategy.New(*strat)
	if err != nil {
		log.Fatalf("[Sim] %v (available: %s)", err, strings.Join(strategy.Names(), ", "))
	}

	cfg := blackjack.Config{
		StartingBankroll: *bankroll,
		BetAmount:        *bet,
		Seed:             *seed,
	}
	sess, err := blackjack.NewSession(cfg, brain, gamelog.NewFileSink(*logPath))
	if err != nil {
		log.Fatalf("[Sim] Failed to init session: %v", err)
	}

	played, err := sess.PlayRounds(*rounds)
	if err != nil {
		if !errors.Is(err, blackjack.ErrInsufficientBankroll) {
			log.Fatalf("[Sim] Round %d failed: %v", played+1, err)
		}
		log.Printf("[Sim] Bankroll exhausted after %d rounds", played)
	}

	fmt.Printf("Strategy: %s\n", sess.StrategyName())
	fmt.Printf("Games Played: %d\n", sess.GamesPlayed())
	fmt.Printf("Wins: %d\n", sess.Wins())
	fmt.Printf("Losses: %d\n", sess.Losses())
	fmt.Printf("Pushes: %d\n", sess.Pushes())
	fmt.Printf("Last Result: %s\n", sess.LastResult())
	fmt.Printf("Bankroll: $%.2f\n", sess.Bankroll())
	fmt.Printf("Round log: %s\n", *logPath)
}
