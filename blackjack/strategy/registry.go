package strategy

import (
	"fmt"

	"blackjack-lite/blackjack"
)

// New returns the strategy registered under name. The empty string
// selects "basic".
func New(name string) (blackjack.Decider, error) {
	switch name {
	case "", "basic":
		return Basic{}, nil
	case "dealer-mimic":
		return DealerMimic{}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// Names lists every registered strategy name.
func Names() []string {
	return []string{"basic", "dealer-mimic"}
}
