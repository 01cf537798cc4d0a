package blackjack

import "errors"

var (
	ErrEmptyShoe            = errors.New("no cards left in shoe")
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
