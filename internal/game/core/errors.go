package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPileIndex    = errors.New("invalid pile index")
	ErrNonPositiveTake     = errors.New("must take at least one coin")
	ErrExceedsPile         = errors.New("cannot take more coins than available in pile")
	ErrMoveNotAllowed      = errors.New("invalid number of coins to take")
	ErrRestrictionViolated = errors.New("move violates restriction")
	ErrUnknownRestriction  = errors.New("unknown restriction")
	ErrMoveRejected        = errors.New("move rejected")
	ErrGameOver            = errors.New("game is over")
	ErrInvalidPlayer       = errors.New("invalid player")
	ErrNoMove              = errors.New("no move available")
)

// WrapMoveError attaches the player and move to an error so log lines and
// CLI output say who tried what.
func WrapMoveError(player Player, m Move, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d: take %d from pile %d: %w", int(player), m.CoinsToTake, m.PileIndex, err)
}

// WrapTurnError tags an error with the turn it happened on.
func WrapTurnError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game turn %d [%s]: %w", turn, phase, err)
}
