package rules

import (
	"fmt"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
)

// Rejection reasons, surfaced verbatim to players.
const (
	ReasonInvalidPile     = "Invalid pile index"
	ReasonNonPositive     = "Must take at least one coin"
	ReasonExceedsPile     = "Cannot take more coins than available in pile"
	ReasonNotAllowed      = "Invalid number of coins to take"
	ReasonRestrictionFmt  = "Move violates restriction: %s"
	ReasonUnknownRestrFmt = "Unknown restriction: %s"
)

// Result is the verdict for one move. Err is a sentinel from core usable
// with errors.Is; Reason is the player-facing message.
type Result struct {
	Valid  bool
	Reason string
	Err    error
}

func reject(err error, reason string) Result {
	return Result{Valid: false, Reason: reason, Err: err}
}

// Error turns a rejected Result into an error; nil when the move is valid.
func (r Result) Error() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Err, r.Reason)
}

// ValidateMove checks move against the base rules and then every enabled
// restriction. Checks run in a fixed order and stop at the first failure:
// pile range, positivity, pile capacity, allowed-set membership, restrictions.
func ValidateMove(state core.View, move core.Move, catalog *restrictions.Catalog, enabled []restrictions.Enabled) Result {
	if !state.Piles.InRange(move.PileIndex) {
		return reject(core.ErrInvalidPileIndex, ReasonInvalidPile)
	}
	if move.CoinsToTake <= 0 {
		return reject(core.ErrNonPositiveTake, ReasonNonPositive)
	}
	if move.CoinsToTake > state.Piles[move.PileIndex] {
		return reject(core.ErrExceedsPile, ReasonExceedsPile)
	}
	if !core.Contains(state.Allowed, move.CoinsToTake) {
		return reject(core.ErrMoveNotAllowed, ReasonNotAllowed)
	}
	if len(enabled) == 0 {
		return Result{Valid: true}
	}
	if catalog == nil {
		return reject(core.ErrUnknownRestriction, fmt.Sprintf(ReasonUnknownRestrFmt, enabled[0].ID))
	}
	if v, ok := catalog.Check(state, move, enabled); !ok {
		if v.Restriction == nil {
			return reject(core.ErrUnknownRestriction, fmt.Sprintf(ReasonUnknownRestrFmt, v.UnknownID))
		}
		return reject(core.ErrRestrictionViolated, fmt.Sprintf(ReasonRestrictionFmt, v.Restriction.Name()))
	}
	return Result{Valid: true}
}

// LegalMoveCalculator enumerates legal moves for a position.
type LegalMoveCalculator struct {
	catalog *restrictions.Catalog
}

// NewLegalMoveCalculator creates a calculator bound to a restriction catalog.
func NewLegalMoveCalculator(catalog *restrictions.Catalog) *LegalMoveCalculator {
	return &LegalMoveCalculator{catalog: catalog}
}

// ValidMoves lists every legal move, pile by pile, smallest take first.
func (lmc *LegalMoveCalculator) ValidMoves(state core.View, enabled []restrictions.Enabled) []core.Move {
	return ValidMoves(state, lmc.catalog, enabled)
}

// HasValidMoves reports whether the player to move has any legal move.
func (lmc *LegalMoveCalculator) HasValidMoves(state core.View, enabled []restrictions.Enabled) bool {
	return len(lmc.ValidMoves(state, enabled)) > 0
}

// ValidMoves enumerates every (pile, take) pair with the take allowed and no
// larger than the pile, then keeps those that pass ValidateMove.
func ValidMoves(state core.View, catalog *restrictions.Catalog, enabled []restrictions.Enabled) []core.Move {
	allowed := core.NormalizeAllowed(state.Allowed)
	var candidates []core.Move
	for pileIndex, pile := range state.Piles {
		for _, coins := range allowed {
			if coins > 0 && coins <= pile {
				candidates = append(candidates, core.Move{PileIndex: pileIndex, CoinsToTake: coins})
			}
		}
	}
	if catalog != nil {
		candidates = catalog.Narrow(state, candidates, enabled)
	}

	moves := make([]core.Move, 0, len(candidates))
	for _, m := range candidates {
		if ValidateMove(state, m, catalog, enabled).Valid {
			moves = append(moves, m)
		}
	}
	return moves
}
