package rules

import (
	"testing"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMove_OrderAndReasons(t *testing.T) {
	catalog := restrictions.DefaultCatalog()
	last := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 1}, Player: core.Player1}
	state := core.View{
		Piles:         core.Piles{5, 2},
		Allowed:       []int{1, 3},
		CurrentPlayer: core.Player2,
		LastMove:      last,
	}
	enabled := []restrictions.Enabled{{ID: restrictions.NoConsecutivePilesID}}

	tests := []struct {
		name   string
		move   core.Move
		reason string
		err    error
	}{
		// Each move fails several checks; only the earliest one is reported.
		{"out of range beats everything", core.Move{PileIndex: 7, CoinsToTake: 0}, ReasonInvalidPile, core.ErrInvalidPileIndex},
		{"negative index", core.Move{PileIndex: -1, CoinsToTake: 1}, ReasonInvalidPile, core.ErrInvalidPileIndex},
		{"non-positive beats capacity", core.Move{PileIndex: 0, CoinsToTake: -4}, ReasonNonPositive, core.ErrNonPositiveTake},
		{"capacity beats membership", core.Move{PileIndex: 1, CoinsToTake: 4}, ReasonExceedsPile, core.ErrExceedsPile},
		{"membership beats restrictions", core.Move{PileIndex: 0, CoinsToTake: 2}, ReasonNotAllowed, core.ErrMoveNotAllowed},
		{"restriction", core.Move{PileIndex: 0, CoinsToTake: 3}, "Move violates restriction: No Consecutive Pile Picks", core.ErrRestrictionViolated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateMove(state, tt.move, catalog, enabled)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
			assert.ErrorIs(t, res.Error(), tt.err)

			// Same inputs, same verdict.
			again := ValidateMove(state, tt.move, catalog, enabled)
			assert.Equal(t, res, again)
		})
	}

	ok := ValidateMove(state, core.Move{PileIndex: 1, CoinsToTake: 1}, catalog, enabled)
	assert.True(t, ok.Valid)
	assert.NoError(t, ok.Error())
}

func TestValidateMove_UnknownRestriction(t *testing.T) {
	state := core.View{Piles: core.Piles{3}, Allowed: []int{1}, CurrentPlayer: core.Player1}
	enabled := []restrictions.Enabled{{ID: "ghost"}}

	res := ValidateMove(state, core.Move{PileIndex: 0, CoinsToTake: 1}, restrictions.DefaultCatalog(), enabled)
	assert.Equal(t, "Unknown restriction: ghost", res.Reason)
	assert.ErrorIs(t, res.Error(), core.ErrUnknownRestriction)

	res = ValidateMove(state, core.Move{PileIndex: 0, CoinsToTake: 1}, nil, enabled)
	assert.ErrorIs(t, res.Error(), core.ErrUnknownRestriction)
}

func TestValidMoves(t *testing.T) {
	state := core.View{Piles: core.Piles{3, 0, 5}, Allowed: []int{4, 1, 3}, CurrentPlayer: core.Player1}
	moves := ValidMoves(state, nil, nil)
	assert.Equal(t, []core.Move{
		{PileIndex: 0, CoinsToTake: 1},
		{PileIndex: 0, CoinsToTake: 3},
		{PileIndex: 2, CoinsToTake: 1},
		{PileIndex: 2, CoinsToTake: 3},
		{PileIndex: 2, CoinsToTake: 4},
	}, moves)
}

func TestValidMoves_NarrowingMatchesBruteForce(t *testing.T) {
	catalog := restrictions.DefaultCatalog()
	last := &core.MoveRecord{Move: core.Move{PileIndex: 2, CoinsToTake: 2}, Player: core.Player1}
	state := core.View{Piles: core.Piles{4, 6, 9}, Allowed: []int{1, 2, 3}, CurrentPlayer: core.Player2, LastMove: last}
	enabled := []restrictions.Enabled{
		{ID: restrictions.NoConsecutivePilesID},
		{ID: restrictions.AlternateEvenOddID},
	}

	got := ValidMoves(state, catalog, enabled)

	var want []core.Move
	for p := range state.Piles {
		for _, c := range state.Allowed {
			m := core.Move{PileIndex: p, CoinsToTake: c}
			if ValidateMove(state, m, catalog, enabled).Valid {
				want = append(want, m)
			}
		}
	}
	require.NotEmpty(t, want)
	assert.Equal(t, want, got)
}

func TestLegalMoveCalculator_HasValidMoves(t *testing.T) {
	calc := NewLegalMoveCalculator(restrictions.DefaultCatalog())
	assert.False(t, calc.HasValidMoves(core.View{Piles: core.Piles{0}, Allowed: []int{1}}, nil))
	assert.False(t, calc.HasValidMoves(core.View{Piles: core.Piles{2, 1}, Allowed: []int{3}}, nil))
	assert.True(t, calc.HasValidMoves(core.View{Piles: core.Piles{0, 3}, Allowed: []int{3}}, nil))

	// The only non-empty pile was just used.
	last := &core.MoveRecord{Move: core.Move{PileIndex: 1, CoinsToTake: 1}, Player: core.Player1}
	view := core.View{Piles: core.Piles{0, 3}, Allowed: []int{1}, CurrentPlayer: core.Player2, LastMove: last}
	assert.False(t, calc.HasValidMoves(view, []restrictions.Enabled{{ID: restrictions.NoConsecutivePilesID}}))
}
