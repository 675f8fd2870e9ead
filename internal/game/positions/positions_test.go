package positions

import (
	"testing"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Recurrence(t *testing.T) {
	moveSets := [][]int{
		{1},
		{1, 2},
		{1, 3, 4},
		{2, 5},
		{3, 1, 3},
		{7},
	}

	for _, moves := range moveSets {
		table := Compute(200, moves)
		require.Equal(t, 201, table.Len())
		assert.Equal(t, core.Losing, table.Label(0), "label[0] must be losing for %v", moves)

		for n := 1; n <= 200; n++ {
			expectWinning := false
			for _, m := range moves {
				if n >= m && table.Label(n-m) == core.Losing {
					expectWinning = true
					break
				}
			}
			assert.Equal(t, expectWinning, table.Label(n) == core.Winning, "moves %v, n=%d", moves, n)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	a := Compute(500, []int{1, 3, 4})
	b := Compute(500, []int{1, 3, 4})
	assert.Equal(t, a.Labels(), b.Labels())
}

func TestCompute_SubtractionGameUpToK(t *testing.T) {
	// Allowed moves {1..k}: n is losing iff n mod (k+1) == 0.
	k := 3
	table := Compute(30, []int{1, 2, 3})
	for n := 0; n <= 30; n++ {
		assert.Equal(t, n%(k+1) == 0, table.IsLosing(n), "n=%d", n)
	}
}

func TestCompute_OneThreeFour(t *testing.T) {
	table := Compute(100, []int{1, 3, 4})
	for n := 0; n <= 100; n++ {
		r := n % 7
		assert.Equal(t, r == 0 || r == 2, table.IsLosing(n), "n=%d", n)
	}
	assert.True(t, table.IsLosing(21))
	assert.Equal(t, []int{0, 2, 7, 9, 14}, table.LosingPositions(5))
}

func TestCompute_NegativeBound(t *testing.T) {
	table := Compute(-5, []int{1})
	require.Equal(t, 1, table.Len())
	assert.Equal(t, core.Losing, table.Label(0))
}

func TestBoundFor(t *testing.T) {
	tests := []struct {
		name  string
		piles []int
		want  int
	}{
		{"small piles widen to minimum", []int{21, 5}, MinAnalysisBound},
		{"large pile wins", []int{3, 2500}, 2500},
		{"no piles", nil, MinAnalysisBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BoundFor(tt.piles))
		})
	}
}

func TestTable_Label_OutOfRange(t *testing.T) {
	table := Compute(10, []int{1, 2})
	for _, n := range []int{-1, 11, 1000} {
		assert.False(t, table.Covers(n))
		assert.Equal(t, core.Winning, table.Label(n), "n=%d", n)
		assert.Equal(t, table.Label(n) == core.Losing, table.IsLosing(n), "Label and IsLosing must agree for n=%d", n)
	}
	for n := 0; n <= 10; n++ {
		assert.Equal(t, table.Label(n) == core.Losing, table.IsLosing(n), "n=%d", n)
	}
}

func TestTable_WinningMoves(t *testing.T) {
	table := Compute(50, []int{1, 3, 4})
	assert.Equal(t, []int{4}, table.WinningMoves(11))
	assert.Equal(t, []int{1, 3}, table.WinningMoves(3))
	assert.Empty(t, table.WinningMoves(21))
	assert.Equal(t, []int{1, 3, 4}, table.Allowed())
}

func TestTable_Period(t *testing.T) {
	assert.Equal(t, 4, ForGame([]int{10}, []int{1, 2, 3}).Period())
	assert.Equal(t, 7, ForGame([]int{10}, []int{1, 3, 4}).Period())
	assert.Equal(t, 0, Compute(2, []int{1}).Period())
}

func TestTable_Recommendation(t *testing.T) {
	table := Compute(50, []int{1, 3, 4})
	assert.Contains(t, table.Recommendation(14), "losing position")
	assert.Equal(t, "Winning moves: 4. Take one of these amounts to force a win.", table.Recommendation(11))
}
