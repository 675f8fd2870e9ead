package restrictions

import (
	"testing"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewAfter(piles []int, last *core.MoveRecord, current core.Player) core.View {
	return core.View{
		Piles:         piles,
		Allowed:       []int{1, 2, 3, 4},
		CurrentPlayer: current,
		LastMove:      last,
	}
}

func TestNoConsecutivePiles(t *testing.T) {
	r := NoConsecutivePiles{}
	last := &core.MoveRecord{Move: core.Move{PileIndex: 1, CoinsToTake: 2}, Player: core.Player1}

	assert.True(t, r.Validate(viewAfter([]int{5, 5}, nil, core.Player1), core.Move{PileIndex: 1, CoinsToTake: 1}, nil))
	assert.False(t, r.Validate(viewAfter([]int{5, 5}, last, core.Player2), core.Move{PileIndex: 1, CoinsToTake: 1}, nil))
	assert.True(t, r.Validate(viewAfter([]int{5, 5}, last, core.Player2), core.Move{PileIndex: 0, CoinsToTake: 1}, nil))

	moves := r.ValidMoves(viewAfter([]int{2, 5}, last, core.Player2), r.DefaultConfig())
	assert.Equal(t, []core.Move{{PileIndex: 0, CoinsToTake: 1}, {PileIndex: 0, CoinsToTake: 2}}, moves)
}

func TestMaxCoinsInRow(t *testing.T) {
	r := MaxCoinsInRow{}
	sameSeat := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 1}, Player: core.Player1}
	otherSeat := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 1}, Player: core.Player2}
	cfg := MaxCoinsInRowConfig{MaxCoins: 2}

	tests := []struct {
		name string
		last *core.MoveRecord
		take int
		want bool
	}{
		{"no previous move", nil, 4, true},
		{"opponent moved last", otherSeat, 4, true},
		{"same player under cap", sameSeat, 2, true},
		{"same player over cap", sameSeat, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Validate(viewAfter([]int{10}, tt.last, core.Player1), core.Move{CoinsToTake: tt.take}, cfg)
			assert.Equal(t, tt.want, got)
		})
	}

	// Missing config uses the default cap.
	assert.False(t, r.Validate(viewAfter([]int{10}, sameSeat, core.Player1), core.Move{CoinsToTake: 4}, nil))
	assert.True(t, r.Validate(viewAfter([]int{10}, sameSeat, core.Player1), core.Move{CoinsToTake: 3}, nil))
}

func TestAlternateEvenOdd(t *testing.T) {
	r := AlternateEvenOdd{}
	even := &core.MoveRecord{Move: core.Move{CoinsToTake: 2}, Player: core.Player1}

	assert.True(t, r.Validate(viewAfter([]int{10}, nil, core.Player2), core.Move{CoinsToTake: 2}, nil))
	assert.False(t, r.Validate(viewAfter([]int{10}, even, core.Player2), core.Move{CoinsToTake: 4}, nil))
	assert.True(t, r.Validate(viewAfter([]int{10}, even, core.Player2), core.Move{CoinsToTake: 3}, nil))
}

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := DefaultCatalog()
	ids := []string{}
	for _, r := range c.All() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{NoConsecutivePilesID, MaxCoinsInRowID, AlternateEvenOddID}, ids)

	err := c.Register(MaxCoinsInRow{})
	assert.ErrorIs(t, err, ErrDuplicateRestriction)

	r, ok := c.Get(AlternateEvenOddID)
	require.True(t, ok)
	assert.Equal(t, "Alternate Even/Odd", r.Name())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCatalog_Enable(t *testing.T) {
	c := DefaultCatalog()

	e, err := c.Enable(MaxCoinsInRowID, map[string]any{"maxCoins": "5"})
	require.NoError(t, err)
	assert.Equal(t, MaxCoinsInRowConfig{MaxCoins: 5}, e.Config)

	e, err = c.Enable(MaxCoinsInRowID, nil)
	require.NoError(t, err)
	assert.Equal(t, MaxCoinsInRowConfig{MaxCoins: DefaultMaxCoins}, e.Config)

	_, err = c.Enable(NoConsecutivePilesID, map[string]any{"bogus": 1})
	assert.Error(t, err)

	_, err = c.Enable("nope", nil)
	assert.ErrorIs(t, err, core.ErrUnknownRestriction)
}

func TestCatalog_Check_AndComposition(t *testing.T) {
	c := DefaultCatalog()
	last := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 2}, Player: core.Player1}
	view := viewAfter([]int{10, 10}, last, core.Player2)

	noRepeat := Enabled{ID: NoConsecutivePilesID, Config: NoConsecutivePilesConfig{}}
	parity := Enabled{ID: AlternateEvenOddID, Config: AlternateEvenOddConfig{}}

	// Illegal only under the no-repeat rule.
	move := core.Move{PileIndex: 0, CoinsToTake: 3}
	_, okR1 := c.Check(view, move, []Enabled{noRepeat})
	_, okR2 := c.Check(view, move, []Enabled{parity})
	v, okBoth := c.Check(view, move, []Enabled{parity, noRepeat})
	assert.False(t, okR1)
	assert.True(t, okR2)
	assert.False(t, okBoth)
	assert.Equal(t, NoConsecutivePilesID, v.Restriction.ID())

	// Illegal only under the parity rule.
	move = core.Move{PileIndex: 1, CoinsToTake: 4}
	_, okR1 = c.Check(view, move, []Enabled{noRepeat})
	_, okR2 = c.Check(view, move, []Enabled{parity})
	v, okBoth = c.Check(view, move, []Enabled{noRepeat, parity})
	assert.True(t, okR1)
	assert.False(t, okR2)
	assert.False(t, okBoth)
	assert.Equal(t, AlternateEvenOddID, v.Restriction.ID())

	_, ok := c.Check(view, core.Move{PileIndex: 1, CoinsToTake: 3}, []Enabled{noRepeat, parity})
	assert.True(t, ok)
}

func TestCatalog_Check_UnknownID(t *testing.T) {
	c := DefaultCatalog()
	v, ok := c.Check(viewAfter([]int{3}, nil, core.Player1), core.Move{CoinsToTake: 1}, []Enabled{{ID: "ghost"}})
	assert.False(t, ok)
	assert.Equal(t, "ghost", v.UnknownID)
}

func TestAnyOf(t *testing.T) {
	either := AnyOf("repeatOrParity", "Repeat or parity", NoConsecutivePiles{}, AlternateEvenOdd{})
	c, err := NewCatalog(either)
	require.NoError(t, err)

	last := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 2}, Player: core.Player1}
	view := viewAfter([]int{10, 10}, last, core.Player2)
	enabled := []Enabled{{ID: "repeatOrParity"}}

	_, ok := c.Check(view, core.Move{PileIndex: 0, CoinsToTake: 3}, enabled)
	assert.True(t, ok, "parity alone should satisfy OR")
	_, ok = c.Check(view, core.Move{PileIndex: 1, CoinsToTake: 4}, enabled)
	assert.True(t, ok, "pile alone should satisfy OR")
	_, ok = c.Check(view, core.Move{PileIndex: 0, CoinsToTake: 4}, enabled)
	assert.False(t, ok, "failing both should be rejected")

	assert.Contains(t, either.Description(), "No Consecutive Pile Picks")
}

func TestAnyOf_DecodeConfig(t *testing.T) {
	either := AnyOf("capOrParity", "Cap or parity", MaxCoinsInRow{}, AlternateEvenOdd{})
	cfg, err := either.DecodeConfig(map[string]any{
		MaxCoinsInRowID: map[string]any{"maxCoins": 1},
	})
	require.NoError(t, err)
	typed, ok := cfg.(AnyOfConfig)
	require.True(t, ok)
	assert.Equal(t, MaxCoinsInRowConfig{MaxCoins: 1}, typed.Members[MaxCoinsInRowID])
	assert.Equal(t, "capOrParity", typed.RestrictionID())

	_, err = either.DecodeConfig(map[string]any{"other": map[string]any{}})
	assert.Error(t, err)
}

func TestCatalog_Narrow(t *testing.T) {
	c := DefaultCatalog()
	last := &core.MoveRecord{Move: core.Move{PileIndex: 0, CoinsToTake: 1}, Player: core.Player1}
	view := viewAfter([]int{2, 1}, last, core.Player2)
	candidates := []core.Move{
		{PileIndex: 0, CoinsToTake: 1},
		{PileIndex: 0, CoinsToTake: 2},
		{PileIndex: 1, CoinsToTake: 1},
	}
	got := c.Narrow(view, candidates, []Enabled{{ID: NoConsecutivePilesID}, {ID: AlternateEvenOddID}})
	assert.Equal(t, []core.Move{{PileIndex: 1, CoinsToTake: 1}}, got)
	assert.Len(t, candidates, 3, "input slice must not be modified")
}
