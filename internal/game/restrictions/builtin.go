package restrictions

import "github.com/mitchelldurbincs/CoinNim/internal/game/core"

// Built-in restriction IDs.
const (
	NoConsecutivePilesID = "noConsecutivePiles"
	MaxCoinsInRowID      = "maxCoinsInRow"
	AlternateEvenOddID   = "alternateEvenOdd"
)

// DefaultMaxCoins is the initial cap for the max-coins-in-row restriction.
const DefaultMaxCoins = 3

type NoConsecutivePilesConfig struct{}

func (NoConsecutivePilesConfig) RestrictionID() string { return NoConsecutivePilesID }

type MaxCoinsInRowConfig struct {
	MaxCoins int `json:"maxCoins" yaml:"maxCoins"`
}

func (MaxCoinsInRowConfig) RestrictionID() string { return MaxCoinsInRowID }

type AlternateEvenOddConfig struct{}

func (AlternateEvenOddConfig) RestrictionID() string { return AlternateEvenOddID }

// NoConsecutivePiles forbids taking from the pile the previous move used.
type NoConsecutivePiles struct{}

func (NoConsecutivePiles) ID() string            { return NoConsecutivePilesID }
func (NoConsecutivePiles) Name() string          { return "No Consecutive Pile Picks" }
func (NoConsecutivePiles) Description() string   { return "Cannot pick from the same pile twice in a row" }
func (NoConsecutivePiles) DefaultConfig() Config { return NoConsecutivePilesConfig{} }

func (r NoConsecutivePiles) DecodeConfig(raw map[string]any) (Config, error) {
	return decodeInto(r.ID(), raw, NoConsecutivePilesConfig{})
}

func (NoConsecutivePiles) Validate(state core.View, move core.Move, _ Config) bool {
	if state.LastMove == nil {
		return true
	}
	return state.LastMove.PileIndex != move.PileIndex
}

// ValidMoves lists every base-legal move outside the last-used pile.
func (NoConsecutivePiles) ValidMoves(state core.View, _ Config) []core.Move {
	var moves []core.Move
	for pileIndex, pile := range state.Piles {
		if state.LastMove != nil && state.LastMove.PileIndex == pileIndex {
			continue
		}
		for _, coins := range state.Allowed {
			if coins > 0 && coins <= pile {
				moves = append(moves, core.Move{PileIndex: pileIndex, CoinsToTake: coins})
			}
		}
	}
	return moves
}

// MaxCoinsInRow caps the coins a player may take when they also made the
// previous move.
type MaxCoinsInRow struct{}

func (MaxCoinsInRow) ID() string          { return MaxCoinsInRowID }
func (MaxCoinsInRow) Name() string        { return "Maximum Coins in Row" }
func (MaxCoinsInRow) Description() string { return "Cannot take more than X coins in a row" }

func (MaxCoinsInRow) DefaultConfig() Config {
	return MaxCoinsInRowConfig{MaxCoins: DefaultMaxCoins}
}

func (r MaxCoinsInRow) DecodeConfig(raw map[string]any) (Config, error) {
	return decodeInto(r.ID(), raw, MaxCoinsInRowConfig{MaxCoins: DefaultMaxCoins})
}

func (MaxCoinsInRow) Validate(state core.View, move core.Move, cfg Config) bool {
	if state.LastMove == nil || state.LastMove.Player != state.CurrentPlayer {
		return true
	}
	c := configAs(cfg, MaxCoinsInRowConfig{MaxCoins: DefaultMaxCoins})
	return move.CoinsToTake <= c.MaxCoins
}

// AlternateEvenOdd requires the parity of coins taken to flip every move.
type AlternateEvenOdd struct{}

func (AlternateEvenOdd) ID() string            { return AlternateEvenOddID }
func (AlternateEvenOdd) Name() string          { return "Alternate Even/Odd" }
func (AlternateEvenOdd) Description() string   { return "Must alternate between even and odd number of coins" }
func (AlternateEvenOdd) DefaultConfig() Config { return AlternateEvenOddConfig{} }

func (r AlternateEvenOdd) DecodeConfig(raw map[string]any) (Config, error) {
	return decodeInto(r.ID(), raw, AlternateEvenOddConfig{})
}

func (AlternateEvenOdd) Validate(state core.View, move core.Move, _ Config) bool {
	if state.LastMove == nil {
		return true
	}
	return (state.LastMove.CoinsToTake%2 == 0) != (move.CoinsToTake%2 == 0)
}
