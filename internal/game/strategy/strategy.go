// Package strategy picks moves for the built-in Optimal and Greedy players.
//
// Multi-pile play applies single-pile reasoning pile by pile. That is a
// simplification: true multi-pile optimal play needs Grundy values combined
// by XOR, which this package does not attempt.
package strategy

import (
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/positions"
)

// Optimal returns the smallest allowed move that leaves a losing pile size.
// When the pile is already losing it falls back to the smallest valid move.
// ok is false when no allowed move fits in the pile.
// table should cover pile; results beyond it are never treated as losing.
func Optimal(pile int, allowed []int, table positions.Table) (coins int, ok bool) {
	sorted := core.NormalizeAllowed(allowed)
	for _, m := range sorted {
		if m > 0 && pile-m >= 0 && table.IsLosing(pile-m) {
			return m, true
		}
	}
	for _, m := range sorted {
		if m > 0 && pile-m >= 0 {
			return m, true
		}
	}
	return 0, false
}

// Greedy returns the largest allowed move not exceeding the pile.
func Greedy(pile int, allowed []int) (coins int, ok bool) {
	for _, m := range allowed {
		if m > 0 && m <= pile && m > coins {
			coins = m
			ok = true
		}
	}
	return coins, ok
}

// Evaluate proposes a move for kind over every pile. Optimal takes the first
// pile, in index order, that yields a move. Greedy takes the largest move
// found on any pile, the lowest index winning ties. Human and Custom seats
// never get a move from here.
func Evaluate(kind core.StrategyKind, piles []int, allowed []int, table positions.Table) (core.Move, bool) {
	switch kind {
	case core.StrategyOptimal:
		for i, pile := range piles {
			if coins, ok := Optimal(pile, allowed, table); ok {
				return core.Move{PileIndex: i, CoinsToTake: coins}, true
			}
		}
	case core.StrategyGreedy:
		best := core.Move{PileIndex: -1}
		for i, pile := range piles {
			if coins, ok := Greedy(pile, allowed); ok && coins > best.CoinsToTake {
				best = core.Move{PileIndex: i, CoinsToTake: coins}
			}
		}
		if best.PileIndex >= 0 {
			return best, true
		}
	}
	return core.Move{}, false
}

// FromLegal applies kind's preference to an already filtered list of legal
// moves, as produced by the move validator when restrictions are active.
// Optimal picks the first move leaving a losing pile, else the first move.
// Greedy picks the largest take, the earliest move winning ties.
func FromLegal(kind core.StrategyKind, legal []core.Move, piles []int, table positions.Table) (core.Move, bool) {
	if len(legal) == 0 {
		return core.Move{}, false
	}
	switch kind {
	case core.StrategyOptimal:
		for _, m := range legal {
			if table.IsLosing(piles[m.PileIndex] - m.CoinsToTake) {
				return m, true
			}
		}
		return legal[0], true
	case core.StrategyGreedy:
		best := legal[0]
		for _, m := range legal[1:] {
			if m.CoinsToTake > best.CoinsToTake {
				best = m
			}
		}
		return best, true
	}
	return core.Move{}, false
}

// TimeoutMove is played for a human whose move timer ran out: the greedy
// take on the largest pile, the first one winning ties. When nothing fits
// there it falls back to the global greedy move.
func TimeoutMove(piles []int, allowed []int) (core.Move, bool) {
	idx := core.Piles(piles).LargestIndex()
	if idx < 0 {
		return core.Move{}, false
	}
	if coins, ok := Greedy(piles[idx], allowed); ok {
		return core.Move{PileIndex: idx, CoinsToTake: coins}, true
	}
	return Evaluate(core.StrategyGreedy, piles, allowed, positions.Table{})
}

// NimSum is the XOR of all pile sizes. Shown in analysis output only.
func NimSum(piles []int) int {
	sum := 0
	for _, p := range piles {
		sum ^= p
	}
	return sum
}
