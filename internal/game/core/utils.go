package core

import "sort"

// Label classifies a pile size for the player about to move.
type Label int

const (
	Losing Label = iota
	Winning
)

func (l Label) String() string {
	if l == Winning {
		return "winning"
	}
	return "losing"
}

// StrategyKind names how a seat picks its moves.
type StrategyKind string

const (
	StrategyOptimal StrategyKind = "Optimal"
	StrategyGreedy  StrategyKind = "Greedy"
	StrategyHuman   StrategyKind = "Human"
	StrategyCustom  StrategyKind = "Custom"
)

// Automated reports whether the engine can pick moves for this kind itself.
func (s StrategyKind) Automated() bool {
	return s == StrategyOptimal || s == StrategyGreedy
}

// NormalizeAllowed returns a sorted copy of moves with duplicates removed.
func NormalizeAllowed(moves []int) []int {
	seen := make(map[int]struct{}, len(moves))
	out := make([]int, 0, len(moves))
	for _, m := range moves {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// Contains reports whether coins is one of the allowed sizes.
func Contains(allowed []int, coins int) bool {
	for _, m := range allowed {
		if m == coins {
			return true
		}
	}
	return false
}
