// Package positions classifies single-pile sizes as winning or losing for a
// fixed set of allowed move sizes.
package positions

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

// MinAnalysisBound is the smallest table size computed for a game so
// analysis views can look past the configured piles.
const MinAnalysisBound = 1000

// Table holds labels for pile sizes 0..Len()-1. It is only meaningful for the
// allowed-move set it was computed with.
type Table struct {
	labels  []core.Label
	allowed []int
}

// Compute labels every pile size from 0 to maxPileSize inclusive.
// A size is winning iff some allowed move lands on a losing size.
func Compute(maxPileSize int, allowed []int) Table {
	if maxPileSize < 0 {
		maxPileSize = 0
	}
	moves := core.NormalizeAllowed(allowed)
	labels := make([]core.Label, maxPileSize+1)
	labels[0] = core.Losing
	for n := 1; n <= maxPileSize; n++ {
		labels[n] = core.Losing
		for _, m := range moves {
			if m > 0 && n-m >= 0 && labels[n-m] == core.Losing {
				labels[n] = core.Winning
				break
			}
		}
	}
	return Table{labels: labels, allowed: moves}
}

// BoundFor returns the table size to compute for a set of piles.
func BoundFor(piles []int) int {
	bound := core.Piles(piles).Max()
	if bound < MinAnalysisBound {
		bound = MinAnalysisBound
	}
	return bound
}

// ForGame computes a table large enough for piles and what-if analysis.
func ForGame(piles []int, allowed []int) Table {
	return Compute(BoundFor(piles), allowed)
}

// Len is the number of labelled pile sizes.
func (t Table) Len() int { return len(t.labels) }

// MaxPileSize is the largest labelled pile size.
func (t Table) MaxPileSize() int { return len(t.labels) - 1 }

// Allowed returns the sorted allowed moves the table was built for.
func (t Table) Allowed() []int {
	out := make([]int, len(t.allowed))
	copy(out, t.allowed)
	return out
}

// Covers reports whether n has a label.
func (t Table) Covers(n int) bool { return n >= 0 && n < len(t.labels) }

// Label returns the label for n. Sizes outside the table are reported as
// winning so no strategy steers toward them; use Covers to tell them apart.
func (t Table) Label(n int) core.Label {
	if !t.Covers(n) {
		return core.Winning
	}
	return t.labels[n]
}

func (t Table) IsLosing(n int) bool { return t.Label(n) == core.Losing }

// Labels returns a copy of the raw table.
func (t Table) Labels() []core.Label {
	out := make([]core.Label, len(t.labels))
	copy(out, t.labels)
	return out
}

// WinningMoves lists the allowed moves from n that leave a losing size.
func (t Table) WinningMoves(n int) []int {
	var out []int
	for _, m := range t.allowed {
		if n-m >= 0 && t.IsLosing(n-m) {
			out = append(out, m)
		}
	}
	return out
}

// LosingPositions returns up to limit losing sizes in ascending order.
func (t Table) LosingPositions(limit int) []int {
	var out []int
	for n, l := range t.labels {
		if limit > 0 && len(out) >= limit {
			break
		}
		if l == core.Losing {
			out = append(out, n)
		}
	}
	return out
}

// Period returns the smallest p such that label[n] == label[n+p] for every n
// in the second half of the table, or 0 when no period fits.
func (t Table) Period() int {
	n := len(t.labels)
	start := n / 2
	for p := 1; p <= n/4; p++ {
		ok := true
		for i := start; i+p < n; i++ {
			if t.labels[i] != t.labels[i+p] {
				ok = false
				break
			}
		}
		if ok {
			return p
		}
	}
	return 0
}

// Recommendation is the plain-language advice for a pile size.
func (t Table) Recommendation(n int) string {
	if t.IsLosing(n) {
		return "This is a losing position. Try to force your opponent into this position."
	}
	moves := t.WinningMoves(n)
	if len(moves) == 0 {
		return "No winning moves available. Try to minimize your losses."
	}
	return "Winning moves: " + joinInts(moves) + ". Take one of these amounts to force a win."
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
