package core

// Piles is an ordered set of coin counts. Values are never mutated in place;
// use Clone before changing anything.
type Piles []int

// Clone returns an independent copy.
func (p Piles) Clone() Piles {
	if p == nil {
		return nil
	}
	out := make(Piles, len(p))
	copy(out, p)
	return out
}

// InRange reports whether idx addresses a pile.
func (p Piles) InRange(idx int) bool { return idx >= 0 && idx < len(p) }

// After returns the piles that result from m, floored at zero.
// m must address an existing pile.
func (p Piles) After(m Move) Piles {
	out := p.Clone()
	out[m.PileIndex] -= m.CoinsToTake
	if out[m.PileIndex] < 0 {
		out[m.PileIndex] = 0
	}
	return out
}

func (p Piles) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Max returns the largest pile, 0 for an empty set.
func (p Piles) Max() int {
	largest := 0
	for _, n := range p {
		if n > largest {
			largest = n
		}
	}
	return largest
}

// LargestIndex returns the index of the first largest pile, -1 if empty.
func (p Piles) LargestIndex() int {
	idx := -1
	for i, n := range p {
		if idx == -1 || n > p[idx] {
			idx = i
		}
	}
	return idx
}

func (p Piles) Empty() bool {
	for _, n := range p {
		if n != 0 {
			return false
		}
	}
	return true
}
