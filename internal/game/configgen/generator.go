// Package configgen produces random game setups for strategy testing.
package configgen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

// GenConfig bounds the generated setups. All ranges are inclusive.
type GenConfig struct {
	MinPiles    int
	MaxPiles    int
	MinPileSize int
	MaxPileSize int
	MinMoves    int
	MaxMoves    int
	MaxMove     int
}

// DefaultGenConfig returns 3 to 6 piles of 10 to 200 coins with 2 to 5
// distinct moves between 1 and 10.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		MinPiles:    3,
		MaxPiles:    6,
		MinPileSize: 10,
		MaxPileSize: 200,
		MinMoves:    2,
		MaxMoves:    5,
		MaxMove:     10,
	}
}

// Validate reports bounds that cannot produce a playable setup.
func (c GenConfig) Validate() error {
	switch {
	case c.MinPiles < 1 || c.MaxPiles < c.MinPiles:
		return fmt.Errorf("pile count range [%d,%d] is invalid", c.MinPiles, c.MaxPiles)
	case c.MinPileSize < 1 || c.MaxPileSize < c.MinPileSize:
		return fmt.Errorf("pile size range [%d,%d] is invalid", c.MinPileSize, c.MaxPileSize)
	case c.MinMoves < 1 || c.MaxMoves < c.MinMoves:
		return fmt.Errorf("move count range [%d,%d] is invalid", c.MinMoves, c.MaxMoves)
	case c.MaxMove < c.MaxMoves:
		return fmt.Errorf("cannot draw %d distinct moves from 1..%d", c.MaxMoves, c.MaxMove)
	}
	return nil
}

// Generator draws setups from a caller-supplied RNG so runs are
// reproducible from a seed.
type Generator struct {
	config GenConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator. cfg must pass Validate.
func NewGenerator(cfg GenConfig, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{config: cfg, rng: rng}, nil
}

// Generate returns base with freshly drawn piles and allowed moves. Every
// other field of base is kept.
func (g *Generator) Generate(base config.GameConfig) config.GameConfig {
	out := base
	out.Piles = g.piles()
	out.AllowedMoves = g.moves()
	return out
}

func (g *Generator) piles() []int {
	n := g.between(g.config.MinPiles, g.config.MaxPiles)
	piles := make([]int, n)
	for i := range piles {
		piles[i] = g.between(g.config.MinPileSize, g.config.MaxPileSize)
	}
	return piles
}

func (g *Generator) moves() []int {
	n := g.between(g.config.MinMoves, g.config.MaxMoves)
	// A permutation prefix gives n distinct moves without retry loops.
	perm := g.rng.Perm(g.config.MaxMove)
	moves := make([]int, n)
	for i := range moves {
		moves[i] = perm[i] + 1
	}
	sort.Ints(moves)
	return moves
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}
