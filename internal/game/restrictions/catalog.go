package restrictions

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

var ErrDuplicateRestriction = errors.New("restriction already registered")

// Catalog is the registry of known restrictions. Registration order is the
// order restrictions are checked in, so validation messages stay
// deterministic.
type Catalog struct {
	mu    sync.RWMutex
	order []Restriction
	byID  map[string]Restriction
}

// NewCatalog creates a catalog holding rs in the given order.
func NewCatalog(rs ...Restriction) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Restriction)}
	for _, r := range rs {
		if err := c.Register(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultCatalog returns a catalog with the built-in restrictions.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(NoConsecutivePiles{}, MaxCoinsInRow{}, AlternateEvenOdd{})
	if err != nil {
		panic("built-in restrictions collide: " + err.Error())
	}
	return c
}

// Register adds r at the end of the catalog.
func (c *Catalog) Register(r Restriction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[r.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRestriction, r.ID())
	}
	c.byID[r.ID()] = r
	c.order = append(c.order, r)
	return nil
}

// Get looks up a restriction by ID.
func (c *Catalog) Get(id string) (Restriction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.byID[id]
	return r, ok
}

// All returns the restrictions in registration order.
func (c *Catalog) All() []Restriction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Restriction, len(c.order))
	copy(out, c.order)
	return out
}

// Enable builds an Enabled entry for id, decoding raw into the restriction's
// config type. A nil raw map selects the default config.
func (c *Catalog) Enable(id string, raw map[string]any) (Enabled, error) {
	r, ok := c.Get(id)
	if !ok {
		return Enabled{}, fmt.Errorf("%w: %s", core.ErrUnknownRestriction, id)
	}
	cfg, err := r.DecodeConfig(raw)
	if err != nil {
		return Enabled{}, err
	}
	return Enabled{ID: id, Config: cfg}, nil
}

// Violation is the first enabled restriction that rejects a move.
type Violation struct {
	Restriction Restriction
	UnknownID   string
}

// Check runs every enabled restriction, in catalog order, against move and
// returns the first one that rejects it. AND semantics: the move passes only
// when every enabled restriction passes.
func (c *Catalog) Check(state core.View, move core.Move, enabled []Enabled) (Violation, bool) {
	configs := make(map[string]Config, len(enabled))
	for _, e := range enabled {
		if _, ok := c.Get(e.ID); !ok {
			return Violation{UnknownID: e.ID}, false
		}
		configs[e.ID] = e.Config
	}
	for _, r := range c.All() {
		cfg, on := configs[r.ID()]
		if !on {
			continue
		}
		if cfg == nil {
			cfg = r.DefaultConfig()
		}
		if !r.Validate(state, move, cfg) {
			return Violation{Restriction: r}, false
		}
	}
	return Violation{}, true
}

// Narrow intersects candidates with the move lists of every enabled
// restriction that can enumerate its own legal moves.
func (c *Catalog) Narrow(state core.View, candidates []core.Move, enabled []Enabled) []core.Move {
	for _, e := range enabled {
		r, ok := c.Get(e.ID)
		if !ok {
			continue
		}
		enum, ok := r.(Enumerator)
		if !ok {
			continue
		}
		cfg := e.Config
		if cfg == nil {
			cfg = r.DefaultConfig()
		}
		allowed := make(map[core.Move]struct{})
		for _, m := range enum.ValidMoves(state, cfg) {
			allowed[m] = struct{}{}
		}
		kept := candidates[:0:0]
		for _, m := range candidates {
			if _, ok := allowed[m]; ok {
				kept = append(kept, m)
			}
		}
		candidates = kept
	}
	return candidates
}
