package game

import (
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
)

// GameState is an immutable snapshot of one game. Every transition returns
// a fresh value; slices are never shared between snapshots. Winner stays
// core.NoPlayer until somebody wins, so a game that could not start has no
// winner.
type GameState struct {
	Piles         core.Piles
	InitialPiles  core.Piles
	Allowed       []int
	CurrentPlayer core.Player
	GameOver      bool
	Winner        core.Player
	History       []core.MoveRecord
	LastMove      *core.MoveRecord
	Restrictions  []restrictions.Enabled
	Player1       core.StrategyKind
	Player2       core.StrategyKind
	HasValidMoves bool
	TimeLimit     time.Duration
}

// View returns the read-only projection used by rules, restrictions and
// strategies. The returned slices are copies.
func (gs GameState) View() core.View {
	var last *core.MoveRecord
	if gs.LastMove != nil {
		m := *gs.LastMove
		last = &m
	}
	return core.View{
		Piles:         gs.Piles.Clone(),
		Allowed:       append([]int(nil), gs.Allowed...),
		CurrentPlayer: gs.CurrentPlayer,
		LastMove:      last,
		History:       append([]core.MoveRecord(nil), gs.History...),
	}
}

// Strategy returns the strategy assigned to p.
func (gs GameState) Strategy(p core.Player) core.StrategyKind {
	if p == core.Player2 {
		return gs.Player2
	}
	return gs.Player1
}

// Turn is the 1-based number of the move about to be made.
func (gs GameState) Turn() int { return len(gs.History) + 1 }

// RestrictionIDs lists the enabled restriction IDs in order.
func (gs GameState) RestrictionIDs() []string {
	ids := make([]string, len(gs.Restrictions))
	for i, e := range gs.Restrictions {
		ids[i] = e.ID
	}
	return ids
}

// clone deep-copies every slice and pointer so the result can be modified
// without touching gs.
func (gs GameState) clone() GameState {
	out := gs
	out.Piles = gs.Piles.Clone()
	out.InitialPiles = gs.InitialPiles.Clone()
	out.Allowed = append([]int(nil), gs.Allowed...)
	out.History = append([]core.MoveRecord(nil), gs.History...)
	out.Restrictions = append([]restrictions.Enabled(nil), gs.Restrictions...)
	if gs.LastMove != nil {
		m := *gs.LastMove
		out.LastMove = &m
	}
	return out
}

// DisplayMove is one history entry with the piles reconstructed around it.
type DisplayMove struct {
	Turn        int               `json:"turn" yaml:"turn"`
	Player      core.Player       `json:"player" yaml:"player"`
	PileIndex   int               `json:"pileIndex" yaml:"pileIndex"`
	CoinsToTake int               `json:"coinsToTake" yaml:"coinsToTake"`
	Strategy    core.StrategyKind `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	TimedOut    bool              `json:"timeout" yaml:"timeout"`
	PilesBefore []int             `json:"pilesBeforeMove,omitempty" yaml:"pilesBeforeMove,omitempty"`
	PilesAfter  []int             `json:"pilesAfterMove,omitempty" yaml:"pilesAfterMove,omitempty"`
}

// Replay rebuilds the pile snapshots before and after every move by
// re-applying the history to the initial piles.
func (gs GameState) Replay() []DisplayMove {
	out := make([]DisplayMove, 0, len(gs.History))
	piles := gs.InitialPiles.Clone()
	for i, rec := range gs.History {
		var after core.Piles
		if piles.InRange(rec.PileIndex) {
			after = piles.After(rec.Move)
		} else {
			after = piles.Clone()
		}
		out = append(out, DisplayMove{
			Turn:        i + 1,
			Player:      rec.Player,
			PileIndex:   rec.PileIndex,
			CoinsToTake: rec.CoinsToTake,
			Strategy:    rec.Strategy,
			TimedOut:    rec.TimedOut,
			PilesBefore: piles.Clone(),
			PilesAfter:  after,
		})
		piles = after
	}
	return out
}

// DisplayHistory is Replay when enhanced history is on. Otherwise only the
// bare moves and movers are reported.
func (gs GameState) DisplayHistory(opts Options) []DisplayMove {
	moves := gs.Replay()
	if opts.EnhancedHistory {
		return moves
	}
	for i := range moves {
		moves[i].Strategy = ""
		moves[i].TimedOut = false
		moves[i].PilesBefore = nil
		moves[i].PilesAfter = nil
	}
	return moves
}
