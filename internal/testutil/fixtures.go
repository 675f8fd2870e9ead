package testutil

import (
	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

// ClassicConfig is the single 21-coin pile with moves {1,3,4}.
func ClassicConfig(p1, p2 core.StrategyKind) config.GameConfig {
	return GameConfig([]int{21}, []int{1, 3, 4}, p1, p2)
}

// GameConfig builds a config with no time limit and no restrictions.
func GameConfig(piles, moves []int, p1, p2 core.StrategyKind) config.GameConfig {
	return config.GameConfig{
		Piles:        append([]int(nil), piles...),
		AllowedMoves: append([]int(nil), moves...),
		Player1:      p1,
		Player2:      p2,
	}
}

// WithRestrictions returns cfg with the given restriction IDs switched on
// using their default configs.
func WithRestrictions(cfg config.GameConfig, ids ...string) config.GameConfig {
	out := cfg
	out.Restrictions = nil
	for _, id := range ids {
		out.Restrictions = append(out.Restrictions, config.RestrictionSetting{ID: id})
	}
	return out
}

// View builds a restriction/validator view for tests.
func View(piles []int, allowed []int, current core.Player, history ...core.MoveRecord) core.View {
	v := core.View{
		Piles:         core.Piles(piles).Clone(),
		Allowed:       append([]int(nil), allowed...),
		CurrentPlayer: current,
		History:       append([]core.MoveRecord(nil), history...),
	}
	if len(history) > 0 {
		last := history[len(history)-1]
		v.LastMove = &last
	}
	return v
}
