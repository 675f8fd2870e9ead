package rules

import (
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/rs/zerolog"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
	moves  *LegalMoveCalculator
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, moves *LegalMoveCalculator) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
		moves:  moves,
	}
}

// CheckGameOver decides whether the player to move is stuck. Under normal
// play the player who moved last (mover) wins. mover is NoPlayer before the
// first move, in which case there is no winner.
func (wc *WinConditionChecker) CheckGameOver(state core.View, enabled []restrictions.Enabled, mover core.Player) (gameOver bool, hasMoves bool, winner core.Player) {
	wc.logger.Debug().Msg("Checking game over conditions")

	legal := wc.moves.ValidMoves(state, enabled)
	hasMoves = len(legal) > 0
	gameOver = !hasMoves
	winner = core.NoPlayer

	if gameOver && mover.Valid() {
		winner = mover
		wc.logger.Info().Int("winner_player_id", int(winner)).Msg("Winner determined")
	} else if gameOver {
		wc.logger.Info().Msg("No legal move before any move was made, no winner")
	}

	wc.logger.Debug().
		Bool("is_game_over", gameOver).
		Int("legal_move_count", len(legal)).
		Int("player_to_move", int(state.CurrentPlayer)).
		Msg("Game over check complete")

	return gameOver, hasMoves, winner
}
