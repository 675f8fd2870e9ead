package states

import (
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// StartTime is when the first move was applied
	StartTime time.Time

	// EndTime is when a terminal phase was entered
	EndTime time.Time

	// Moves counts applied moves
	Moves int

	// Winner is the player who made the last move, NoPlayer if none
	Winner core.Player

	// Error holds the strategy failure that caused PhaseHalted
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
		Winner: core.NoPlayer,
	}
}

// GetElapsedTime returns the time between the first move and the end of the
// game, or until now while the game is still running.
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}

func (gc *GameContext) clear() {
	gc.StartTime = time.Time{}
	gc.EndTime = time.Time{}
	gc.Moves = 0
	gc.Winner = core.NoPlayer
	gc.Error = nil
}
