package states

import (
	"errors"
	"fmt"
	"time"
)

var ErrMissingFailure = errors.New("halted phase requires a failure")

// SetupState is the freshly configured game before anyone has moved
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Phase() GamePhase {
	return PhaseSetup
}

func (s *SetupState) Enter(ctx *GameContext) error {
	ctx.clear()
	ctx.Logger.Debug().Msg("Entering Setup state")
	return nil
}

func (s *SetupState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Exiting Setup state")
	return nil
}

func (s *SetupState) Validate(ctx *GameContext) error {
	return nil
}

// InProgressState is active play
type InProgressState struct{}

func NewInProgressState() State {
	return &InProgressState{}
}

func (s *InProgressState) Phase() GamePhase {
	return PhaseInProgress
}

func (s *InProgressState) Enter(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = time.Now()
	}
	ctx.Logger.Info().Msg("Game in progress")
	return nil
}

func (s *InProgressState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().
		Int("moves", ctx.Moves).
		Dur("elapsed", ctx.GetElapsedTime()).
		Msg("Leaving InProgress state")
	return nil
}

func (s *InProgressState) Validate(ctx *GameContext) error {
	return nil
}

// GameOverState is reached when the player to move is stuck
type GameOverState struct{}

func NewGameOverState() State {
	return &GameOverState{}
}

func (s *GameOverState) Phase() GamePhase {
	return PhaseGameOver
}

func (s *GameOverState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Int("winner", int(ctx.Winner)).
		Int("moves", ctx.Moves).
		Dur("duration", ctx.GetElapsedTime()).
		Msg("Game over")
	return nil
}

func (s *GameOverState) Exit(ctx *GameContext) error {
	return nil
}

// Validate checks that the winner agrees with the move count: no moves means
// no winner, otherwise somebody made the last move.
func (s *GameOverState) Validate(ctx *GameContext) error {
	if ctx.Moves == 0 && ctx.Winner.Valid() {
		return fmt.Errorf("winner %d declared before any move", ctx.Winner)
	}
	if ctx.Moves > 0 && !ctx.Winner.Valid() {
		return fmt.Errorf("game over after %d moves without a winner", ctx.Moves)
	}
	return nil
}

// HaltedState records an automated strategy failure
type HaltedState struct{}

func NewHaltedState() State {
	return &HaltedState{}
}

func (s *HaltedState) Phase() GamePhase {
	return PhaseHalted
}

func (s *HaltedState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Error().Err(ctx.Error).Int("moves", ctx.Moves).Msg("Game halted")
	return nil
}

func (s *HaltedState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Recovering from halt")
	return nil
}

func (s *HaltedState) Validate(ctx *GameContext) error {
	if ctx.Error == nil {
		return ErrMissingFailure
	}
	return nil
}
