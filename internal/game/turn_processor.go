package game

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/mitchelldurbincs/CoinNim/internal/game/rules"
	"github.com/mitchelldurbincs/CoinNim/internal/game/states"
	"github.com/rs/zerolog"
)

// TurnProcessor handles the orchestration of a single move: validate, apply,
// advance the phase and publish events.
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// ProcessMove executes one move. A rejected move publishes a rejection event
// and leaves the engine's snapshot untouched.
func (tp *TurnProcessor) ProcessMove(ctx context.Context, rec core.MoveRecord) error {
	e := tp.engine
	turn := e.state.Turn()
	turnLogger := tp.logger.With().Int("turn", turn).Int("player", int(rec.Player)).Logger()

	if err := tp.checkContext(ctx, turnLogger); err != nil {
		return core.WrapTurnError(turn, "context", err)
	}
	if err := tp.validateGameState(turnLogger); err != nil {
		return core.WrapTurnError(turn, "phase", err)
	}

	if rec.Player == core.NoPlayer {
		rec.Player = e.state.CurrentPlayer
	}
	if rec.Player == e.state.CurrentPlayer {
		result := rules.ValidateMove(e.state.View(), rec.Move, e.catalog, e.state.Restrictions)
		if !result.Valid {
			turnLogger.Info().Str("move", rec.Move.String()).Str("reason", result.Reason).Msg("Move rejected")
			e.eventBus.Publish(events.NewMoveRejectedEvent(e.gameID, rec.Player, rec.Move, result.Reason))
		}
	}

	next, err := e.manager.Apply(e.state, rec)
	if err != nil {
		return core.WrapTurnError(turn, "apply", err)
	}
	e.state = next

	machine := e.stateMachine
	machine.GetContext().Moves = len(next.History)
	if machine.CurrentPhase() == states.PhaseSetup {
		if err := machine.TransitionTo(states.PhaseInProgress, "first move"); err != nil {
			turnLogger.Error().Err(err).Msg("Failed to enter InProgress phase")
			return core.WrapTurnError(turn, "phase", err)
		}
	}

	applied := next.History[len(next.History)-1]
	e.eventBus.Publish(events.NewMoveAppliedEvent(e.gameID, turn, applied, next.Piles))

	if next.GameOver {
		return tp.finish("no valid moves")
	}
	return nil
}

// finish moves the phase machine to GameOver and announces the result.
func (tp *TurnProcessor) finish(reason string) error {
	e := tp.engine
	gc := e.stateMachine.GetContext()
	gc.Moves = len(e.state.History)
	gc.Winner = e.state.Winner

	if err := e.stateMachine.TransitionTo(states.PhaseGameOver, reason); err != nil {
		tp.logger.Error().Err(err).Msg("Failed to enter GameOver phase")
		return err
	}
	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, e.state.Winner, len(e.state.History), gc.GetElapsedTime()))
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, turnLogger zerolog.Logger) error {
	select {
	case <-ctx.Done():
		turnLogger.Warn().Err(ctx.Err()).Msg("Move cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the game can receive moves
func (tp *TurnProcessor) validateGameState(turnLogger zerolog.Logger) error {
	currentPhase := tp.engine.stateMachine.CurrentPhase()
	if tp.engine.state.GameOver || currentPhase == states.PhaseGameOver {
		turnLogger.Warn().Msg("Attempted to move in a game that is already over")
		return core.ErrGameOver
	}
	if !currentPhase.CanReceiveMoves() {
		turnLogger.Warn().Str("current_phase", currentPhase.String()).Msg("Attempted to move in phase that cannot receive moves")
		return fmt.Errorf("game is in %s phase and cannot receive moves", currentPhase)
	}
	return nil
}
