package game

import (
	"context"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/mitchelldurbincs/CoinNim/internal/game/positions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/rules"
	"github.com/mitchelldurbincs/CoinNim/internal/game/states"
	"github.com/mitchelldurbincs/CoinNim/internal/game/strategy"
	"github.com/rs/zerolog"
)

// Options are construction-time switches for an Engine.
type Options struct {
	// EnhancedHistory reports strategies, timeouts and pile snapshots in
	// History. When off only the bare moves are reported.
	EnhancedHistory bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{EnhancedHistory: true}
}

// Engine owns one game session: the current snapshot, the position table
// for its allowed moves, the phase machine and the event bus. It is meant
// to be driven from a single goroutine.
type Engine struct {
	gameID        string
	cfg           config.GameConfig
	enabled       []restrictions.Enabled
	state         GameState
	table         positions.Table
	catalog       *restrictions.Catalog
	legalMoves    *rules.LegalMoveCalculator
	manager       *StateManager
	turnProcessor *TurnProcessor
	eventBus      *events.EventBus
	stateMachine  *states.StateMachine
	options       Options
	logger        zerolog.Logger
}

// GameID returns the session's unique identifier.
func (e *Engine) GameID() string { return e.gameID }

// Config returns the configuration the session was started with.
func (e *Engine) Config() config.GameConfig { return e.cfg.Normalized() }

// State returns a copy of the current snapshot.
func (e *Engine) State() GameState { return e.state.clone() }

// Table returns the position table computed for the allowed moves.
func (e *Engine) Table() positions.Table { return e.table }

// Catalog returns the restriction catalog moves are checked against.
func (e *Engine) Catalog() *restrictions.Catalog { return e.catalog }

// EventBus returns the bus game events are published on.
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() states.GamePhase { return e.stateMachine.CurrentPhase() }

// PhaseHistory returns the phase transitions since the last reset.
func (e *Engine) PhaseHistory() []states.Transition { return e.stateMachine.GetHistory() }

// Options returns the engine's construction options.
func (e *Engine) Options() Options { return e.options }

func (e *Engine) IsGameOver() bool { return e.state.GameOver }

func (e *Engine) Winner() core.Player { return e.state.Winner }

// CurrentStrategy returns the strategy kind of the player to move.
func (e *Engine) CurrentStrategy() core.StrategyKind {
	return e.state.Strategy(e.state.CurrentPlayer)
}

// ValidMoves lists the legal moves for the player to move.
func (e *Engine) ValidMoves() []core.Move {
	if e.state.GameOver {
		return nil
	}
	return e.legalMoves.ValidMoves(e.state.View(), e.state.Restrictions)
}

// History returns the move log, shaped by Options.EnhancedHistory.
func (e *Engine) History() []DisplayMove {
	return e.state.DisplayHistory(e.options)
}

// Submit applies move for the player to move. timedOut marks a move the
// caller substituted after the player's time limit ran out; such moves are
// recorded as Greedy.
func (e *Engine) Submit(move core.Move, timedOut bool) (GameState, error) {
	rec := core.MoveRecord{
		Move:     move,
		Player:   e.state.CurrentPlayer,
		Strategy: e.CurrentStrategy(),
		TimedOut: timedOut,
	}
	if timedOut {
		rec.Strategy = core.StrategyGreedy
	}
	return e.SubmitRecord(context.Background(), rec)
}

// SubmitRecord applies a fully described move. The record's player must be
// the player to move.
func (e *Engine) SubmitRecord(ctx context.Context, rec core.MoveRecord) (GameState, error) {
	if err := e.turnProcessor.ProcessMove(ctx, rec); err != nil {
		return e.State(), err
	}
	return e.State(), nil
}

// MoveFor proposes a legal move for kind. The unrestricted strategy move is
// preferred; when restrictions forbid it the strategy's preference is
// applied to the legal moves instead. Human and Custom get no move.
func (e *Engine) MoveFor(kind core.StrategyKind) (core.Move, bool) {
	if e.state.GameOver || !kind.Automated() {
		return core.Move{}, false
	}
	view := e.state.View()
	if m, ok := strategy.Evaluate(kind, view.Piles, view.Allowed, e.table); ok {
		if rules.ValidateMove(view, m, e.catalog, e.state.Restrictions).Valid {
			return m, true
		}
	}
	return strategy.FromLegal(kind, e.ValidMoves(), view.Piles, e.table)
}

// SuggestMove proposes a move for the player to move using their assigned
// strategy. Human and Custom players get the Optimal suggestion as a hint.
func (e *Engine) SuggestMove() (core.Move, bool) {
	kind := e.CurrentStrategy()
	if !kind.Automated() {
		kind = core.StrategyOptimal
	}
	return e.MoveFor(kind)
}

// TimeoutMove is the move substituted when a human's time limit elapses.
func (e *Engine) TimeoutMove() (core.Move, bool) {
	if e.state.GameOver {
		return core.Move{}, false
	}
	view := e.state.View()
	if m, ok := strategy.TimeoutMove(view.Piles, view.Allowed); ok {
		if rules.ValidateMove(view, m, e.catalog, e.state.Restrictions).Valid {
			return m, true
		}
	}
	return strategy.FromLegal(core.StrategyGreedy, e.ValidMoves(), view.Piles, e.table)
}

// Halt stops the session after an automated player failed. The snapshot is
// left as it was before the failed turn.
func (e *Engine) Halt(player core.Player, stage string, cause error) error {
	ctx := e.stateMachine.GetContext()
	ctx.Error = cause
	e.eventBus.Publish(events.NewStrategyFailedEvent(e.gameID, player, stage, cause))
	return e.stateMachine.TransitionTo(states.PhaseHalted, "strategy failed")
}

// Reset discards the session's state and starts again from its
// configuration.
func (e *Engine) Reset() error {
	if err := e.stateMachine.Reset("reset requested"); err != nil {
		return err
	}
	e.state = e.manager.Reset(e.cfg, e.enabled)
	return e.start()
}

// start publishes the opening of a game and settles the phase when the
// opening position has no legal move.
func (e *Engine) start() error {
	e.eventBus.Publish(events.NewGameStartedEvent(
		e.gameID,
		e.state.Piles,
		e.state.Allowed,
		e.state.Player1,
		e.state.Player2,
		e.state.RestrictionIDs(),
	))

	if e.state.GameOver {
		e.logger.Warn().Ints("piles", e.state.Piles).Msg("No legal opening move, game over without a winner")
		return e.turnProcessor.finish("no legal opening move")
	}
	return nil
}
