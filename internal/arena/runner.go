// Package arena drives a game session from start to finish, asking each seat
// for its move in turn.
package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/CoinNim/internal/game"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/script"
)

var (
	ErrNoHumanInput = errors.New("human seat has no move source")
	ErrHalted       = errors.New("game halted")
)

// HumanInput supplies moves for Human seats. NextMove must return promptly
// once ctx is done; a deadline on ctx is the seat's time limit.
type HumanInput interface {
	NextMove(ctx context.Context, state game.GameState) (core.Move, error)
}

// HumanInputFunc adapts a function to HumanInput.
type HumanInputFunc func(ctx context.Context, state game.GameState) (core.Move, error)

func (f HumanInputFunc) NextMove(ctx context.Context, state game.GameState) (core.Move, error) {
	return f(ctx, state)
}

// Config configures a Runner.
type Config struct {
	// MoveDelay is the pause before each automated move.
	MoveDelay time.Duration

	// ScriptBudget bounds a single custom strategy call. Zero means no bound.
	ScriptBudget time.Duration

	Humans HumanInput
	Logger zerolog.Logger
}

// Result summarises a finished run.
type Result struct {
	Winner core.Player
	Moves  int
	Final  game.GameState
}

// Runner plays one engine to completion.
type Runner struct {
	engine  *game.Engine
	cfg     Config
	scripts map[core.Player]*script.Strategy
	logger  zerolog.Logger
}

// NewRunner compiles the custom strategies of engine's configuration. Each
// script's top level gets the same ScriptBudget as a single move.
func NewRunner(ctx context.Context, engine *game.Engine, cfg Config) (*Runner, error) {
	r := &Runner{
		engine:  engine,
		cfg:     cfg,
		scripts: make(map[core.Player]*script.Strategy),
		logger:  cfg.Logger.With().Str("component", "Arena").Str("game_id", engine.GameID()).Logger(),
	}

	gameCfg := engine.Config()
	for _, p := range []core.Player{core.Player1, core.Player2} {
		if gameCfg.Strategy(p) != core.StrategyCustom {
			continue
		}
		compiled, err := r.compile(ctx, p, gameCfg.Script(p))
		if err != nil {
			var execErr *script.ExecutionError
			if errors.As(err, &execErr) {
				return nil, execErr.WithPlayer(p)
			}
			return nil, err
		}
		r.scripts[p] = compiled
	}
	return r, nil
}

func (r *Runner) compile(ctx context.Context, p core.Player, source string) (*script.Strategy, error) {
	if r.cfg.ScriptBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ScriptBudget)
		defer cancel()
	}
	return script.CompileContext(ctx, fmt.Sprintf("player%d", int(p)), source)
}

// Run plays until the game is over, ctx is done or a strategy fails. A
// failing strategy halts the engine and its *script.ExecutionError is
// returned; the engine keeps the last good state.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	for !r.engine.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return r.result(), err
		}
		if err := r.step(ctx); err != nil {
			return r.result(), err
		}
	}

	res := r.result()
	r.logger.Info().
		Int("winner", int(res.Winner)).
		Int("moves", res.Moves).
		Msg("Game finished")
	return res, nil
}

// step plays exactly one move.
func (r *Runner) step(ctx context.Context) error {
	state := r.engine.State()
	player := state.CurrentPlayer
	kind := state.Strategy(player)

	if kind != core.StrategyHuman {
		if err := r.wait(ctx); err != nil {
			return err
		}
	}

	switch kind {
	case core.StrategyOptimal, core.StrategyGreedy:
		move, ok := r.engine.MoveFor(kind)
		if !ok {
			return fmt.Errorf("%s (%s): %w", player, kind, core.ErrNoMove)
		}
		return r.submit(ctx, core.MoveRecord{Move: move, Player: player, Strategy: kind})
	case core.StrategyCustom:
		return r.playScript(ctx, state)
	case core.StrategyHuman:
		return r.playHuman(ctx, state)
	default:
		return fmt.Errorf("%s: unsupported strategy %q", player, kind)
	}
}

func (r *Runner) playScript(ctx context.Context, state game.GameState) error {
	player := state.CurrentPlayer
	compiled, ok := r.scripts[player]
	if !ok {
		return r.halt(&script.ExecutionError{Player: player, Stage: script.StageCompile, Err: script.ErrNoEntryPoint})
	}

	runCtx := ctx
	if r.cfg.ScriptBudget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.ScriptBudget)
		defer cancel()
	}

	start := time.Now()
	move, ok, err := compiled.Move(runCtx, state.View(), state.Restrictions)
	r.logger.Debug().
		Int("player", int(player)).
		Dur("elapsed", time.Since(start)).
		Msg("Custom strategy returned")
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var execErr *script.ExecutionError
		if errors.As(err, &execErr) {
			return r.halt(execErr.WithPlayer(player))
		}
		return r.halt(&script.ExecutionError{Player: player, Script: compiled.Name(), Stage: script.StageRuntime, Err: err})
	}
	if !ok {
		return r.halt(&script.ExecutionError{Player: player, Script: compiled.Name(), Stage: script.StageResult, Err: core.ErrNoMove})
	}

	rec := core.MoveRecord{Move: move, Player: player, Strategy: core.StrategyCustom}
	if _, err := r.engine.SubmitRecord(ctx, rec); err != nil {
		if errors.Is(err, core.ErrMoveRejected) {
			return r.halt(&script.ExecutionError{Player: player, Script: compiled.Name(), Stage: script.StageResult, Err: err})
		}
		return err
	}
	return nil
}

// playHuman asks the move source until it yields a legal move. When the seat
// has a time limit and it runs out, the greedy substitute is played.
func (r *Runner) playHuman(ctx context.Context, state game.GameState) error {
	if r.cfg.Humans == nil {
		return fmt.Errorf("%s: %w", state.CurrentPlayer, ErrNoHumanInput)
	}

	turnCtx := ctx
	if state.TimeLimit > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, state.TimeLimit)
		defer cancel()
	}

	for {
		move, err := r.cfg.Humans.NextMove(turnCtx, r.engine.State())
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return r.playTimeout(ctx, state.CurrentPlayer)
			}
			return err
		}

		rec := core.MoveRecord{Move: move, Player: state.CurrentPlayer, Strategy: core.StrategyHuman}
		_, err = r.engine.SubmitRecord(ctx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, core.ErrMoveRejected) {
			return err
		}
		r.logger.Info().Err(err).Int("player", int(state.CurrentPlayer)).Msg("Move rejected, asking again")
	}
}

func (r *Runner) playTimeout(ctx context.Context, player core.Player) error {
	move, ok := r.engine.TimeoutMove()
	if !ok {
		return fmt.Errorf("%s timed out: %w", player, core.ErrNoMove)
	}
	r.logger.Info().
		Int("player", int(player)).
		Str("move", move.String()).
		Msg("Time limit reached, playing substitute move")
	return r.submit(ctx, core.MoveRecord{
		Move:     move,
		Player:   player,
		Strategy: core.StrategyGreedy,
		TimedOut: true,
	})
}

func (r *Runner) submit(ctx context.Context, rec core.MoveRecord) error {
	_, err := r.engine.SubmitRecord(ctx, rec)
	return err
}

func (r *Runner) halt(execErr *script.ExecutionError) error {
	r.logger.Error().
		Err(execErr.Err).
		Int("player", int(execErr.Player)).
		Str("stage", string(execErr.Stage)).
		Msg("Custom strategy failed, halting game")
	if err := r.engine.Halt(execErr.Player, string(execErr.Stage), execErr); err != nil {
		return fmt.Errorf("%w: %w", ErrHalted, err)
	}
	return execErr
}

func (r *Runner) wait(ctx context.Context) error {
	if r.cfg.MoveDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.cfg.MoveDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) result() Result {
	state := r.engine.State()
	return Result{
		Winner: state.Winner,
		Moves:  len(state.History),
		Final:  state,
	}
}
