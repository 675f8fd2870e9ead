package arena

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/states"
	"github.com/mitchelldurbincs/CoinNim/internal/script"
	"github.com/mitchelldurbincs/CoinNim/internal/testutil"
)

func newEngine(t *testing.T, cfg config.GameConfig) *game.Engine {
	t.Helper()
	engine, err := game.NewEngine(context.Background(), game.EngineConfig{
		Game:    cfg,
		Options: game.DefaultOptions(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return engine
}

func newRunner(t *testing.T, engine *game.Engine, cfg Config) *Runner {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	r, err := NewRunner(context.Background(), engine, cfg)
	require.NoError(t, err)
	return r
}

func template(t *testing.T, name string) string {
	t.Helper()
	tmpl, err := script.LookupTemplate(name)
	require.NoError(t, err)
	return tmpl.Source
}

func TestRunOptimalBeatsGreedy(t *testing.T) {
	engine := newEngine(t, testutil.ClassicConfig(core.StrategyOptimal, core.StrategyGreedy))
	r := newRunner(t, engine, Config{})

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.Player1, res.Winner)
	assert.Equal(t, 9, res.Moves)
	assert.Equal(t, states.PhaseGameOver, engine.Phase())

	var trail []int
	for _, m := range res.Final.Replay() {
		trail = append(trail, m.PilesAfter[0])
	}
	assert.Equal(t, []int{20, 16, 15, 11, 7, 3, 2, 1, 0}, trail)
}

func TestRunCustomTemplate(t *testing.T) {
	cfg := testutil.ClassicConfig(core.StrategyCustom, core.StrategyGreedy)
	cfg.Player1Script = template(t, "min")
	engine := newEngine(t, cfg)
	r := newRunner(t, engine, Config{ScriptBudget: time.Second})

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Final.GameOver)
	assert.True(t, res.Winner.Valid())
	for _, rec := range res.Final.History {
		if rec.Player == core.Player1 {
			assert.Equal(t, core.StrategyCustom, rec.Strategy)
			assert.Equal(t, 1, rec.CoinsToTake)
		}
	}
}

func TestRunScriptFailures(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		budget    time.Duration
		wantStage script.Stage
		wantErr   error
	}{
		{
			name:      "runtime error",
			source:    "function strategy(state) error('boom') end",
			wantStage: script.StageRuntime,
		},
		{
			name:      "declines to move",
			source:    "function strategy(state) return nil end",
			wantStage: script.StageResult,
			wantErr:   core.ErrNoMove,
		},
		{
			name:      "illegal move",
			source:    "function strategy(state) return { pileIndex = 5, coinsToTake = 1 } end",
			wantStage: script.StageResult,
			wantErr:   core.ErrMoveRejected,
		},
		{
			name:      "over budget",
			source:    "function strategy(state) while true do end end",
			budget:    20 * time.Millisecond,
			wantStage: script.StageRuntime,
			wantErr:   script.ErrBudgetExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.ClassicConfig(core.StrategyOptimal, core.StrategyCustom)
			cfg.Player2Script = tt.source
			engine := newEngine(t, cfg)
			r := newRunner(t, engine, Config{ScriptBudget: tt.budget})

			res, err := r.Run(context.Background())

			var execErr *script.ExecutionError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, core.Player2, execErr.Player)
			assert.Equal(t, tt.wantStage, execErr.Stage)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// Player 1 moved once; the failed turn left no trace.
			assert.Equal(t, 1, res.Moves)
			assert.Equal(t, []int{20}, []int(res.Final.Piles))
			assert.Equal(t, core.Player2, res.Final.CurrentPlayer)
			assert.Equal(t, states.PhaseHalted, engine.Phase())
		})
	}
}

func TestNewRunnerCompileError(t *testing.T) {
	cfg := testutil.ClassicConfig(core.StrategyCustom, core.StrategyGreedy)
	cfg.Player1Script = "function strategy(state"
	engine := newEngine(t, cfg)

	_, err := NewRunner(context.Background(), engine, Config{Logger: zerolog.Nop()})

	var execErr *script.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, core.Player1, execErr.Player)
	assert.Equal(t, script.StageCompile, execErr.Stage)
}

func TestNewRunnerStopsRunawayTopLevel(t *testing.T) {
	cfg := testutil.ClassicConfig(core.StrategyCustom, core.StrategyGreedy)
	cfg.Player1Script = "while true do end\nfunction strategy(state) return nil end"
	engine := newEngine(t, cfg)

	done := make(chan error, 1)
	go func() {
		_, err := NewRunner(context.Background(), engine, Config{ScriptBudget: 50 * time.Millisecond, Logger: zerolog.Nop()})
		done <- err
	}()

	select {
	case err := <-done:
		var execErr *script.ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, core.Player1, execErr.Player)
		assert.Equal(t, script.StageCompile, execErr.Stage)
		assert.ErrorIs(t, err, script.ErrBudgetExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("NewRunner did not honour the script budget")
	}
}

func TestNewRunnerHonoursCancellation(t *testing.T) {
	cfg := testutil.ClassicConfig(core.StrategyOptimal, core.StrategyCustom)
	cfg.Player2Script = "while true do end"
	engine := newEngine(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewRunner(ctx, engine, Config{Logger: zerolog.Nop()})
	var execErr *script.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, core.Player2, execErr.Player)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunHumanRetriesRejectedMoves(t *testing.T) {
	engine := newEngine(t, testutil.GameConfig([]int{2}, []int{1, 2}, core.StrategyHuman, core.StrategyOptimal))

	var calls int
	humans := HumanInputFunc(func(ctx context.Context, state game.GameState) (core.Move, error) {
		calls++
		if calls == 1 {
			return core.Move{PileIndex: 0, CoinsToTake: 5}, nil
		}
		return core.Move{PileIndex: 0, CoinsToTake: 2}, nil
	})
	r := newRunner(t, engine, Config{Humans: humans})

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, core.Player1, res.Winner)
	require.Len(t, res.Final.History, 1)
	assert.Equal(t, core.StrategyHuman, res.Final.History[0].Strategy)
	assert.False(t, res.Final.History[0].TimedOut)
}

func TestRunHumanTimeout(t *testing.T) {
	cfg := testutil.GameConfig([]int{2}, []int{1, 2}, core.StrategyHuman, core.StrategyOptimal)
	cfg.TimeLimit = 1
	engine := newEngine(t, cfg)

	humans := HumanInputFunc(func(ctx context.Context, state game.GameState) (core.Move, error) {
		<-ctx.Done()
		return core.Move{}, ctx.Err()
	})
	r := newRunner(t, engine, Config{Humans: humans})

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Final.History, 1)
	rec := res.Final.History[0]
	assert.True(t, rec.TimedOut)
	assert.Equal(t, core.StrategyGreedy, rec.Strategy)
	assert.Equal(t, 2, rec.CoinsToTake)
	assert.Equal(t, core.Player1, res.Winner)
}

func TestRunWithoutHumanInput(t *testing.T) {
	engine := newEngine(t, testutil.ClassicConfig(core.StrategyHuman, core.StrategyGreedy))
	r := newRunner(t, engine, Config{})

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoHumanInput)
	assert.Empty(t, engine.State().History)
}

func TestRunCancelled(t *testing.T) {
	engine := newEngine(t, testutil.ClassicConfig(core.StrategyOptimal, core.StrategyGreedy))
	r := newRunner(t, engine, Config{MoveDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res, err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, res.Moves)
	assert.False(t, engine.IsGameOver())
}

func TestRunZeroPile(t *testing.T) {
	engine := newEngine(t, testutil.GameConfig([]int{0}, []int{1}, core.StrategyOptimal, core.StrategyGreedy))
	r := newRunner(t, engine, Config{})

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.NoPlayer, res.Winner)
	assert.Zero(t, res.Moves)
}
