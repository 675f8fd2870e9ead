// Package script runs user-supplied Lua strategies.
//
// A script defines a global function strategy(state) that receives a fresh
// table describing the position and returns {pileIndex=i, coinsToTake=n}
// with a 1-based pile index, or nil when it has no move.
package script

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
	"github.com/go-viper/mapstructure/v2"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
)

// EntryPoint is the global function every script must define.
const EntryPoint = "strategy"

// hookInterval is how many VM instructions run between deadline checks.
const hookInterval = 1000

var (
	ErrNoEntryPoint   = errors.New("script does not define a strategy function")
	ErrBadResult      = errors.New("strategy returned a malformed move")
	ErrBudgetExceeded = errors.New("strategy exceeded its time budget")
)

// Stage says where a script failed.
type Stage string

const (
	StageCompile Stage = "compile"
	StageRuntime Stage = "runtime"
	StageResult  Stage = "result"
)

// ExecutionError is returned for every script failure. Player is filled in
// by callers that know which seat ran the script.
type ExecutionError struct {
	Player core.Player
	Script string
	Stage  Stage
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Player.Valid() {
		return fmt.Sprintf("%s strategy %q failed at %s: %v", e.Player, e.Script, e.Stage, e.Err)
	}
	return fmt.Sprintf("strategy %q failed at %s: %v", e.Script, e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// WithPlayer returns a copy of the error attributed to p.
func (e *ExecutionError) WithPlayer(p core.Player) *ExecutionError {
	out := *e
	out.Player = p
	return &out
}

// Strategy is a compiled script. Each Move call runs in a fresh interpreter
// so globals never leak between turns.
type Strategy struct {
	name   string
	source string
}

// Compile loads source and checks that it defines the entry point. The
// chunk's top level runs without a deadline; use CompileContext to bound it.
func Compile(name, source string) (*Strategy, error) {
	return CompileContext(context.Background(), name, source)
}

// CompileContext is Compile with ctx bounding the chunk's top level. A chunk
// still running when ctx is done fails with ErrBudgetExceeded.
func CompileContext(ctx context.Context, name, source string) (*Strategy, error) {
	s := &Strategy{name: name, source: source}
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	l.Global(EntryPoint)
	defined := l.IsFunction(-1)
	l.Pop(1)
	if !defined {
		return nil, s.fail(StageCompile, ErrNoEntryPoint)
	}
	return s, nil
}

// Name is the chunk name the script was compiled under.
func (s *Strategy) Name() string { return s.name }

// Source returns the Lua source.
func (s *Strategy) Source() string { return s.source }

// Move asks the script for a move. ok is false when the script returned nil.
// The returned move uses a 0-based pile index. ctx bounds the run: a script
// still executing when ctx is done fails with ErrBudgetExceeded.
func (s *Strategy) Move(ctx context.Context, view core.View, enabled []restrictions.Enabled) (core.Move, bool, error) {
	l, err := s.load(ctx)
	if err != nil {
		return core.Move{}, false, err
	}

	l.Global(EntryPoint)
	if !l.IsFunction(-1) {
		return core.Move{}, false, s.fail(StageCompile, ErrNoEntryPoint)
	}
	if err := pushState(l, view, enabled); err != nil {
		return core.Move{}, false, s.fail(StageRuntime, err)
	}
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		if ctx.Err() != nil {
			return core.Move{}, false, s.fail(StageRuntime, fmt.Errorf("%w: %w", ErrBudgetExceeded, ctx.Err()))
		}
		return core.Move{}, false, s.fail(StageRuntime, err)
	}

	move, ok, err := readMove(l)
	if err != nil {
		return core.Move{}, false, s.fail(StageResult, err)
	}
	return move, ok, nil
}

// load builds a sandboxed interpreter and runs the chunk's top level.
func (s *Strategy) load(ctx context.Context) (*lua.State, error) {
	l := newState()
	lua.SetDebugHook(l, func(state *lua.State, _ lua.Debug) {
		if ctx.Err() != nil {
			lua.Errorf(state, "%s", ErrBudgetExceeded.Error())
		}
	}, lua.MaskCount, hookInterval)

	if err := lua.LoadBuffer(l, s.source, "="+s.name, "t"); err != nil {
		return nil, s.fail(StageCompile, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ErrBudgetExceeded, ctx.Err())
		}
		return nil, s.fail(StageCompile, err)
	}
	return l, nil
}

func (s *Strategy) fail(stage Stage, err error) *ExecutionError {
	return &ExecutionError{Script: s.name, Stage: stage, Err: err}
}

var libraries = []lua.RegistryFunction{
	{Name: "_G", Function: lua.BaseOpen},
	{Name: "table", Function: lua.TableOpen},
	{Name: "string", Function: lua.StringOpen},
	{Name: "math", Function: lua.MathOpen},
	{Name: "bit32", Function: lua.Bit32Open},
}

// Base library entries that reach the filesystem.
var blockedGlobals = []string{"dofile", "loadfile"}

func newState() *lua.State {
	l := lua.NewState()
	for _, lib := range libraries {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range blockedGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}
	return l
}

// pushState pushes the state table handed to the entry point.
func pushState(l *lua.State, view core.View, enabled []restrictions.Enabled) error {
	l.NewTable()

	pushInts(l, view.Piles)
	l.SetField(-2, "piles")

	pushInts(l, view.Allowed)
	l.SetField(-2, "allowedMoves")

	l.PushInteger(int(view.CurrentPlayer))
	l.SetField(-2, "currentPlayer")

	if view.LastMove != nil {
		pushRecord(l, *view.LastMove)
		l.SetField(-2, "lastMove")
	}

	l.CreateTable(len(view.History), 0)
	for i, rec := range view.History {
		pushRecord(l, rec)
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "moveHistory")

	l.CreateTable(len(enabled), 0)
	for i, e := range enabled {
		raw, err := configMap(e.Config)
		if err != nil {
			l.Pop(2)
			return fmt.Errorf("restriction %s: %w", e.ID, err)
		}
		l.NewTable()
		l.PushString(e.ID)
		l.SetField(-2, "id")
		pushValue(l, raw)
		l.SetField(-2, "config")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "enabledRestrictions")
	return nil
}

func pushInts(l *lua.State, values []int) {
	l.CreateTable(len(values), 0)
	for i, v := range values {
		l.PushInteger(v)
		l.RawSetInt(-2, i+1)
	}
}

// pushRecord pushes a history entry with a 1-based pile index.
func pushRecord(l *lua.State, rec core.MoveRecord) {
	l.CreateTable(0, 3)
	l.PushInteger(rec.PileIndex + 1)
	l.SetField(-2, "pileIndex")
	l.PushInteger(rec.CoinsToTake)
	l.SetField(-2, "coinsToTake")
	l.PushInteger(int(rec.Player))
	l.SetField(-2, "player")
}

func configMap(cfg restrictions.Config) (map[string]any, error) {
	out := map[string]any{}
	if cfg == nil {
		return out, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	return out, nil
}

func pushValue(l *lua.State, v any) {
	switch value := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(value)
	case int:
		l.PushInteger(value)
	case int64:
		l.PushInteger(int(value))
	case float64:
		l.PushNumber(value)
	case string:
		l.PushString(value)
	case []int:
		pushInts(l, value)
	case []any:
		l.CreateTable(len(value), 0)
		for i, item := range value {
			pushValue(l, item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.CreateTable(0, len(value))
		for key, item := range value {
			pushValue(l, item)
			l.SetField(-2, key)
		}
	default:
		l.PushString(fmt.Sprint(value))
	}
}

// readMove pops the entry point's return value.
func readMove(l *lua.State) (core.Move, bool, error) {
	defer l.Pop(1)
	switch l.TypeOf(-1) {
	case lua.TypeNil, lua.TypeNone:
		return core.Move{}, false, nil
	case lua.TypeTable:
	default:
		return core.Move{}, false, fmt.Errorf("%w: got %s, want table or nil", ErrBadResult, lua.TypeNameOf(l, -1))
	}

	index := l.AbsIndex(-1)
	pile, err := intField(l, index, "pileIndex")
	if err != nil {
		return core.Move{}, false, err
	}
	coins, err := intField(l, index, "coinsToTake")
	if err != nil {
		return core.Move{}, false, err
	}
	return core.Move{PileIndex: pile - 1, CoinsToTake: coins}, true, nil
}

func intField(l *lua.State, index int, name string) (int, error) {
	l.Field(index, name)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeNumber {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadResult, name)
	}
	n, _ := l.ToNumber(-1)
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrBadResult, name, n)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is out of range, got %v", ErrBadResult, name, n)
	}
	return int(n), nil
}
