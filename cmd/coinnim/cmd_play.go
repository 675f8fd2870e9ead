package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CoinNim/internal/arena"
	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/mitchelldurbincs/CoinNim/internal/game/events/subscribers"
)

var errQuit = errors.New("player quit")

func newPlayCmd(a *app) *cobra.Command {
	var (
		flags gameFlags
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game; Human seats read moves from stdin",
		Long: `Play one game. Human players enter "<pile> <coins>" with 1-based pile
numbers, "hint" for a suggestion or "quit" to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gameCfg, err := flags.build(ctx, a, cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.conf().Arena.MoveDelay
			}
			a.watch()

			out := cmd.OutOrStdout()
			engine, err := newEngine(ctx, a, gameCfg)
			if err != nil {
				return err
			}
			printEvents(engine, out)

			runner, err := arena.NewRunner(ctx, engine, arena.Config{
				MoveDelay:    delay,
				ScriptBudget: a.conf().Arena.ScriptBudget,
				Humans:       newConsoleInput(cmd.InOrStdin(), out, engine),
				Logger:       a.logger,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Piles %v, allowed moves %v: %s vs %s\n",
				gameCfg.Piles, gameCfg.AllowedMoves, gameCfg.Player1, gameCfg.Player2)
			res, err := runner.Run(ctx)
			if errors.Is(err, errQuit) {
				fmt.Fprintln(out, "Game abandoned.")
				return nil
			}
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "Pause before each automated move (default from config)")
	return cmd
}

func newEngine(ctx context.Context, a *app, gameCfg config.GameConfig) (*game.Engine, error) {
	engine, err := game.NewEngine(ctx, game.EngineConfig{
		Game:     gameCfg,
		MinBound: a.conf().Analysis.MinBound,
		Options:  game.Options{EnhancedHistory: a.conf().Features.EnhancedHistory},
		Logger:   a.logger,
	})
	if err != nil {
		return nil, err
	}
	engine.EventBus().Subscribe(subscribers.NewLoggerSubscriber("cli-events", a.logger, zerolog.DebugLevel))
	return engine, nil
}

// printEvents echoes moves and rejections as they happen.
func printEvents(engine *game.Engine, out io.Writer) {
	bus := engine.EventBus()
	bus.SubscribeFunc(events.TypeMoveApplied, func(e events.Event) {
		ev, ok := e.(*events.MoveAppliedEvent)
		if !ok {
			return
		}
		rec := ev.Record
		suffix := ""
		if rec.TimedOut {
			suffix = " (time limit)"
		}
		fmt.Fprintf(out, "Turn %d: %s [%s] takes %d from pile %d -> %v%s\n",
			ev.Turn, rec.Player, rec.Strategy, rec.CoinsToTake, rec.PileIndex+1, ev.PilesAfter, suffix)
	})
	bus.SubscribeFunc(events.TypeMoveRejected, func(e events.Event) {
		if ev, ok := e.(*events.MoveRejectedEvent); ok {
			fmt.Fprintf(out, "Rejected: %s\n", ev.Reason)
		}
	})
}

func printResult(out io.Writer, res arena.Result) {
	if res.Winner == core.NoPlayer {
		fmt.Fprintf(out, "Game over after %d moves: no winner.\n", res.Moves)
		return
	}
	fmt.Fprintf(out, "%s wins after %d moves.\n", res.Winner, res.Moves)
}

// consoleInput reads human moves line by line.
type consoleInput struct {
	lines  <-chan string
	out    io.Writer
	engine *game.Engine
}

func newConsoleInput(in io.Reader, out io.Writer, engine *game.Engine) *consoleInput {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &consoleInput{lines: lines, out: out, engine: engine}
}

func (c *consoleInput) NextMove(ctx context.Context, state game.GameState) (core.Move, error) {
	prompt := fmt.Sprintf("%s, piles %v, moves %v", state.CurrentPlayer, []int(state.Piles), state.Allowed)
	if deadline, ok := ctx.Deadline(); ok {
		prompt += fmt.Sprintf(", %ds left", int(time.Until(deadline).Round(time.Second).Seconds()))
	}
	fmt.Fprintf(c.out, "%s> ", prompt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return core.Move{}, ctx.Err()
		case line, ok := <-c.lines:
			if !ok {
				return core.Move{}, errQuit
			}
			move, err := c.parse(strings.TrimSpace(line))
			if err == nil {
				return move, nil
			}
			if errors.Is(err, errQuit) {
				return core.Move{}, err
			}
			fmt.Fprintf(c.out, "%v\n%s> ", err, prompt)
		}
	}
}

func (c *consoleInput) parse(line string) (core.Move, error) {
	switch strings.ToLower(line) {
	case "quit", "exit":
		return core.Move{}, errQuit
	case "hint":
		if m, ok := c.engine.SuggestMove(); ok {
			return core.Move{}, fmt.Errorf("hint: take %d from pile %d", m.CoinsToTake, m.PileIndex+1)
		}
		return core.Move{}, errors.New("hint: no move available")
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return core.Move{}, errors.New(`enter "<pile> <coins>", "hint" or "quit"`)
	}
	pile, err := strconv.Atoi(fields[0])
	if err != nil {
		return core.Move{}, fmt.Errorf("pile %q is not a number", fields[0])
	}
	coins, err := strconv.Atoi(fields[1])
	if err != nil {
		return core.Move{}, fmt.Errorf("coins %q is not a number", fields[1])
	}
	return core.Move{PileIndex: pile - 1, CoinsToTake: coins}, nil
}

var _ arena.HumanInput = (*consoleInput)(nil)
