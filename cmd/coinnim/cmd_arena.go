package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CoinNim/internal/arena"
	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/configgen"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/script"
)

var errHumanInArena = errors.New("arena games need two automated players")

func newArenaCmd(a *app) *cobra.Command {
	var (
		flags  gameFlags
		games  int
		delay  time.Duration
		quiet  bool
		random bool
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Pit two automated strategies against each other",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gameCfg, err := flags.build(ctx, a, cmd)
			if err != nil {
				return err
			}
			if hasHuman(gameCfg) {
				return errHumanInArena
			}
			if games <= 0 {
				return fmt.Errorf("--games must be positive")
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.conf().Arena.MoveDelay
			}

			var gen *configgen.Generator
			if random {
				if !cmd.Flags().Changed("seed") {
					seed = time.Now().UnixNano()
				}
				gen, err = configgen.NewGenerator(configgen.DefaultGenConfig(), rand.New(rand.NewSource(seed)))
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if random {
				fmt.Fprintf(out, "Random setups, seed %d\n", seed)
			}
			tally := map[core.Player]int{}
			totalMoves := 0
			for i := 1; i <= games; i++ {
				cfg := gameCfg
				if gen != nil {
					cfg = gen.Generate(gameCfg)
					if !quiet {
						fmt.Fprintf(out, "Game %d setup: piles %v, moves %v\n", i, cfg.Piles, cfg.AllowedMoves)
					}
				}
				res, err := playArenaGame(ctx, cmd, a, cfg, delay, quiet)
				var execErr *script.ExecutionError
				if errors.As(err, &execErr) {
					fmt.Fprintf(out, "Game %d halted: %v\n", i, execErr)
					return err
				}
				if err != nil {
					return err
				}
				tally[res.Winner]++
				totalMoves += res.Moves
				if !quiet {
					fmt.Fprintf(out, "Game %d: ", i)
					printResult(out, res)
				}
			}

			fmt.Fprintf(out, "%s [%s]: %d wins\n", core.Player1, gameCfg.Player1, tally[core.Player1])
			fmt.Fprintf(out, "%s [%s]: %d wins\n", core.Player2, gameCfg.Player2, tally[core.Player2])
			if n := tally[core.NoPlayer]; n > 0 {
				fmt.Fprintf(out, "No winner: %d\n", n)
			}
			fmt.Fprintf(out, "Average moves: %.1f\n", float64(totalMoves)/float64(games))
			return nil
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().IntVar(&games, "games", 1, "Number of games to play")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause before each move (default from config)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only print the summary")
	cmd.Flags().BoolVar(&random, "random", false, "Draw fresh piles and allowed moves for every game")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for --random (default from the clock)")
	return cmd
}

func playArenaGame(ctx context.Context, cmd *cobra.Command, a *app, gameCfg config.GameConfig, delay time.Duration, quiet bool) (arena.Result, error) {
	engine, err := newEngine(ctx, a, gameCfg)
	if err != nil {
		return arena.Result{}, err
	}
	if !quiet {
		printEvents(engine, cmd.OutOrStdout())
	}
	runner, err := arena.NewRunner(ctx, engine, arena.Config{
		MoveDelay:    delay,
		ScriptBudget: a.conf().Arena.ScriptBudget,
		Logger:       a.logger,
	})
	if err != nil {
		return arena.Result{}, err
	}
	return runner.Run(ctx)
}
