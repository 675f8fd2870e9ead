package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/positions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/strategy"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		moves   string
		limit   int
		piles   []int
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify pile sizes as winning or losing for a move set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("moves") {
				moves = a.conf().Game.Moves
			}
			allowed, err := config.ParseAllowedMoves(moves)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--max must be non-negative")
			}

			bound := limit
			for _, p := range piles {
				if p < 0 {
					return fmt.Errorf("pile sizes must be non-negative")
				}
				if p > bound {
					bound = p
				}
			}
			table := positions.Compute(max(bound, a.conf().Analysis.MinBound), allowed)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Allowed moves: %s\n", joinInts(allowed))
			if showAll {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PILE\tLABEL\tWINNING MOVES")
				for n := 0; n <= limit; n++ {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", n, table.Label(n), joinInts(table.WinningMoves(n)))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			var losing []int
			for _, n := range table.LosingPositions(0) {
				if n > limit {
					break
				}
				losing = append(losing, n)
			}
			fmt.Fprintf(out, "Losing positions up to %d: %s\n", limit, joinInts(losing))
			if period := table.Period(); period > 0 {
				fmt.Fprintf(out, "Pattern repeats every %d\n", period)
			}

			for _, p := range piles {
				fmt.Fprintf(out, "Pile %d (%s): %s\n", p, table.Label(p), table.Recommendation(p))
			}
			if len(piles) > 1 {
				fmt.Fprintf(out, "Nim-sum: %d\n", strategy.NimSum(piles))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&moves, "moves", "", "Comma-separated allowed moves (default from config)")
	cmd.Flags().IntVar(&limit, "max", 30, "Largest pile size to list")
	cmd.Flags().IntSliceVar(&piles, "piles", nil, "Pile sizes to give advice for")
	cmd.Flags().BoolVar(&showAll, "table", false, "Print the full label table")
	return cmd
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
