package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/mitchelldurbincs/CoinNim/internal/script"
)

func newRestrictionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restrictions",
		Short: "List the available move restrictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range restrictions.DefaultCatalog().All() {
				defaults, err := yaml.Marshal(r.DefaultConfig())
				if err != nil {
					return fmt.Errorf("render %s defaults: %w", r.ID(), err)
				}
				fmt.Fprintf(out, "%s (%s)\n  %s\n  defaults: %s\n",
					r.ID(), r.Name(), r.Description(), strings.TrimSpace(string(defaults)))
			}
			return nil
		},
	}
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the bundled Lua strategy templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range script.Templates() {
				fmt.Fprintf(out, "%-10s %s: %s\n", t.Name, t.Title, t.Description)
			}
			fmt.Fprintf(out, "\nUse --p1-script %sNAME to play one.\n", templatePrefix)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print a template's source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := script.LookupTemplate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), t.Source)
			return nil
		},
	})
	return cmd
}
