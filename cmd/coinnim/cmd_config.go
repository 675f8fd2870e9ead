package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/CoinNim/internal/store"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage saved game configurations",
	}
	cmd.AddCommand(
		newConfigSaveCmd(a),
		newConfigListCmd(a),
		newConfigLoadCmd(a),
		newConfigDeleteCmd(a),
	)
	return cmd
}

// withStore opens the configured store for the duration of fn.
func withStore(a *app, fn func(s store.ConfigStore) error) error {
	s, err := store.Open(a.conf().Store, a.logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newConfigSaveCmd(a *app) *cobra.Command {
	var flags gameFlags
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a game configuration, replacing any with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameCfg, err := flags.build(cmd.Context(), a, cmd)
			if err != nil {
				return err
			}
			return withStore(a, func(s store.ConfigStore) error {
				if err := s.Save(cmd.Context(), args[0], gameCfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q\n", args[0])
				return nil
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func newConfigListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(a, func(s store.ConfigStore) error {
				entries, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No saved configurations.")
					return nil
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s: piles %v, moves %v, %s vs %s\n",
						e.Name, e.Config.Piles, e.Config.AllowedMoves, e.Config.Player1, e.Config.Player2)
				}
				return nil
			})
		},
	}
}

func newConfigLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load NAME",
		Short: "Print a saved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(a, func(s store.ConfigStore) error {
				gameCfg, err := s.Load(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load %q: %w", args[0], err)
				}
				data, err := yaml.Marshal(gameCfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func newConfigDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(a, func(s store.ConfigStore) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
				return nil
			})
		},
	}
}
