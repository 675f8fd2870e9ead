package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/mitchelldurbincs/CoinNim/internal/script"
	"github.com/mitchelldurbincs/CoinNim/internal/store"
)

const templatePrefix = "template:"

// gameFlags are the flags that describe a game configuration.
type gameFlags struct {
	piles        string
	moves        string
	timeLimit    int
	player1      string
	player2      string
	script1      string
	script2      string
	restrictions []string
	saved        string
}

func (f *gameFlags) bind(cmd *cobra.Command, withSaved bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.piles, "piles", "", "Comma-separated pile sizes (default from config)")
	fs.StringVar(&f.moves, "moves", "", "Comma-separated allowed moves (default from config)")
	fs.IntVar(&f.timeLimit, "time-limit", 0, "Seconds per human move, 0 for unlimited (default from config)")
	fs.StringVar(&f.player1, "p1", "", "Player 1 strategy: Optimal, Greedy, Human or Custom")
	fs.StringVar(&f.player2, "p2", "", "Player 2 strategy: Optimal, Greedy, Human or Custom")
	fs.StringVar(&f.script1, "p1-script", "", "Lua file or template:NAME for a Custom player 1")
	fs.StringVar(&f.script2, "p2-script", "", "Lua file or template:NAME for a Custom player 2")
	fs.StringArrayVar(&f.restrictions, "restriction", nil, "Enable a restriction: ID or ID:key=value,key=value (repeatable)")
	if withSaved {
		fs.StringVar(&f.saved, "saved", "", "Start from a saved configuration")
	}
}

// build resolves the flags into a validated configuration. Unset flags fall
// back to the saved configuration when one is named, otherwise to the
// config file defaults.
func (f *gameFlags) build(ctx context.Context, a *app, cmd *cobra.Command) (config.GameConfig, error) {
	if f.saved != "" {
		return f.buildFromSaved(ctx, a, cmd)
	}

	defaults := a.conf().Game
	piles := pick(cmd, "piles", f.piles, defaults.Piles)
	moves := pick(cmd, "moves", f.moves, defaults.Moves)
	p1 := pick(cmd, "p1", f.player1, defaults.Player1)
	p2 := pick(cmd, "p2", f.player2, defaults.Player2)
	limit := defaults.TimeLimit
	if cmd.Flags().Changed("time-limit") {
		limit = f.timeLimit
	}

	cfg, err := config.ParseGameConfig(piles, moves, limit, p1, p2)
	if err != nil {
		return config.GameConfig{}, err
	}
	return f.finish(cmd, cfg)
}

func (f *gameFlags) buildFromSaved(ctx context.Context, a *app, cmd *cobra.Command) (config.GameConfig, error) {
	s, err := store.Open(a.conf().Store, a.logger)
	if err != nil {
		return config.GameConfig{}, err
	}
	defer s.Close()

	cfg, err := s.Load(ctx, f.saved)
	if err != nil {
		return config.GameConfig{}, fmt.Errorf("load %q: %w", f.saved, err)
	}
	if cmd.Flags().Changed("p1") {
		if cfg.Player1, err = config.ParseStrategy(f.player1); err != nil {
			return config.GameConfig{}, err
		}
	}
	if cmd.Flags().Changed("p2") {
		if cfg.Player2, err = config.ParseStrategy(f.player2); err != nil {
			return config.GameConfig{}, err
		}
	}
	if cmd.Flags().Changed("time-limit") {
		cfg.TimeLimit = f.timeLimit
	}
	return f.finish(cmd, cfg)
}

// finish attaches scripts and restrictions and validates the result.
func (f *gameFlags) finish(cmd *cobra.Command, cfg config.GameConfig) (config.GameConfig, error) {
	var err error
	if f.script1 != "" {
		if cfg.Player1Script, err = loadScript(f.script1); err != nil {
			return config.GameConfig{}, err
		}
	}
	if f.script2 != "" {
		if cfg.Player2Script, err = loadScript(f.script2); err != nil {
			return config.GameConfig{}, err
		}
	}
	if cmd.Flags().Changed("restriction") {
		cfg.Restrictions = nil
		for _, raw := range f.restrictions {
			setting, err := parseRestriction(raw)
			if err != nil {
				return config.GameConfig{}, err
			}
			cfg.Restrictions = append(cfg.Restrictions, setting)
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.GameConfig{}, err
	}
	if _, err := game.ResolveRestrictions(restrictions.DefaultCatalog(), cfg.Restrictions); err != nil {
		return config.GameConfig{}, err
	}
	return cfg.Normalized(), nil
}

func pick(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// loadScript reads a Lua file, or a bundled template when ref is
// template:NAME.
func loadScript(ref string) (string, error) {
	if name, ok := strings.CutPrefix(ref, templatePrefix); ok {
		t, err := script.LookupTemplate(name)
		if err != nil {
			return "", err
		}
		return t.Source, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read strategy script: %w", err)
	}
	return string(data), nil
}

// parseRestriction parses ID or ID:key=value,key=value.
func parseRestriction(raw string) (config.RestrictionSetting, error) {
	id, params, hasParams := strings.Cut(strings.TrimSpace(raw), ":")
	if id == "" {
		return config.RestrictionSetting{}, fmt.Errorf("%w: empty restriction id", config.ErrInvalidConfig)
	}
	setting := config.RestrictionSetting{ID: id}
	if !hasParams {
		return setting, nil
	}

	setting.Config = map[string]any{}
	for _, pair := range strings.Split(params, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return config.RestrictionSetting{}, fmt.Errorf("%w: restriction %s: expected key=value, got %q", config.ErrInvalidConfig, id, pair)
		}
		setting.Config[key] = strings.TrimSpace(value)
	}
	return setting, nil
}

func hasHuman(cfg config.GameConfig) bool {
	return cfg.Player1 == core.StrategyHuman || cfg.Player2 == core.StrategyHuman
}
