package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

var ErrInvalidConfig = errors.New("invalid game configuration")

// User-facing configuration messages.
const (
	MsgPilesNotPositive = "All pile sizes must be positive numbers"
	MsgMovesNotPositive = "All allowed moves must be positive numbers"
	MsgTimeLimit        = "Time limit must be non-negative"
	MsgUnknownStrategy  = "Strategy must be one of Optimal, Greedy, Human, Custom"
)

var gameValidate = validator.New()

// RestrictionSetting switches on one restriction. Config is decoded by the
// restriction itself; nil selects its defaults.
type RestrictionSetting struct {
	ID     string         `json:"id" yaml:"id" validate:"required"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// GameConfig is everything needed to start a game. It is not modified once a
// game has started.
type GameConfig struct {
	Piles         []int                `json:"pileSizes" yaml:"pileSizes" validate:"required,min=1,dive,gte=0"`
	AllowedMoves  []int                `json:"allowedMoves" yaml:"allowedMoves" validate:"required,min=1,dive,gt=0"`
	TimeLimit     int                  `json:"moveTimeLimit" yaml:"moveTimeLimit" validate:"gte=0"`
	Player1       core.StrategyKind    `json:"player1Strategy" yaml:"player1Strategy" validate:"oneof=Optimal Greedy Human Custom"`
	Player2       core.StrategyKind    `json:"player2Strategy" yaml:"player2Strategy" validate:"oneof=Optimal Greedy Human Custom"`
	Player1Script string               `json:"player1Script,omitempty" yaml:"player1Script,omitempty"`
	Player2Script string               `json:"player2Script,omitempty" yaml:"player2Script,omitempty"`
	Restrictions  []RestrictionSetting `json:"restrictions,omitempty" yaml:"restrictions,omitempty" validate:"dive"`
}

// Validate checks the struct tags and that every Custom seat has a script.
func (g *GameConfig) Validate() error {
	if err := gameValidate.Struct(g); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if g.Player1 == core.StrategyCustom && strings.TrimSpace(g.Player1Script) == "" {
		return fmt.Errorf("%w: player 1 uses a custom strategy but has no script", ErrInvalidConfig)
	}
	if g.Player2 == core.StrategyCustom && strings.TrimSpace(g.Player2Script) == "" {
		return fmt.Errorf("%w: player 2 uses a custom strategy but has no script", ErrInvalidConfig)
	}
	return nil
}

// Normalized returns a copy with the allowed moves sorted and deduplicated.
func (g GameConfig) Normalized() GameConfig {
	out := g
	out.Piles = append([]int(nil), g.Piles...)
	out.AllowedMoves = core.NormalizeAllowed(g.AllowedMoves)
	out.Restrictions = append([]RestrictionSetting(nil), g.Restrictions...)
	return out
}

// Strategy returns the strategy kind assigned to p.
func (g GameConfig) Strategy(p core.Player) core.StrategyKind {
	if p == core.Player2 {
		return g.Player2
	}
	return g.Player1
}

// Script returns the custom strategy source assigned to p.
func (g GameConfig) Script(p core.Player) string {
	if p == core.Player2 {
		return g.Player2Script
	}
	return g.Player1Script
}

// ParseGameConfig builds a GameConfig from user input: comma-separated pile
// sizes and allowed moves, a time limit in seconds (0 = unlimited) and the
// two strategy names. Errors wrap ErrInvalidConfig and carry a message fit
// for display.
func ParseGameConfig(piles, moves string, limit int, p1, p2 string) (GameConfig, error) {
	pileSizes, ok := parsePositiveList(piles)
	if !ok {
		return GameConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, MsgPilesNotPositive)
	}
	allowed, ok := parsePositiveList(moves)
	if !ok {
		return GameConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, MsgMovesNotPositive)
	}
	if limit < 0 {
		return GameConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, MsgTimeLimit)
	}
	s1, err := ParseStrategy(p1)
	if err != nil {
		return GameConfig{}, err
	}
	s2, err := ParseStrategy(p2)
	if err != nil {
		return GameConfig{}, err
	}

	cfg := GameConfig{
		Piles:        pileSizes,
		AllowedMoves: allowed,
		TimeLimit:    limit,
		Player1:      s1,
		Player2:      s2,
	}.Normalized()
	if err := gameValidate.Struct(&cfg); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// ParseStrategy accepts a strategy name in any letter case.
func ParseStrategy(name string) (core.StrategyKind, error) {
	for _, kind := range []core.StrategyKind{core.StrategyOptimal, core.StrategyGreedy, core.StrategyHuman, core.StrategyCustom} {
		if strings.EqualFold(strings.TrimSpace(name), string(kind)) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidConfig, MsgUnknownStrategy)
}

// ParseAllowedMoves parses a comma-separated move list, sorted and
// deduplicated.
func ParseAllowedMoves(moves string) ([]int, error) {
	allowed, ok := parsePositiveList(moves)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, MsgMovesNotPositive)
	}
	return core.NormalizeAllowed(allowed), nil
}

func parsePositiveList(s string) ([]int, bool) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
