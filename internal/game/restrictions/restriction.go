// Package restrictions holds the pluggable move-legality predicates layered
// on top of the base move rules.
package restrictions

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

// Config is the per-restriction configuration. Each restriction declares its
// own concrete type.
type Config interface {
	RestrictionID() string
}

// Restriction is a move-legality predicate. Implementations must be
// stateless: everything they need arrives through the arguments.
type Restriction interface {
	ID() string
	Name() string
	Description() string
	DefaultConfig() Config
	DecodeConfig(raw map[string]any) (Config, error)
	Validate(state core.View, move core.Move, cfg Config) bool
}

// Enumerator is implemented by restrictions that can list their legal moves
// directly instead of being checked move by move.
type Enumerator interface {
	ValidMoves(state core.View, cfg Config) []core.Move
}

// Enabled is one switched-on restriction with the config supplied by the
// caller.
type Enabled struct {
	ID     string `json:"id" yaml:"id"`
	Config Config `json:"config" yaml:"config"`
}

// configAs returns cfg as T, or def when cfg is nil or of another type.
func configAs[T Config](cfg Config, def T) T {
	if typed, ok := cfg.(T); ok {
		return typed
	}
	return def
}

func decodeInto[T Config](id string, raw map[string]any, def T) (Config, error) {
	out := def
	if len(raw) == 0 {
		return out, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "json",
	})
	if err != nil {
		return nil, fmt.Errorf("restriction %s: %w", id, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("restriction %s: decode config: %w", id, err)
	}
	return out, nil
}
