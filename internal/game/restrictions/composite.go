package restrictions

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

// AnyOfConfig carries one config per member, keyed by member ID. Missing
// entries fall back to the member default.
type AnyOfConfig struct {
	id      string
	Members map[string]Config `json:"members" yaml:"members"`
}

func (c AnyOfConfig) RestrictionID() string { return c.id }

type anyOf struct {
	id      string
	name    string
	members []Restriction
}

// AnyOf builds a restriction that passes when at least one member passes.
// Enabling several restrictions side by side gives AND; AnyOf gives OR.
func AnyOf(id, name string, members ...Restriction) Restriction {
	return &anyOf{id: id, name: name, members: members}
}

func (a *anyOf) ID() string   { return a.id }
func (a *anyOf) Name() string { return a.name }

func (a *anyOf) Description() string {
	names := make([]string, len(a.members))
	for i, m := range a.members {
		names[i] = m.Name()
	}
	return "Any of: " + strings.Join(names, ", ")
}

func (a *anyOf) DefaultConfig() Config {
	cfg := AnyOfConfig{id: a.id, Members: make(map[string]Config, len(a.members))}
	for _, m := range a.members {
		cfg.Members[m.ID()] = m.DefaultConfig()
	}
	return cfg
}

// DecodeConfig expects {"<member id>": {...member config...}}.
func (a *anyOf) DecodeConfig(raw map[string]any) (Config, error) {
	cfg := a.DefaultConfig().(AnyOfConfig)
	for key, value := range raw {
		member := a.member(key)
		if member == nil {
			return nil, fmt.Errorf("restriction %s: unknown member %q", a.id, key)
		}
		sub, _ := value.(map[string]any)
		decoded, err := member.DecodeConfig(sub)
		if err != nil {
			return nil, fmt.Errorf("restriction %s: %w", a.id, err)
		}
		cfg.Members[key] = decoded
	}
	return cfg, nil
}

func (a *anyOf) Validate(state core.View, move core.Move, cfg Config) bool {
	c := configAs(cfg, a.DefaultConfig().(AnyOfConfig))
	for _, m := range a.members {
		memberCfg, ok := c.Members[m.ID()]
		if !ok {
			memberCfg = m.DefaultConfig()
		}
		if m.Validate(state, move, memberCfg) {
			return true
		}
	}
	return len(a.members) == 0
}

func (a *anyOf) member(id string) Restriction {
	for _, m := range a.members {
		if m.ID() == id {
			return m
		}
	}
	return nil
}
