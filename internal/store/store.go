// Package store keeps named game configurations.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

var (
	ErrNotFound    = errors.New("configuration not found")
	ErrInvalidName = errors.New("configuration name is required")
	ErrClosed      = errors.New("store is closed")
)

// Entry is one saved configuration.
type Entry struct {
	Name      string            `json:"name" yaml:"name"`
	Config    config.GameConfig `json:"config" yaml:"config"`
	UpdatedAt time.Time         `json:"updatedAt" yaml:"updatedAt"`
}

// ConfigStore persists configurations by name. Save overwrites an existing
// entry of the same name and Delete of an unknown name is a no-op.
type ConfigStore interface {
	Save(ctx context.Context, name string, cfg config.GameConfig) error
	List(ctx context.Context) ([]Entry, error)
	Load(ctx context.Context, name string) (config.GameConfig, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func encodeConfig(cfg config.GameConfig) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return data, nil
}

func decodeConfig(data []byte) (config.GameConfig, error) {
	var cfg config.GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.GameConfig{}, fmt.Errorf("decode configuration: %w", err)
	}
	return cfg, nil
}

// cloneConfig deep-copies cfg through its stored encoding so every backend
// hands back the same shapes.
func cloneConfig(cfg config.GameConfig) (config.GameConfig, error) {
	data, err := encodeConfig(cfg)
	if err != nil {
		return config.GameConfig{}, err
	}
	return decodeConfig(data)
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }
