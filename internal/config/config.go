package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Store    StoreConfig    `mapstructure:"store"`
	Arena    ArenaConfig    `mapstructure:"arena"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Game     DefaultsConfig `mapstructure:"game"`
	Features FeaturesConfig `mapstructure:"features"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects the named configuration store backend
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ArenaConfig holds settings for the automated game loop
type ArenaConfig struct {
	MoveDelay    time.Duration `mapstructure:"move_delay"`
	ScriptBudget time.Duration `mapstructure:"script_budget"`
}

// AnalysisConfig holds position-table settings
type AnalysisConfig struct {
	MinBound int `mapstructure:"min_bound"`
}

// DefaultsConfig is the game used when the CLI gets no explicit flags
type DefaultsConfig struct {
	Piles     string `mapstructure:"piles"`
	Moves     string `mapstructure:"moves"`
	TimeLimit int    `mapstructure:"time_limit"`
	Player1   string `mapstructure:"player1"`
	Player2   string `mapstructure:"player2"`
}

// FeaturesConfig holds feature toggles passed to the engine at construction
type FeaturesConfig struct {
	EnhancedHistory bool `mapstructure:"enhanced_history"`
}

// Store backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

var (
	// Global config instance. Reloads swap the pointer under mu and never
	// write through it, so a *Config returned by Get is safe to keep reading.
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.path", "coinnim.db")

	v.SetDefault("arena.move_delay", "1s")
	v.SetDefault("arena.script_budget", "2s")

	v.SetDefault("analysis.min_bound", 1000)

	v.SetDefault("game.piles", "21")
	v.SetDefault("game.moves", "1,3,4")
	v.SetDefault("game.time_limit", 0)
	v.SetDefault("game.player1", "Optimal")
	v.SetDefault("game.player2", "Human")

	v.SetDefault("features.enhanced_history", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("coinnim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/coinnim")
	}

	v.SetEnvPrefix("COINNIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	cfg = next
	mu.Unlock()
	return nil
}

// Get returns the current config snapshot. The returned value is never
// modified; a reload publishes a new one.
func Get() *Config {
	mu.RLock()
	current := cfg
	mu.RUnlock()
	if current != nil {
		return current
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates. It publishes a new snapshot.
func Set(key string, value interface{}) {
	v.Set(key, value)
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return
	}
	mu.Lock()
	cfg = next
	mu.Unlock()
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Reloads that fail
// validation are ignored and the previous values stay in effect.
func WatchConfig(onChange func()) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		mu.Lock()
		cfg = next
		mu.Unlock()
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level %q is not a valid level", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite, BackendBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("store.backend must be one of memory, sqlite, badger")
	}

	if c.Arena.MoveDelay < 0 {
		return fmt.Errorf("arena.move_delay must be non-negative")
	}
	if c.Arena.ScriptBudget < 0 {
		return fmt.Errorf("arena.script_budget must be non-negative")
	}

	if c.Analysis.MinBound < 0 {
		return fmt.Errorf("analysis.min_bound must be non-negative")
	}

	if c.Game.TimeLimit < 0 {
		return fmt.Errorf("game.time_limit must be non-negative")
	}

	return nil
}

// LogLevel returns the configured zerolog level, info when unparsable.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
