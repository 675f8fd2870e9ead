package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "coinnim.yaml")

	configContent := `
log:
  level: debug
  format: json
store:
  backend: badger
  path: /tmp/coinnim-badger
arena:
  move_delay: 250ms
game:
  piles: "10,15"
  moves: "1,2"
  player2: Greedy
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel())
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, BackendBadger, c.Store.Backend)
	assert.Equal(t, "/tmp/coinnim-badger", c.Store.Path)
	assert.Equal(t, 250*time.Millisecond, c.Arena.MoveDelay)
	assert.Equal(t, 2*time.Second, c.Arena.ScriptBudget, "unset keys keep defaults")
	assert.Equal(t, "10,15", c.Game.Piles)
	assert.Equal(t, "Greedy", c.Game.Player2)
	assert.Equal(t, filepath.Clean(configFile), filepath.Clean(ConfigFilePath()))
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	require.NoError(t, Init("/non/existent/path/coinnim.yaml"))

	c := Get()
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, BackendSQLite, c.Store.Backend)
	assert.Equal(t, time.Second, c.Arena.MoveDelay)
	assert.Equal(t, 1000, c.Analysis.MinBound)
	assert.Equal(t, "21", c.Game.Piles)
	assert.Equal(t, "1,3,4", c.Game.Moves)
	assert.True(t, c.Features.EnhancedHistory)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "coinnim.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("store:\n  backend: etcd\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("COINNIM_LOG_LEVEL", "warn")
	t.Setenv("COINNIM_STORE_BACKEND", "memory")
	t.Setenv("COINNIM_ARENA_MOVE_DELAY", "0s")

	require.NoError(t, Init("/non/existent/coinnim.yaml"))

	c := Get()
	assert.Equal(t, zerolog.WarnLevel, c.LogLevel())
	assert.Equal(t, BackendMemory, c.Store.Backend)
	assert.Equal(t, time.Duration(0), c.Arena.MoveDelay)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/coinnim.yaml"))

	Set("analysis.min_bound", 50)
	Set("features.enhanced_history", false)

	c := Get()
	assert.Equal(t, 50, c.Analysis.MinBound)
	assert.False(t, c.Features.EnhancedHistory)
}

func TestSetKeepsSnapshotsStable(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/coinnim.yaml"))

	before := Get()
	bound := before.Analysis.MinBound

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = Get().Analysis.MinBound
				_ = before.Analysis.MinBound
			}
		}()
	}
	for j := 0; j < 20; j++ {
		Set("analysis.min_bound", 100+j)
	}
	wg.Wait()

	assert.Equal(t, bound, before.Analysis.MinBound)
	assert.Equal(t, 119, Get().Analysis.MinBound)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Log:   LogConfig{Level: "info", Format: "console"},
			Store: StoreConfig{Backend: BackendSQLite, Path: "x.db"},
			Arena: ArenaConfig{MoveDelay: time.Second, ScriptBudget: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"missing path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"memory needs no path", func(c *Config) { c.Store = StoreConfig{Backend: BackendMemory} }, ""},
		{"negative delay", func(c *Config) { c.Arena.MoveDelay = -time.Second }, "arena.move_delay"},
		{"negative budget", func(c *Config) { c.Arena.ScriptBudget = -1 }, "arena.script_budget"},
		{"negative bound", func(c *Config) { c.Analysis.MinBound = -1 }, "analysis.min_bound"},
		{"negative time limit", func(c *Config) { c.Game.TimeLimit = -5 }, "game.time_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "coinnim.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("analysis:\n  min_bound: 10\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	before := Get()
	changed := make(chan struct{}, 4)
	WatchConfig(func() { changed <- struct{}{} })

	require.NoError(t, os.WriteFile(configFile, []byte("analysis:\n  min_bound: 20\n"), 0644))

	select {
	case <-changed:
		assert.Equal(t, 20, Get().Analysis.MinBound)
		assert.Equal(t, 10, before.Analysis.MinBound, "a reload must not modify earlier snapshots")
	case <-time.After(5 * time.Second):
		t.Skip("file watcher did not fire in time on this platform")
	}
}
