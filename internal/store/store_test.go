package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/testutil"
)

func sampleConfig() config.GameConfig {
	cfg := testutil.GameConfig([]int{21, 10}, []int{1, 3, 4}, core.StrategyOptimal, core.StrategyCustom)
	cfg.TimeLimit = 30
	cfg.Player2Script = "function strategy(state) return nil end"
	cfg.Restrictions = []config.RestrictionSetting{
		{ID: "maxCoinsInRow", Config: map[string]any{"maxCoins": float64(2)}},
	}
	return cfg
}

func backends(t *testing.T) map[string]func(t *testing.T) ConfigStore {
	return map[string]func(t *testing.T) ConfigStore{
		"memory": func(t *testing.T) ConfigStore {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) ConfigStore {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "configs.db"))
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) ConfigStore {
			b, err := OpenBadger(BadgerOptions{InMemory: true})
			require.NoError(t, err)
			return b
		},
	}
}

func TestConfigStore(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("load missing", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				_, err := s.Load(ctx, "nope")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("save and load", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				want := sampleConfig()
				require.NoError(t, s.Save(ctx, "classic", want))

				got, err := s.Load(ctx, "classic")
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})

			t.Run("save overwrites", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				require.NoError(t, s.Save(ctx, "cfg", sampleConfig()))
				replacement := testutil.ClassicConfig(core.StrategyGreedy, core.StrategyHuman)
				require.NoError(t, s.Save(ctx, "cfg", replacement))

				got, err := s.Load(ctx, "cfg")
				require.NoError(t, err)
				assert.Equal(t, replacement, got)

				entries, err := s.List(ctx)
				require.NoError(t, err)
				assert.Len(t, entries, 1)
			})

			t.Run("list sorted by name", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				for _, n := range []string{"zeta", "alpha", "mid"} {
					require.NoError(t, s.Save(ctx, n, sampleConfig()))
				}

				entries, err := s.List(ctx)
				require.NoError(t, err)
				require.Len(t, entries, 3)
				assert.Equal(t, "alpha", entries[0].Name)
				assert.Equal(t, "mid", entries[1].Name)
				assert.Equal(t, "zeta", entries[2].Name)
				for _, e := range entries {
					assert.Equal(t, sampleConfig(), e.Config)
					assert.False(t, e.UpdatedAt.IsZero())
				}
			})

			t.Run("delete", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				require.NoError(t, s.Save(ctx, "gone", sampleConfig()))
				require.NoError(t, s.Delete(ctx, "gone"))

				_, err := s.Load(ctx, "gone")
				assert.ErrorIs(t, err, ErrNotFound)

				// Deleting an unknown name is not an error.
				assert.NoError(t, s.Delete(ctx, "gone"))
			})

			t.Run("names are trimmed and required", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				assert.ErrorIs(t, s.Save(ctx, "  ", sampleConfig()), ErrInvalidName)
				require.NoError(t, s.Save(ctx, " padded ", sampleConfig()))
				_, err := s.Load(ctx, "padded")
				assert.NoError(t, err)
			})

			t.Run("cancelled context", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				cctx, cancel := context.WithCancel(ctx)
				cancel()
				assert.ErrorIs(t, s.Save(cctx, "x", sampleConfig()), context.Canceled)
				_, err := s.List(cctx)
				assert.ErrorIs(t, err, context.Canceled)
			})
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	cfg := sampleConfig()
	require.NoError(t, s.Save(ctx, "cfg", cfg))
	cfg.Piles[0] = 99

	got, err := s.Load(ctx, "cfg")
	require.NoError(t, err)
	assert.Equal(t, 21, got.Piles[0])

	got.Piles[0] = 7
	again, err := s.Load(ctx, "cfg")
	require.NoError(t, err)
	assert.Equal(t, 21, again.Piles[0])
}

func TestMemoryClosed(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Save(context.Background(), "x", sampleConfig()), ErrClosed)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "configs.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "kept", sampleConfig()))
	require.NoError(t, s.Close())

	// Reopening must not re-run the migration.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}

func TestSQLiteUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "configs.db"))
	require.NoError(t, err)
	defer s.Close()

	fixed := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	require.NoError(t, s.Save(ctx, "dated", sampleConfig()))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fixed, entries[0].UpdatedAt)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, "kept", sampleConfig()))
	require.NoError(t, b.Close())

	b, err = OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerOptions{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StoreConfig{Backend: config.BackendMemory}},
		{name: "sqlite", cfg: config.StoreConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "a.db")}},
		{name: "badger", cfg: config.StoreConfig{Backend: config.BackendBadger, Path: filepath.Join(dir, "badger")}},
		{name: "unknown", cfg: config.StoreConfig{Backend: "redis"}, wantErr: true},
		{name: "sqlite without path", cfg: config.StoreConfig{Backend: config.BackendSQLite}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
