package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

// Memory is a process-local ConfigStore.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry), now: time.Now}
}

func (m *Memory) Save(ctx context.Context, name string, cfg config.GameConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	stored, err := cloneConfig(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return ErrClosed
	}
	m.entries[name] = Entry{Name: name, Config: stored, UpdatedAt: m.now().UTC()}
	return nil
}

func (m *Memory) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return nil, ErrClosed
	}

	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		cfg, err := cloneConfig(e.Config)
		if err != nil {
			return nil, err
		}
		e.Config = cfg
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) Load(ctx context.Context, name string) (config.GameConfig, error) {
	if err := ctx.Err(); err != nil {
		return config.GameConfig{}, err
	}
	name, err := cleanName(name)
	if err != nil {
		return config.GameConfig{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entries == nil {
		return config.GameConfig{}, ErrClosed
	}
	e, ok := m.entries[name]
	if !ok {
		return config.GameConfig{}, ErrNotFound
	}
	return cloneConfig(e.Config)
}

func (m *Memory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return ErrClosed
	}
	delete(m.entries, name)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

var _ ConfigStore = (*Memory)(nil)
