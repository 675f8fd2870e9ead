package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

const badgerPrefix = "config/"

// Badger persists configurations in an embedded Badger key-value store.
type Badger struct {
	db  *badger.DB
	now func() time.Time
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	Logger   *zerolog.Logger
}

// badgerRecord is the stored value.
type badgerRecord struct {
	Config    config.GameConfig `json:"config"`
	UpdatedAt int64             `json:"updatedAt"`
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

// OpenBadger opens (or creates) a Badger-backed store.
func OpenBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", opts.Path, err)
		}
		bopts = badger.DefaultOptions(opts.Path).WithSyncWrites(true)
	}
	bopts = bopts.WithNumVersionsToKeep(1)

	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{logger: opts.Logger.With().Str("component", "Badger").Logger()})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Badger{db: db, now: time.Now}, nil
}

func (b *Badger) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Badger) Save(ctx context.Context, name string, cfg config.GameConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(badgerRecord{Config: cfg, UpdatedAt: toMillis(b.now())})
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("save configuration %q: %w", name, err)
	}
	return nil
}

func (b *Badger) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Entry
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Keys iterate in byte order, which is name order.
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), badgerPrefix)
			var rec badgerRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("configuration %q: %w", name, err)
			}
			out = append(out, Entry{Name: name, Config: rec.Config, UpdatedAt: fromMillis(rec.UpdatedAt)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return out, nil
}

func (b *Badger) Load(ctx context.Context, name string) (config.GameConfig, error) {
	if err := ctx.Err(); err != nil {
		return config.GameConfig{}, err
	}
	name, err := cleanName(name)
	if err != nil {
		return config.GameConfig{}, err
	}

	var rec badgerRecord
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return config.GameConfig{}, ErrNotFound
	}
	if err != nil {
		return config.GameConfig{}, fmt.Errorf("load configuration %q: %w", name, err)
	}
	return rec.Config, nil
}

func (b *Badger) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(name))
	})
	if err != nil {
		return fmt.Errorf("delete configuration %q: %w", name, err)
	}
	return nil
}

func badgerKey(name string) []byte {
	return []byte(badgerPrefix + name)
}

var _ ConfigStore = (*Badger)(nil)
