package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

// Open returns the backend cfg selects.
func Open(cfg config.StoreConfig, logger zerolog.Logger) (ConfigStore, error) {
	logger = logger.With().Str("component", "Store").Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case config.BackendMemory:
		logger.Debug().Msg("Using in-memory configuration store")
		return NewMemory(), nil
	case config.BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.Path).Msg("Opened SQLite configuration store")
		return s, nil
	case config.BackendBadger:
		b, err := OpenBadger(BadgerOptions{Path: cfg.Path, Logger: &logger})
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.Path).Msg("Opened Badger configuration store")
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
