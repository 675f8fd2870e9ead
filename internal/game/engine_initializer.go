package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/mitchelldurbincs/CoinNim/internal/game/positions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/rules"
	"github.com/mitchelldurbincs/CoinNim/internal/game/states"
	"github.com/rs/zerolog"
)

// EngineConfig is everything an EngineInitializer needs.
type EngineConfig struct {
	Game config.GameConfig

	// Catalog defaults to restrictions.DefaultCatalog.
	Catalog *restrictions.Catalog

	// GameID defaults to a random UUID.
	GameID string

	// MinBound is the smallest position table computed. Zero selects
	// positions.MinAnalysisBound.
	MinBound int

	Options Options
	Logger  zerolog.Logger

	// EventBus defaults to a fresh bus.
	EventBus *events.EventBus
}

// EngineInitializer handles the construction of a game engine
type EngineInitializer struct {
	config EngineConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg EngineConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// NewEngine is a shortcut for NewEngineInitializer(cfg).Initialize.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Initialize validates the configuration and creates a started engine.
// Configuration problems wrap config.ErrInvalidConfig and no engine is
// created.
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	gameCfg := ei.config.Game.Normalized()
	if err := gameCfg.Validate(); err != nil {
		return nil, err
	}

	enabled, err := ResolveRestrictions(ei.config.Catalog, gameCfg.Restrictions)
	if err != nil {
		return nil, err
	}

	engine := ei.createEngine(gameCfg, enabled)

	if err := engine.start(); err != nil {
		return nil, fmt.Errorf("starting game: %w", err)
	}

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Ints("piles", gameCfg.Piles).
		Ints("allowed", gameCfg.AllowedMoves).
		Str("player1", string(gameCfg.Player1)).
		Str("player2", string(gameCfg.Player2)).
		Int("restrictions", len(enabled)).
		Int("table_size", engine.table.Len()).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in missing construction parameters
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Catalog == nil {
		ei.config.Catalog = restrictions.DefaultCatalog()
	}
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	if ei.config.MinBound <= 0 {
		ei.config.MinBound = positions.MinAnalysisBound
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBusWithLogger(ei.logger)
	}
}

// tableBound is the larger of the biggest pile and the configured floor.
func (ei *EngineInitializer) tableBound(piles []int) int {
	bound := core.Piles(piles).Max()
	if bound < ei.config.MinBound {
		bound = ei.config.MinBound
	}
	return bound
}

// createEngine wires the engine and its collaborators
func (ei *EngineInitializer) createEngine(gameCfg config.GameConfig, enabled []restrictions.Enabled) *Engine {
	logger := ei.logger.With().Str("game_id", ei.config.GameID).Logger()

	gameContext := states.NewGameContext(ei.config.GameID, ei.logger)
	stateMachine := states.NewStateMachine(gameContext, ei.config.EventBus)

	manager := NewStateManager(ei.config.Catalog, logger)

	engine := &Engine{
		gameID:       ei.config.GameID,
		cfg:          gameCfg,
		enabled:      enabled,
		table:        positions.Compute(ei.tableBound(gameCfg.Piles), gameCfg.AllowedMoves),
		catalog:      ei.config.Catalog,
		legalMoves:   rules.NewLegalMoveCalculator(ei.config.Catalog),
		manager:      manager,
		eventBus:     ei.config.EventBus,
		stateMachine: stateMachine,
		options:      ei.config.Options,
		logger:       logger,
	}
	engine.state = manager.Initialize(gameCfg, enabled)
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}
