package game

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
	"github.com/mitchelldurbincs/CoinNim/internal/game/restrictions"
	"github.com/mitchelldurbincs/CoinNim/internal/game/rules"
	"github.com/rs/zerolog"
)

// StateManager produces game state snapshots. It never modifies a snapshot
// it is handed.
type StateManager struct {
	catalog *restrictions.Catalog
	win     *rules.WinConditionChecker
	logger  zerolog.Logger
}

// NewStateManager creates a state manager validating against catalog.
func NewStateManager(catalog *restrictions.Catalog, logger zerolog.Logger) *StateManager {
	logger = logger.With().Str("component", "StateManager").Logger()
	return &StateManager{
		catalog: catalog,
		win:     rules.NewWinConditionChecker(logger, rules.NewLegalMoveCalculator(catalog)),
		logger:  logger,
	}
}

// Initialize builds the opening snapshot: player 1 to move, empty history,
// no winner. A position with no legal move is game over at once and has no
// winner because nobody moved.
func (sm *StateManager) Initialize(cfg config.GameConfig, enabled []restrictions.Enabled) GameState {
	cfg = cfg.Normalized()
	state := GameState{
		Piles:         core.Piles(cfg.Piles).Clone(),
		InitialPiles:  core.Piles(cfg.Piles).Clone(),
		Allowed:       cfg.AllowedMoves,
		CurrentPlayer: core.Player1,
		Winner:        core.NoPlayer,
		History:       []core.MoveRecord{},
		Restrictions:  append([]restrictions.Enabled(nil), enabled...),
		Player1:       cfg.Player1,
		Player2:       cfg.Player2,
		TimeLimit:     time.Duration(cfg.TimeLimit) * time.Second,
	}

	gameOver, hasMoves, _ := sm.win.CheckGameOver(state.View(), state.Restrictions, core.NoPlayer)
	state.GameOver = gameOver
	state.HasValidMoves = hasMoves

	sm.logger.Debug().
		Ints("piles", state.Piles).
		Ints("allowed", state.Allowed).
		Bool("has_valid_moves", hasMoves).
		Msg("Game state initialized")
	return state
}

// Reset discards whatever state exists and starts over from cfg.
func (sm *StateManager) Reset(cfg config.GameConfig, enabled []restrictions.Enabled) GameState {
	return sm.Initialize(cfg, enabled)
}

// Apply validates rec against state and returns the successor snapshot.
// rec.Player defaults to the player to move. Errors leave state untouched:
// core.ErrGameOver after the end, core.ErrInvalidPlayer out of turn and
// core.ErrMoveRejected wrapping the validator's sentinel otherwise.
func (sm *StateManager) Apply(state GameState, rec core.MoveRecord) (GameState, error) {
	if rec.Player == core.NoPlayer {
		rec.Player = state.CurrentPlayer
	}
	if state.GameOver {
		return state, core.WrapMoveError(rec.Player, rec.Move, core.ErrGameOver)
	}
	if rec.Player != state.CurrentPlayer {
		return state, core.WrapMoveError(rec.Player, rec.Move, core.ErrInvalidPlayer)
	}

	result := rules.ValidateMove(state.View(), rec.Move, sm.catalog, state.Restrictions)
	if !result.Valid {
		return state, core.WrapMoveError(rec.Player, rec.Move, fmt.Errorf("%w: %w", core.ErrMoveRejected, result.Error()))
	}
	if rec.Strategy == "" {
		rec.Strategy = state.Strategy(rec.Player)
	}

	next := state.clone()
	next.Piles = state.Piles.After(rec.Move)
	next.History = append(next.History, rec)
	last := rec
	next.LastMove = &last
	next.CurrentPlayer = rec.Player.Opponent()

	gameOver, hasMoves, winner := sm.win.CheckGameOver(next.View(), next.Restrictions, rec.Player)
	next.GameOver = gameOver
	next.HasValidMoves = hasMoves
	next.Winner = winner

	sm.logger.Debug().
		Int("turn", len(next.History)).
		Int("player", int(rec.Player)).
		Str("move", rec.Move.String()).
		Ints("piles_after", next.Piles).
		Bool("game_over", gameOver).
		Msg("Move applied")
	return next, nil
}

// InitializeGameState builds the opening snapshot for cfg.
func InitializeGameState(cfg config.GameConfig, catalog *restrictions.Catalog, enabled []restrictions.Enabled) GameState {
	return NewStateManager(catalog, zerolog.Nop()).Initialize(cfg, enabled)
}

// ApplyMove validates and applies move for the player to move.
func ApplyMove(state GameState, move core.Move, catalog *restrictions.Catalog) (GameState, error) {
	return NewStateManager(catalog, zerolog.Nop()).Apply(state, core.MoveRecord{Move: move})
}

// ResolveRestrictions turns configured restriction settings into enabled
// entries, decoding each config with its restriction.
func ResolveRestrictions(catalog *restrictions.Catalog, settings []config.RestrictionSetting) ([]restrictions.Enabled, error) {
	enabled := make([]restrictions.Enabled, 0, len(settings))
	for _, s := range settings {
		e, err := catalog.Enable(s.ID, s.Config)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
		enabled = append(enabled, e)
	}
	return enabled, nil
}
