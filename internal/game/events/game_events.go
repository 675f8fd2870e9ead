package events

import (
	"time"

	"github.com/mitchelldurbincs/CoinNim/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted     = "game.started"
	TypeGameEnded       = "game.ended"
	TypeMoveApplied     = "move.applied"
	TypeMoveRejected    = "move.rejected"
	TypeStrategyFailed  = "strategy.failed"
	TypeStateTransition = "state.transition"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	Piles           []int
	Allowed         []int
	Player1Strategy core.StrategyKind
	Player2Strategy core.StrategyKind
	Restrictions    []string
}

func NewGameStartedEvent(gameID string, piles, allowed []int, p1, p2 core.StrategyKind, restrictionIDs []string) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:       newBase(TypeGameStarted, gameID),
		Piles:           append([]int(nil), piles...),
		Allowed:         append([]int(nil), allowed...),
		Player1Strategy: p1,
		Player2Strategy: p2,
		Restrictions:    restrictionIDs,
	}
}

// GameEndedEvent is published when the player to move has no legal move.
// Winner is core.NoPlayer when the game ended before anyone moved.
type GameEndedEvent struct {
	BaseEvent
	Winner   core.Player
	Moves    int
	Duration time.Duration
}

func NewGameEndedEvent(gameID string, winner core.Player, moves int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID),
		Winner:    winner,
		Moves:     moves,
		Duration:  duration,
	}
}

// MoveAppliedEvent is published after a validated move changes the piles.
type MoveAppliedEvent struct {
	BaseEvent
	Turn       int
	Record     core.MoveRecord
	PilesAfter []int
}

func NewMoveAppliedEvent(gameID string, turn int, record core.MoveRecord, pilesAfter []int) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent:  newBase(TypeMoveApplied, gameID),
		Turn:       turn,
		Record:     record,
		PilesAfter: append([]int(nil), pilesAfter...),
	}
}

// MoveRejectedEvent is published when a proposed move fails validation.
type MoveRejectedEvent struct {
	BaseEvent
	Player core.Player
	Move   core.Move
	Reason string
}

func NewMoveRejectedEvent(gameID string, player core.Player, move core.Move, reason string) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID),
		Player:    player,
		Move:      move,
		Reason:    reason,
	}
}

// StrategyFailedEvent is published when a custom strategy errors out and
// the automated loop halts.
type StrategyFailedEvent struct {
	BaseEvent
	Player core.Player
	Stage  string
	Error  string
}

func NewStrategyFailedEvent(gameID string, player core.Player, stage string, err error) *StrategyFailedEvent {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &StrategyFailedEvent{
		BaseEvent: newBase(TypeStrategyFailed, gameID),
		Player:    player,
		Stage:     stage,
		Error:     msg,
	}
}

// StateTransitionEvent is published when the game changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromState string
	ToState   string
	Reason    string
}

func NewStateTransitionEvent(gameID, from, to, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromState: from,
		ToState:   to,
		Reason:    reason,
	}
}
