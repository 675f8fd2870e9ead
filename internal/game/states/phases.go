package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseSetup - Configuration accepted, no move made yet
	PhaseSetup GamePhase = iota

	// PhaseInProgress - Players are taking turns
	PhaseInProgress

	// PhaseGameOver - The player to move has no legal move
	PhaseGameOver

	// PhaseHalted - An automated strategy failed and the loop stopped
	PhaseHalted
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseInProgress:
		return "InProgress"
	case PhaseGameOver:
		return "GameOver"
	case PhaseHalted:
		return "Halted"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further moves can be applied in this phase
func (p GamePhase) IsTerminal() bool {
	return p == PhaseGameOver || p == PhaseHalted
}

// CanReceiveMoves returns true if moves may be applied in this phase
func (p GamePhase) CanReceiveMoves() bool {
	return p == PhaseSetup || p == PhaseInProgress
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseSetup:
		return []GamePhase{PhaseInProgress, PhaseGameOver, PhaseHalted}
	case PhaseInProgress:
		return []GamePhase{PhaseGameOver, PhaseHalted, PhaseSetup}
	case PhaseGameOver:
		return []GamePhase{PhaseSetup}
	case PhaseHalted:
		return []GamePhase{PhaseSetup}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) GamePhase {
	switch s {
	case "InProgress":
		return PhaseInProgress
	case "GameOver":
		return PhaseGameOver
	case "Halted":
		return PhaseHalted
	default:
		return PhaseSetup
	}
}
