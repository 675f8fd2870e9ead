package core

import "fmt"

// Move removes CoinsToTake coins from the pile at PileIndex.
type Move struct {
	PileIndex   int `json:"pileIndex"`
	CoinsToTake int `json:"coinsToTake"`
}

func (m Move) String() string {
	return fmt.Sprintf("take %d from pile %d", m.CoinsToTake, m.PileIndex)
}

// MoveRecord is a history entry: the move plus who made it and how it was
// chosen.
type MoveRecord struct {
	Move
	Player   Player       `json:"player"`
	Strategy StrategyKind `json:"strategy,omitempty"`
	TimedOut bool         `json:"timeout,omitempty"`
}

// Player identifies a seat. Only 1 and 2 are valid.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Opponent returns the other seat.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) Valid() bool { return p == Player1 || p == Player2 }

func (p Player) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "nobody"
	}
}

// View is the read-only slice of game state that rules, restrictions and
// custom strategies look at.
type View struct {
	Piles         Piles
	Allowed       []int
	CurrentPlayer Player
	LastMove      *MoveRecord
	History       []MoveRecord
}
