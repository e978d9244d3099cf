package engine

// Color identifies a side. The zero value means "no color" (an empty cell).
type Color string

const (
	NoColor Color = ""
	Red     Color = "red"
	White   Color = "white"

	// Validation constants
	MinBoardSize    = 3
	MaxBoardSize    = 12
	MinInitialStash = 1
	LineLength      = 3

	ClassicBoardSize    = 6
	ClassicInitialStash = 8
)

// Colors lists both sides in seat order.
var Colors = [2]Color{Red, White}

// Valid reports whether c is one of the two playing colors.
func (c Color) Valid() bool {
	return c == Red || c == White
}

// Opponent returns the other playing color.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return White
	case White:
		return Red
	default:
		return NoColor
	}
}

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Stash holds the number of unplaced pawns per color
type Stash struct {
	Red   int `json:"red"`
	White int `json:"white"`
}

// Get returns the count for a color
func (s Stash) Get(c Color) int {
	switch c {
	case Red:
		return s.Red
	case White:
		return s.White
	default:
		return 0
	}
}

// Add adjusts the count for a color by delta
func (s *Stash) Add(c Color, delta int) {
	switch c {
	case Red:
		s.Red += delta
	case White:
		s.White += delta
	}
}

// GameState represents the complete rules state of one game
type GameState struct {
	Board  *Board `json:"board"`
	Stash  Stash  `json:"stash"`
	Turn   Color  `json:"currentPlayer"`
	Winner *Color `json:"winner"`
}

// NewGameState creates the initial state for the given rules: empty board,
// full stashes, red to move.
func NewGameState(rules Rules) *GameState {
	return &GameState{
		Board: NewBoard(rules.BoardSize),
		Stash: Stash{Red: rules.InitialStash, White: rules.InitialStash},
		Turn:  Red,
	}
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	clone := &GameState{
		Board: gs.Board.Clone(),
		Stash: gs.Stash,
		Turn:  gs.Turn,
	}
	if gs.Winner != nil {
		w := *gs.Winner
		clone.Winner = &w
	}
	return clone
}

// IsGameOver returns whether a winner has been decided
func (gs *GameState) IsGameOver() bool {
	return gs.Winner != nil
}
