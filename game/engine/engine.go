package engine

import (
	"errors"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrOutOfBounds  = errors.New("cell out of bounds")
	ErrCellOccupied = errors.New("cell occupied")
	ErrStashEmpty   = errors.New("stash empty")
	ErrNotYourTurn  = errors.New("not your turn")
)

// Result is the outcome of an accepted placement
type Result struct {
	State  *GameState `json:"state"`
	Placed Position   `json:"placed"`
	Color  Color      `json:"color"`
	Pushes []Push     `json:"pushes,omitempty"`
	Winner *Color     `json:"winner,omitempty"`
}

// Validate runs the placement preconditions in order without changing state
func Validate(state *GameState, row, col int, acting Color) error {
	if state.IsGameOver() {
		return ErrGameOver
	}
	if !state.Board.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if !state.Board.IsEmpty(row, col) {
		return ErrCellOccupied
	}
	if state.Stash.Get(acting) <= 0 {
		return ErrStashEmpty
	}
	if acting != state.Turn {
		return ErrNotYourTurn
	}
	return nil
}

// ResolvePlacement places a pawn of the acting color at (row, col) and
// returns the fully resolved next state: placement, pushes, win check and
// turn change. The input state is never modified; on error it is the only
// state there is.
func ResolvePlacement(state *GameState, row, col int, acting Color) (*Result, error) {
	if err := Validate(state, row, col, acting); err != nil {
		return nil, err
	}

	next := state.Clone()
	next.Board.Set(row, col, acting)
	next.Stash.Add(acting, -1)

	pushes := planPushes(next.Board, row, col)
	applyPushes(next.Board, &next.Stash, pushes)

	result := &Result{
		State:  next,
		Placed: Position{Row: row, Col: col},
		Color:  acting,
		Pushes: pushes,
	}

	if winner, ok := decideWinner(next, acting); ok {
		next.Winner = &winner
		result.Winner = &winner
	} else {
		next.Turn = acting.Opponent()
	}

	return result, nil
}

// PossibleMoves returns every cell the color to move may place on
func PossibleMoves(state *GameState) []Position {
	var moves []Position
	for r := 0; r < state.Board.Size(); r++ {
		for c := 0; c < state.Board.Size(); c++ {
			if Validate(state, r, c, state.Turn) == nil {
				moves = append(moves, Position{Row: r, Col: c})
			}
		}
	}
	return moves
}
