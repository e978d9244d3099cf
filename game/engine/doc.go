// Package engine provides the core game logic for Berserker.
//
// The engine package implements the game mechanics including:
//   - The fixed-size board model and its accessors
//   - Pawn placement from each color's stash
//   - Single-step push resolution in all eight compass directions
//   - Win detection (stash exhaustion, then line-of-three)
//   - Rule presets (board size and initial stash) and their validation
//
// Core Types:
//
// Board is the N×N grid of cells. GameState aggregates the board, both
// stashes, the color to move and the winner. ResolvePlacement is the pure
// rules function: it takes a state and a proposed placement and returns a
// new, fully resolved state or one of the rejection errors.
//
// Usage:
//
//	state := engine.NewGameState(engine.DefaultRules())
//
//	result, err := engine.ResolvePlacement(state, 2, 2, engine.Red)
//	if err != nil {
//		// ErrGameOver, ErrOutOfBounds, ErrCellOccupied, ErrStashEmpty, ErrNotYourTurn
//		return err
//	}
//	state = result.State
//
// Game Rules:
//
// Players alternate placing pawns from their stash onto empty cells. A
// placed pawn shoves every directly adjacent pawn one step away from it if
// the landing cell is empty; pawns shoved off the edge go back to their
// owner's stash. A player wins by placing their last pawn, or when three
// pawns of one color stand in a row, column or diagonal.
package engine
