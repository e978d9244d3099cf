package engine

import (
	"testing"
)

// boardFromRows builds a board from rows of 'R', 'W' and '.' characters.
func boardFromRows(t *testing.T, rows ...string) *Board {
	t.Helper()
	b := NewBoard(len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			t.Fatalf("row %d has %d cells, want %d", r, len(row), len(rows))
		}
		for c, ch := range row {
			switch ch {
			case 'R':
				b.Set(r, c, Red)
			case 'W':
				b.Set(r, c, White)
			case '.':
			default:
				t.Fatalf("invalid cell %q at (%d,%d)", ch, r, c)
			}
		}
	}
	return b
}

// stateFromRows builds a classic-rules state whose stashes are consistent
// with the pawns already on the board.
func stateFromRows(t *testing.T, turn Color, rows ...string) *GameState {
	t.Helper()
	b := boardFromRows(t, rows...)
	return &GameState{
		Board: b,
		Stash: Stash{
			Red:   ClassicInitialStash - b.Count(Red),
			White: ClassicInitialStash - b.Count(White),
		},
		Turn: turn,
	}
}

func assertConservation(t *testing.T, state *GameState, initial int) {
	t.Helper()
	for _, c := range Colors {
		if got := state.Stash.Get(c) + state.Board.Count(c); got != initial {
			t.Errorf("Expected %s stash+board to be %d, got %d (stash=%d board=%d)",
				c, initial, got, state.Stash.Get(c), state.Board.Count(c))
		}
	}
}

func assertStatesEqual(t *testing.T, want, got *GameState) {
	t.Helper()
	if !want.Board.Equal(got.Board) {
		t.Errorf("Expected board\n%s\ngot\n%s", want.Board, got.Board)
	}
	if want.Stash != got.Stash {
		t.Errorf("Expected stash %+v, got %+v", want.Stash, got.Stash)
	}
	if want.Turn != got.Turn {
		t.Errorf("Expected turn %s, got %s", want.Turn, got.Turn)
	}
	if (want.Winner == nil) != (got.Winner == nil) || (want.Winner != nil && *want.Winner != *got.Winner) {
		t.Errorf("Expected winner %v, got %v", want.Winner, got.Winner)
	}
}
