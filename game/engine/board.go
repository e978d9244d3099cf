package engine

import (
	"encoding/json"
	"fmt"
)

// Board is a fixed size square grid of cells. A cell holds NoColor when
// empty. Dimensions never change after NewBoard.
type Board struct {
	size  int
	cells [][]Color
}

// NewBoard creates a board with every cell empty
func NewBoard(size int) *Board {
	cells := make([][]Color, size)
	for r := range cells {
		cells[r] = make([]Color, size)
	}
	return &Board{size: size, cells: cells}
}

// Size returns the number of rows (and columns)
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Get returns the occupant of a cell; out of bounds cells read as empty
func (b *Board) Get(row, col int) Color {
	if !b.InBounds(row, col) {
		return NoColor
	}
	return b.cells[row][col]
}

// Set stores an occupant (or NoColor to clear). It returns false and does
// nothing when the cell is out of bounds.
func (b *Board) Set(row, col int, c Color) bool {
	if !b.InBounds(row, col) {
		return false
	}
	b.cells[row][col] = c
	return true
}

// IsEmpty reports whether an on-board cell is unoccupied
func (b *Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.cells[row][col] == NoColor
}

// Count returns how many cells the given color occupies
func (b *Board) Count(c Color) int {
	n := 0
	for _, row := range b.cells {
		for _, cell := range row {
			if cell == c {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	clone := NewBoard(b.size)
	for r := range b.cells {
		copy(clone.cells[r], b.cells[r])
	}
	return clone
}

// Equal reports whether two boards have the same size and occupants
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.size != other.size {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the board as rows of cells, each null or a color name
func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Color, b.size)
	for r := range b.cells {
		rows[r] = make([]*Color, b.size)
		for c, cell := range b.cells[r] {
			if cell != NoColor {
				occupant := cell
				rows[r][c] = &occupant
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes the row format produced by MarshalJSON
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Color
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	size := len(rows)
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("board has %d rows, want %d to %d", size, MinBoardSize, MaxBoardSize)
	}
	board := NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return fmt.Errorf("board row %d has %d cells, want %d", r, len(row), size)
		}
		for c, cell := range row {
			if cell == nil {
				continue
			}
			if !cell.Valid() {
				return fmt.Errorf("board cell (%d,%d): invalid color %q", r, c, *cell)
			}
			board.cells[r][c] = *cell
		}
	}

	*b = *board
	return nil
}

// String renders the board with R, W and . for debugging and tooling
func (b *Board) String() string {
	out := make([]byte, 0, b.size*(b.size+1))
	for _, row := range b.cells {
		for _, cell := range row {
			switch cell {
			case Red:
				out = append(out, 'R')
			case White:
				out = append(out, 'W')
			default:
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
