package engine

// lineOrientations is the scan order for line-of-three detection:
// horizontal, vertical, diagonal down-right, diagonal down-left.
var lineOrientations = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// FindLine scans the board row-major and returns the color of the first
// LineLength run found, trying each orientation from every occupied cell.
func FindLine(b *Board) (Color, bool) {
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			color := b.Get(r, c)
			if color == NoColor {
				continue
			}
			for _, o := range lineOrientations {
				if hasLine(b, r, c, o[0], o[1], color) {
					return color, true
				}
			}
		}
	}
	return NoColor, false
}

func hasLine(b *Board, row, col, dRow, dCol int, color Color) bool {
	for i := 0; i < LineLength; i++ {
		if b.Get(row+dRow*i, col+dCol*i) != color {
			return false
		}
	}
	return true
}

// decideWinner applies the win conditions in priority order: the mover
// emptying their stash first, then any line on the board.
func decideWinner(state *GameState, mover Color) (Color, bool) {
	if state.Stash.Get(mover) == 0 {
		return mover, true
	}
	return FindLine(state.Board)
}
