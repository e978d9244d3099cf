package engine

// Direction is one of the eight compass steps around a cell
type Direction struct {
	Name string
	DRow int
	DCol int
}

// Directions lists the eight compass directions a placement pushes along
var Directions = [8]Direction{
	{"N", -1, 0},
	{"S", 1, 0},
	{"W", 0, -1},
	{"E", 0, 1},
	{"NW", -1, -1},
	{"NE", -1, 1},
	{"SW", 1, -1},
	{"SE", 1, 1},
}

// Push records how one adjacent pawn reacted to a placement. To is nil when
// the pawn was shoved off the board.
type Push struct {
	Direction string    `json:"direction"`
	Color     Color     `json:"color"`
	From      Position  `json:"from"`
	To        *Position `json:"to,omitempty"`
	OffBoard  bool      `json:"off_board"`
}

// planPushes decides, for every direction independently, what happens to the
// pawn directly adjacent to (row, col). Every decision reads the board as it
// is before any push is applied; blocked pawns produce no entry.
func planPushes(b *Board, row, col int) []Push {
	var pushes []Push

	for _, d := range Directions {
		adjRow, adjCol := row+d.DRow, col+d.DCol
		occupant := b.Get(adjRow, adjCol)
		if occupant == NoColor {
			continue
		}

		nextRow, nextCol := adjRow+d.DRow, adjCol+d.DCol
		from := Position{Row: adjRow, Col: adjCol}

		switch {
		case !b.InBounds(nextRow, nextCol):
			pushes = append(pushes, Push{Direction: d.Name, Color: occupant, From: from, OffBoard: true})
		case b.IsEmpty(nextRow, nextCol):
			to := Position{Row: nextRow, Col: nextCol}
			pushes = append(pushes, Push{Direction: d.Name, Color: occupant, From: from, To: &to})
		}
	}

	return pushes
}

// applyPushes carries out planned pushes. Landing cells are two steps away
// from the placement in distinct directions, so no two pushes touch the same
// cell and application order does not matter.
func applyPushes(b *Board, stash *Stash, pushes []Push) {
	for _, p := range pushes {
		b.Set(p.From.Row, p.From.Col, NoColor)
		if p.OffBoard {
			stash.Add(p.Color, 1)
			continue
		}
		b.Set(p.To.Row, p.To.Col, p.Color)
	}
}
