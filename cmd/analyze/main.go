// Command analyze replays game transcripts and prints what happened on every
// placement: the pushes it caused, pawns returned to a stash, the board after
// the move, and the final outcome. A transcript is a YAML file:
//
//	rules:            # optional, the classic preset when omitted
//	  name: blitz
//	  board_size: 5
//	  initial_stash: 5
//	moves:
//	  - {row: 2, col: 2}
//	  - {row: 4, col: 0}
//
// Colors alternate starting with red, exactly as the server plays them.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/berserker/game/engine"
)

// Transcript is a recorded game: the rules it was played with and the
// placements in order.
type Transcript struct {
	Rules *engine.Rules     `yaml:"rules"`
	Moves []engine.Position `yaml:"moves"`
}

// Summary aggregates a replayed transcript
type Summary struct {
	Moves    int
	Pushes   int
	OffBoard int
	Winner   *engine.Color
	Stash    engine.Stash
	Final    *engine.GameState
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: analyze <transcript.yaml> [...]")
		os.Exit(2)
	}

	failed := false
	for _, path := range os.Args[1:] {
		fmt.Printf("\n=== Analyzing %s ===\n", path)
		if _, err := analyzeFile(os.Stdout, path); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// loadTranscript reads and validates a transcript file
func loadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}

	if t.Rules == nil {
		rules := engine.DefaultRules()
		t.Rules = &rules
	}
	if err := engine.ValidateRules(t.Rules); err != nil {
		return nil, err
	}
	return &t, nil
}

func analyzeFile(w io.Writer, path string) (*Summary, error) {
	t, err := loadTranscript(path)
	if err != nil {
		return nil, err
	}
	return replay(w, t)
}

// replay plays every move of the transcript, printing each step. It stops at
// the first rejected move; moves recorded after the game ended are rejected
// too.
func replay(w io.Writer, t *Transcript) (*Summary, error) {
	fmt.Fprintf(w, "Rules: %s (%dx%d, %d pawns each)\n",
		t.Rules.Name, t.Rules.BoardSize, t.Rules.BoardSize, t.Rules.InitialStash)

	state := engine.NewGameState(*t.Rules)
	summary := &Summary{}

	for i, move := range t.Moves {
		acting := state.Turn
		result, err := engine.ResolvePlacement(state, move.Row, move.Col, acting)
		if err != nil {
			return nil, fmt.Errorf("move %d %s (%d,%d): %w", i+1, acting, move.Row, move.Col, err)
		}

		summary.Moves++
		fmt.Fprintf(w, "\n%d. %s places at (%d,%d)\n", i+1, acting, move.Row, move.Col)
		for _, p := range result.Pushes {
			summary.Pushes++
			if p.OffBoard {
				summary.OffBoard++
				fmt.Fprintf(w, "   %s pawn at (%d,%d) pushed %s off the board, back to stash\n",
					p.Color, p.From.Row, p.From.Col, p.Direction)
			} else {
				fmt.Fprintf(w, "   %s pawn pushed %s from (%d,%d) to (%d,%d)\n",
					p.Color, p.Direction, p.From.Row, p.From.Col, p.To.Row, p.To.Col)
			}
		}
		fmt.Fprint(w, indent(result.State.Board.String()))
		fmt.Fprintf(w, "   stash red=%d white=%d\n", result.State.Stash.Red, result.State.Stash.White)

		state = result.State
	}

	summary.Winner = state.Winner
	summary.Stash = state.Stash
	summary.Final = state

	fmt.Fprintf(w, "\nMoves: %d, pushes: %d (%d off the board)\n", summary.Moves, summary.Pushes, summary.OffBoard)
	if state.Winner != nil {
		fmt.Fprintf(w, "✅ %s wins\n", *state.Winner)
	} else {
		fmt.Fprintf(w, "Game in progress, %s to move (%d legal placements)\n",
			state.Turn, len(engine.PossibleMoves(state)))
	}
	return summary, nil
}

func indent(board string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(board, "\n"), "\n") {
		b.WriteString("   ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
