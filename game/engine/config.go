package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is a rule preset: the board dimension and how many pawns each
// color starts with. Presets are loaded from YAML files.
type Rules struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	BoardSize    int    `json:"board_size" yaml:"board_size"`
	InitialStash int    `json:"initial_stash" yaml:"initial_stash"`
}

// DefaultRules returns the classic preset: a 6x6 board and 8 pawns per color
func DefaultRules() Rules {
	return Rules{
		Name:         "classic",
		Description:  "Classic Berserker: 6x6 board, 8 pawns per side",
		BoardSize:    ClassicBoardSize,
		InitialStash: ClassicInitialStash,
	}
}

// ValidateRules validates a rule preset for correctness and playability
func ValidateRules(rules *Rules) error {
	if rules == nil {
		return fmt.Errorf("rules validation: rules cannot be nil")
	}
	if rules.Name == "" {
		return fmt.Errorf("rules validation: name is required")
	}

	if rules.BoardSize < MinBoardSize || rules.BoardSize > MaxBoardSize {
		return fmt.Errorf("rules validation: board_size must be between %d and %d, got %d",
			MinBoardSize, MaxBoardSize, rules.BoardSize)
	}

	// Both stashes together must fit on the board or the game could stall
	// with no empty cell and no winner.
	maxStash := rules.BoardSize * rules.BoardSize / 2
	if rules.InitialStash < MinInitialStash || rules.InitialStash > maxStash {
		return fmt.Errorf("rules validation: initial_stash must be between %d and %d, got %d",
			MinInitialStash, maxStash, rules.InitialStash)
	}

	return nil
}

// ParseRules decodes and validates a YAML rule preset
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := ValidateRules(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRulesFile loads a rule preset from a YAML file
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", path, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file '%s': %w", path, err)
	}
	return rules, nil
}
