// Command validate provides a small CLI that validates rule preset YAML files
// in the ../configs directory (or the directory given as first argument). It
// checks:
//   - YAML structure, rejecting unknown fields
//   - Rule bounds (board size, initial stash against the board area)
//   - Preset names are unique across files
//   - The reserved "classic" name is only used by classic.yaml
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/berserker/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Name   string
	Valid  bool
	Errors []string
}

// validatePreset loads and validates a single preset file
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var rules engine.Rules
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rules); err != nil {
		result.Valid = false
		if errors.Is(err, io.EOF) {
			result.Errors = append(result.Errors, "File is empty")
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid YAML: %v", err))
		}
		return result
	}
	result.Name = rules.Name

	if err := engine.ValidateRules(&rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "rules validation: "))
	}

	base := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if rules.Name == "classic" && base != "classic" {
		result.Valid = false
		result.Errors = append(result.Errors, "Name 'classic' is reserved for classic.yaml")
	}

	if result.Valid {
		cells := rules.BoardSize * rules.BoardSize
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", rules.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d (%d cells)", rules.BoardSize, rules.BoardSize, cells))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Stash: %d per color", rules.InitialStash))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Coverage: %d%% of the board when both stashes are placed", 200*rules.InitialStash/cells))
	}

	return result
}

// checkDuplicateNames marks every result whose preset name is shared with
// another file as invalid
func checkDuplicateNames(results []ValidationResult) {
	byName := make(map[string][]int)
	for i, r := range results {
		if r.Name != "" {
			byName[r.Name] = append(byName[r.Name], i)
		}
	}

	for name, idx := range byName {
		if len(idx) < 2 {
			continue
		}
		files := make([]string, 0, len(idx))
		for _, i := range idx {
			files = append(files, results[i].File)
		}
		sort.Strings(files)
		for _, i := range idx {
			results[i].Valid = false
			results[i].Errors = append(results[i].Errors,
				fmt.Sprintf("Duplicate preset name '%s' in %s", name, strings.Join(files, ", ")))
		}
	}
}

// validateDir validates every *.yaml and *.yml file in dir
func validateDir(dir string) ([]ValidationResult, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validatePreset(file))
	}
	checkDuplicateNames(results)
	return results, nil
}

// report prints a concise report and returns true when every preset is valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some presets have errors")
	}
	return allValid
}

// main validates each preset, exiting with non-zero status if any are invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDir(configDir)
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		return
	}

	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}
