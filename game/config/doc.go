// Package config provides rule preset management for Berserker.
//
// The config package handles:
//   - Loading rule presets from YAML files
//   - Preset validation through engine.ValidateRules
//   - The built-in "classic" preset used as the default
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are YAML files in the config directory, one preset per file. The
// file name without extension is the config ID used at session creation:
//
//	name: blitz
//	description: Short games on a smaller board
//	board_size: 5
//	initial_stash: 5
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("blitz")
//	defaultRules := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// An empty directory name disables file presets; only "classic" is served.
package config
