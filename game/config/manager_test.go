package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/berserker/game/engine"
)

func createTestConfigDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func writeConfigFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

const blitzPreset = `name: blitz
description: Short games on a smaller board
board_size: 5
initial_stash: 5
`

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Error("Expected error for missing config directory")
		}
	})

	t.Run("empty directory name serves classic", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		def := m.GetDefault()
		if def.Name != "classic" || def.BoardSize != 6 || def.InitialStash != 8 {
			t.Errorf("Expected classic 6x6/8 default, got %+v", def)
		}
	})

	t.Run("classic.yaml overrides built-in default", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeConfigFile(t, dir, "classic.yaml", "name: classic\nboard_size: 7\ninitial_stash: 9\n")

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().BoardSize != 7 {
			t.Errorf("Expected overridden board size 7, got %d", m.GetDefault().BoardSize)
		}
	})

	t.Run("invalid classic.yaml fails", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeConfigFile(t, dir, "classic.yaml", "name: classic\nboard_size: 2\ninitial_stash: 1\n")

		if _, err := NewManager(dir); err == nil {
			t.Error("Expected error for invalid classic preset")
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "blitz.yaml", blitzPreset)
	writeConfigFile(t, dir, "broken.yml", "name: broken\nboard_size: 6\ninitial_stash: 40\n")

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load preset", func(t *testing.T) {
		rules, err := m.LoadConfig("blitz")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if rules.BoardSize != 5 || rules.InitialStash != 5 {
			t.Errorf("Expected 5x5/5, got %dx%d/%d", rules.BoardSize, rules.BoardSize, rules.InitialStash)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		rules, err := m.LoadConfig("blitz.yaml")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if rules.Name != "blitz" {
			t.Errorf("Expected name 'blitz', got '%s'", rules.Name)
		}
	})

	t.Run("cached", func(t *testing.T) {
		first, _ := m.LoadConfig("blitz")
		second, _ := m.LoadConfig("blitz")
		if first != second {
			t.Error("Expected cached rules to be returned")
		}
	})

	t.Run("classic", func(t *testing.T) {
		rules, err := m.LoadConfig("classic")
		if err != nil {
			t.Fatalf("Failed to load classic: %v", err)
		}
		if rules.BoardSize != engine.ClassicBoardSize {
			t.Errorf("Expected board size %d, got %d", engine.ClassicBoardSize, rules.BoardSize)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.LoadConfig("missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := m.LoadConfig("../blitz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid preset", func(t *testing.T) {
		_, err := m.LoadConfig("broken")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "blitz.yaml", blitzPreset)
	writeConfigFile(t, dir, "broken.yaml", "board_size: [")
	writeConfigFile(t, dir, "notes.txt", "not a preset")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}

	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "blitz" || configs[1].ConfigID != "classic" {
		t.Errorf("Expected [blitz classic], got [%s %s]", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[0].Filename != "blitz.yaml" {
		t.Errorf("Expected filename 'blitz.yaml', got '%s'", configs[0].Filename)
	}
	if configs[0].BoardSize != 5 || configs[0].InitialStash != 5 {
		t.Errorf("Expected blitz 5/5, got %d/%d", configs[0].BoardSize, configs[0].InitialStash)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "blitz.yaml", blitzPreset)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := m.SetDefault("blitz"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if m.GetDefault().Name != "blitz" {
		t.Errorf("Expected default 'blitz', got '%s'", m.GetDefault().Name)
	}

	if err := m.SetDefault("missing"); err == nil {
		t.Error("Expected error for missing default")
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	if m.GetDefault().Name != "blitz" {
		t.Errorf("Expected default 'blitz' to survive a refresh, got '%s'", m.GetDefault().Name)
	}
}

func TestManager_RefreshCache_ReadsChangedFiles(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "blitz.yaml", blitzPreset)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if _, err := m.LoadConfig("blitz"); err != nil {
		t.Fatalf("Failed to load blitz: %v", err)
	}

	writeConfigFile(t, dir, "blitz.yaml", "name: blitz\nboard_size: 4\ninitial_stash: 3\n")
	if cached, _ := m.LoadConfig("blitz"); cached.BoardSize != 5 {
		t.Fatalf("Expected cached board size 5, got %d", cached.BoardSize)
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	reloaded, err := m.LoadConfig("blitz")
	if err != nil {
		t.Fatalf("Failed to reload blitz: %v", err)
	}
	if reloaded.BoardSize != 4 {
		t.Errorf("Expected board size 4 after refresh, got %d", reloaded.BoardSize)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	rules := &engine.Rules{Name: "tiny", BoardSize: 3, InitialStash: 4}
	if err := m.SaveConfig("tiny", rules); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "tiny.yaml")); err != nil {
		t.Errorf("Expected tiny.yaml to exist: %v", err)
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	loaded, err := m.LoadConfig("tiny")
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.BoardSize != 3 || loaded.InitialStash != 4 {
		t.Errorf("Expected 3/4, got %d/%d", loaded.BoardSize, loaded.InitialStash)
	}

	t.Run("invalid rules", func(t *testing.T) {
		err := m.SaveConfig("bad", &engine.Rules{Name: "bad", BoardSize: 3, InitialStash: 5})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("reserved name", func(t *testing.T) {
		err := m.SaveConfig("classic", &engine.Rules{Name: "classic", BoardSize: 6, InitialStash: 8})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("path in name", func(t *testing.T) {
		for _, name := range []string{"../escape", "sub/dir", "", ".hidden"} {
			err := m.SaveConfig(name, rules)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("SaveConfig(%q): expected ErrInvalidConfig, got %v", name, err)
			}
		}
	})

	t.Run("no directory", func(t *testing.T) {
		bare, _ := NewManager("")
		if err := bare.SaveConfig("tiny", rules); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly without config directory, got %v", err)
		}
	})
}
