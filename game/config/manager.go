package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")

	// Shared with the service layer so HTTP handlers can classify them
	ErrInvalidConfig = service.ErrInvalidConfig
	ErrReadOnly      = service.ErrConfigReadOnly
)

// DefaultConfigID is the ID of the built-in preset
const DefaultConfigID = "classic"

var presetExtensions = []string{".yaml", ".yml"}

// Manager handles rule preset loading and caching
type Manager struct {
	configDir     string
	defaultID     string
	defaultConfig *engine.Rules
	configs       map[string]*engine.Rules
	mu            sync.RWMutex
}

// NewManager creates a new preset manager reading from configDir
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Rules),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a preset by ID
func (m *Manager) LoadConfig(name string) (*engine.Rules, error) {
	name = trimExtension(name)

	m.mu.RLock()
	if rules, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.configs[name]; exists {
		return rules, nil
	}

	if name == DefaultConfigID {
		rules := engine.DefaultRules()
		m.configs[name] = &rules
		return &rules, nil
	}

	path, ok := m.findPresetFile(name)
	if !ok {
		return nil, ErrConfigNotFound
	}

	rules, err := engine.LoadRulesFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = rules
	return rules, nil
}

// ListConfigs returns information about all available presets
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	ids := map[string]string{DefaultConfigID: ""}

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !hasPresetExtension(entry.Name()) {
				continue
			}
			ids[trimExtension(entry.Name())] = entry.Name()
		}
	}

	configs := make([]*service.ConfigInfo, 0, len(ids))
	for id, filename := range ids {
		rules, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid presets
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:     filename,
			ConfigID:     id,
			Name:         rules.Name,
			Description:  rules.Description,
			BoardSize:    rules.BoardSize,
			InitialStash: rules.InitialStash,
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = trimExtension(name)
	m.defaultConfig = rules
	return nil
}

// RefreshCache drops all cached presets so the next load reads from disk.
// A default chosen with SetDefault is re-read as well.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.Rules)
	defaultID := m.defaultID
	m.mu.Unlock()

	if err := m.loadDefaultConfig(); err != nil {
		return err
	}
	if defaultID == "" || defaultID == DefaultConfigID {
		return nil
	}

	rules, err := m.LoadConfig(defaultID)
	if err != nil {
		return fmt.Errorf("default preset %q: %w", defaultID, err)
	}
	m.mu.Lock()
	m.defaultConfig = rules
	m.mu.Unlock()
	return nil
}

// SaveConfig writes a preset to the config directory as YAML
func (m *Manager) SaveConfig(name string, rules *engine.Rules) error {
	if m.configDir == "" {
		return fmt.Errorf("%w: no config directory configured", ErrReadOnly)
	}
	if err := engine.ValidateRules(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = trimExtension(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: invalid preset id %q", ErrInvalidConfig, name)
	}
	if name == DefaultConfigID {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidConfig, DefaultConfigID)
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = rules
	m.mu.Unlock()

	return nil
}

// loadDefaultConfig resolves the default preset. A classic.yaml file in the
// config directory overrides the built-in classic rules.
func (m *Manager) loadDefaultConfig() error {
	if path, ok := m.findPresetFile(DefaultConfigID); ok {
		rules, err := engine.LoadRulesFile(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		m.mu.Lock()
		m.configs[DefaultConfigID] = rules
		m.defaultConfig = rules
		m.mu.Unlock()
		return nil
	}

	rules := engine.DefaultRules()
	m.mu.Lock()
	m.configs[DefaultConfigID] = &rules
	m.defaultConfig = &rules
	m.mu.Unlock()
	return nil
}

func (m *Manager) findPresetFile(name string) (string, bool) {
	if m.configDir == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	for _, ext := range presetExtensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func hasPresetExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range presetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExtension(name string) string {
	if hasPresetExtension(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
