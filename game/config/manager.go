package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigID is the config used when a session names none
const DefaultConfigID = "classic"

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// FileReport is the outcome of validating one config file
type FileReport struct {
	Filename string
	ConfigID string
	Config   *engine.GameConfig
	Err      error
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	m.loadDefaultConfig()
	return m, nil
}

// configID strips a known config extension from a name
func configID(name string) string {
	ext := filepath.Ext(name)
	for _, known := range engine.ConfigExtensions {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// validID rejects names that would escape the config directory
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// findConfigFile returns the path of the first file for id, trying each
// extension in order
func (m *Manager) findConfigFile(id string) (string, bool) {
	for _, ext := range engine.ConfigExtensions {
		path := filepath.Join(m.configDir, id+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadConfig loads a configuration by name. The name may carry a .json,
// .yaml or .yml extension.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id := configID(name)
	if !validID(id) {
		return nil, fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	configPath, found := m.findConfigFile(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, id)
	}

	config, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	log.Debug().Str("config", id).Str("path", configPath).Msg("config loaded")
	return config, nil
}

// readConfigFile reads, decodes and validates one config file
func readConfigFile(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.DecodeGameConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// configFiles lists the config files in the directory, one per config ID,
// in directory order
func (m *Manager) configFiles() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := configID(entry.Name())
		if id == entry.Name() || seen[id] {
			continue
		}
		seen[id] = true
		files = append(files, entry.Name())
	}
	return files, nil
}

// ListConfigs returns information about all available configurations.
// Files that fail to load are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	files, err := m.configFiles()
	if err != nil {
		return nil, err
	}

	configs := []*service.ConfigInfo{}
	for _, filename := range files {
		id := configID(filename)
		config, err := m.LoadConfig(id)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("skipping config")
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    filename,
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			BoardSize:   config.BoardSize,
			WinTile:     config.WinTile,
		})
	}

	return configs, nil
}

// ValidateAll loads every config file from disk, bypassing the cache, and
// reports the result for each
func (m *Manager) ValidateAll() ([]FileReport, error) {
	files, err := m.configFiles()
	if err != nil {
		return nil, err
	}

	reports := make([]FileReport, 0, len(files))
	for _, filename := range files {
		config, err := readConfigFile(filepath.Join(m.configDir, filename))
		reports = append(reports, FileReport{
			Filename: filename,
			ConfigID: configID(filename),
			Config:   config,
			Err:      err,
		})
	}
	return reports, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
	return nil
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// loadDefaultConfig picks classic, then the first loadable config, then the
// built-in classic board
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultConfigID)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr == nil && len(configs) > 0 {
			config, err = m.LoadConfig(configs[0].ConfigID)
		}
	}
	if err != nil || config == nil {
		log.Debug().Str("dir", m.configDir).Msg("no usable config files, using built-in classic board")
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig saves a configuration to disk as JSON
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	id := configID(name)
	if !validID(id) {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	configPath := filepath.Join(m.configDir, id+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	log.Info().Str("config", id).Str("path", configPath).Msg("config saved")
	return nil
}
