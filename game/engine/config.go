package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidWinTile   = errors.New("invalid win tile")
)

// ConfigExtensions lists the file extensions a config may be stored under, in
// lookup order
var ConfigExtensions = []string{".json", ".yaml", ".yml"}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: %w: board_size must be between %d and %d, got %d",
			ErrInvalidBoardSize, MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	if config.WinTile < MinWinTile || !IsPowerOfTwo(config.WinTile) {
		return fmt.Errorf("config validation: %w: win_tile must be a power of two no smaller than %d, got %d",
			ErrInvalidWinTile, MinWinTile, config.WinTile)
	}

	return nil
}

// DefaultGameConfig returns the classic 4x4 game played to 2048
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "The classic 4x4 board, played to 2048",
		BoardSize:   DefaultBoardSize,
		WinTile:     DefaultWinTile,
	}
	applyConfigDefaults(config)
	return config
}

// NewSizedConfig returns the default config with a different board size. The
// result is not validated.
func NewSizedConfig(size int) *GameConfig {
	config := DefaultGameConfig()
	config.Name = fmt.Sprintf("%dx%d", size, size)
	config.Description = fmt.Sprintf("A %dx%d board, played to %d", size, size, config.WinTile)
	config.BoardSize = size
	return config
}

// applyConfigDefaults fills optional fields left empty in a config file
func applyConfigDefaults(config *GameConfig) {
	if config.BoardSize == 0 {
		config.BoardSize = DefaultBoardSize
	}
	if config.WinTile == 0 {
		config.WinTile = DefaultWinTile
	}
	if config.Messages.Welcome == "" {
		config.Messages.Welcome = "Join the tiles, get to %d!"
	}
	if config.Messages.Victory == "" {
		config.Messages.Victory = "Congratulations! You won!"
	}
	if config.Messages.GameOver == "" {
		config.Messages.GameOver = "Game Over! No more moves possible."
	}
	if config.Messages.NoChange == "" {
		config.Messages.NoChange = "Nothing moved"
	}
}

// welcomeMessage renders the welcome text, which may reference the win tile
func (c *GameConfig) welcomeMessage() string {
	if strings.Contains(c.Messages.Welcome, "%d") {
		return fmt.Sprintf(c.Messages.Welcome, c.WinTile)
	}
	return c.Messages.Welcome
}

// DecodeGameConfig parses config data. The format is picked from the file
// extension: .yaml and .yml are YAML, anything else is JSON.
func DecodeGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}

	applyConfigDefaults(&config)
	return &config, nil
}

// LoadGameConfig loads and validates a game configuration file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigByName loads a game configuration by name from the configs
// directory, or from CONFIG_DIR when it is set
func LoadConfigByName(configName string) (*GameConfig, error) {
	configDir := "configs"
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		configDir = dir
	}

	candidates := []string{configName}
	if filepath.Ext(configName) == "" {
		candidates = candidates[:0]
		for _, ext := range ConfigExtensions {
			candidates = append(candidates, configName+ext)
		}
	}

	for _, name := range candidates {
		configPath := filepath.Join(configDir, name)
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		config, err := LoadGameConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
		}
		return config, nil
	}

	return nil, fmt.Errorf("config file '%s' not found", configName)
}
