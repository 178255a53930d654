// Package config provides configuration management for the 2048 game server.
//
// The config package handles:
//   - Loading board variants from JSON or YAML files
//   - Caching loaded configurations
//   - Default configuration selection
//   - Configuration discovery, listing and validation
//
// Configuration Format:
//
// Each file in the config directory describes one board variant. The file
// name without its extension is the config ID used to create sessions:
//
//	name: big
//	description: A roomier 5x5 board
//	board_size: 5
//	win_tile: 4096
//	messages:
//	  victory: "4096! Well played."
//
// Omitted fields fall back to the classic rules (4x4, 2048) and the standard
// messages.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("big")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default configuration is "classic" when present, otherwise the first
// loadable file, otherwise the built-in classic board.
package config
