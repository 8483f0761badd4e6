// Package config manages the rule presets for the sliding-tile game.
//
// Presets are JSON files in a config directory. Each file describes one
// rule set:
//   - board_size: the side length of the square board
//   - win_threshold: the tile value that wins the game (a power of two)
//   - four_probability: the chance a spawned tile is a 4 instead of a 2
//   - initial_tiles: how many tiles a new game starts with
//   - messages: player facing texts for the various outcomes
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific preset
//	rules, err := manager.LoadConfig("mini")
//
//	// Get the default preset (classic.json when present)
//	rules = manager.GetDefault()
//
//	// List available presets
//	presets, err := manager.ListConfigs()
//
// When the directory holds no usable preset, the manager falls back to
// built-in rules that can be tuned with SLIDE_BOARD_SIZE,
// SLIDE_WIN_THRESHOLD, SLIDE_FOUR_PROBABILITY and SLIDE_INITIAL_TILES.
package config
