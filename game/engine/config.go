package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d",
			MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	if config.WinThreshold < MinWinThreshold {
		return fmt.Errorf("config validation: win_threshold must be at least %d, got %d",
			MinWinThreshold, config.WinThreshold)
	}
	if !IsPowerOfTwo(config.WinThreshold) {
		return fmt.Errorf("config validation: win_threshold must be a power of two, got %d", config.WinThreshold)
	}

	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %g", config.FourProbability)
	}

	cells := config.BoardSize * config.BoardSize
	if config.InitialTiles < 0 || config.InitialTiles > cells {
		return fmt.Errorf("config validation: initial_tiles must be between 0 and %d, got %d",
			cells, config.InitialTiles)
	}

	// Validate format strings
	if config.Messages.Score != "" && !strings.Contains(config.Messages.Score, "%d") {
		return fmt.Errorf("config validation: messages.score must contain %%d for the score")
	}

	return nil
}

// IsPowerOfTwo reports whether v is a positive power of two
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// DefaultConfig returns the classic rules: 4x4 board, 2048 to win,
// 10% four-tiles, two starting tiles
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:            "Classic",
		Description:     "The classic 4x4 game: reach 2048 to win",
		BoardSize:       DefaultBoardSize,
		WinThreshold:    DefaultWinThreshold,
		FourProbability: DefaultFourProbability,
		InitialTiles:    DefaultInitialTiles,
	}
	ApplyMessageDefaults(config)
	return config
}

// ApplyMessageDefaults fills in any empty message with a generic default
func ApplyMessageDefaults(config *GameConfig) {
	m := &config.Messages
	if m.Welcome == "" {
		m.Welcome = "Join the tiles, get to the target tile!"
	}
	if m.Victory == "" {
		m.Victory = "You win! Final score: %d"
	}
	if m.GameOver == "" {
		m.GameOver = "Game over! Final score: %d"
	}
	if m.CantMove == "" {
		m.CantMove = "Nothing moves that way"
	}
	if m.Restart == "" {
		m.Restart = "New game started"
	}
	if m.Score == "" {
		m.Score = "Score: %d"
	}
}

// Message formats the message matching the current state
func (c *GameConfig) Message(state GameState, moved bool) string {
	switch {
	case state.GameWon:
		return formatScore(c.Messages.Victory, state.Score)
	case state.GameOver:
		return formatScore(c.Messages.GameOver, state.Score)
	case !moved:
		return c.Messages.CantMove
	}
	return formatScore(c.Messages.Score, state.Score)
}

func formatScore(format string, score int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, score)
	}
	return format
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// ParseGameConfig decodes and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	ApplyMessageDefaults(&config)

	// Validate the loaded configuration
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
