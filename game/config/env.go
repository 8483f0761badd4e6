package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/wricardo/slide2048/game/engine"
)

// RulesEnv holds the built-in rules that apply when no preset file is usable
type RulesEnv struct {
	BoardSize       int     `env:"SLIDE_BOARD_SIZE" envDefault:"4"`
	WinThreshold    int     `env:"SLIDE_WIN_THRESHOLD" envDefault:"2048"`
	FourProbability float64 `env:"SLIDE_FOUR_PROBABILITY" envDefault:"0.1"`
	InitialTiles    int     `env:"SLIDE_INITIAL_TILES" envDefault:"2"`
}

// LoadRulesEnv reads the built-in rules from the environment
func LoadRulesEnv() (RulesEnv, error) {
	var cfg RulesEnv
	if err := env.Parse(&cfg); err != nil {
		return RulesEnv{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// GameConfig converts the environment rules into a validated game config
func (r RulesEnv) GameConfig() (*engine.GameConfig, error) {
	config := &engine.GameConfig{
		Name:            "Builtin",
		Description:     fmt.Sprintf("Built-in %dx%d rules: reach %d to win", r.BoardSize, r.BoardSize, r.WinThreshold),
		BoardSize:       r.BoardSize,
		WinThreshold:    r.WinThreshold,
		FourProbability: r.FourProbability,
		InitialTiles:    r.InitialTiles,
	}
	engine.ApplyMessageDefaults(config)

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// builtinConfig returns the env-derived rules, or the classic rules when the
// environment holds an invalid combination
func builtinConfig() *engine.GameConfig {
	rules, err := LoadRulesEnv()
	if err != nil {
		return engine.DefaultConfig()
	}
	config, err := rules.GameConfig()
	if err != nil {
		return engine.DefaultConfig()
	}
	return config
}
