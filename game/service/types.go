package service

import (
	"time"

	"github.com/wricardo/slide2048/game/engine"
)

// Bulk move stop codes
const (
	StopGameWon  = "game_won"
	StopGameOver = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	Status         engine.Status      `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Moved         bool               `json:"moved"`
	Direction     string             `json:"direction"`
	ScoreDelta    int                `json:"score_delta"`
	GameState     *engine.GameState  `json:"game_state"`
	Status        engine.Status      `json:"status"`
	Message       string             `json:"message"`
	Events        []GameEvent        `json:"events,omitempty"`
	Spawned       *engine.Tile       `json:"spawned,omitempty"`
	PossibleMoves []engine.Direction `json:"possible_moves"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	RequestedMoves int  `json:"requested_moves"`
	MovesAttempted int  `json:"moves_attempted"`
	MovesExecuted  int  `json:"moves_executed"` // moves that changed the board
	Truncated      bool `json:"truncated,omitempty"`
	Limit          int  `json:"limit,omitempty"`

	StoppedReason  string `json:"stopped_reason,omitempty"`
	StopReasonCode string `json:"stop_reason_code,omitempty"` // game_won|game_over
	StoppedOnMove  int    `json:"stopped_on_move,omitempty"`  // 1-based index of the move that ended the game

	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	GameState     *engine.GameState  `json:"game_state"`
	Status        engine.Status      `json:"status"`
	Message       string             `json:"message,omitempty"`
	Events        []GameEvent        `json:"events"`
	PossibleMoves []engine.Direction `json:"possible_moves"`
}

// StepInfo is a compact record for each attempted move in the bulk call
type StepInfo struct {
	Idx        int          `json:"idx"`
	Dir        string       `json:"dir"`
	Moved      bool         `json:"moved"`
	ScoreDelta int          `json:"score_delta"`
	ScoreAfter int          `json:"score_after"`
	Spawned    *engine.Tile `json:"spawned,omitempty"`
	Won        bool         `json:"won,omitempty"`
	Over       bool         `json:"over,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string       `json:"type"` // "move", "blocked", "spawn", "victory", "game_over", "restart"
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Tile      *engine.Tile `json:"tile,omitempty"`
}

// HintResult lists the directions that would currently change the board
type HintResult struct {
	PossibleMoves []engine.Direction `json:"possible_moves"`
	Best          engine.Direction   `json:"best,omitempty"`
	BestGain      int                `json:"best_gain"`
	Status        engine.Status      `json:"status"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename        string  `json:"filename"`
	ConfigID        string  `json:"config_id"` // The identifier to use for session creation
	Name            string  `json:"name"`      // Display name
	Description     string  `json:"description"`
	BoardSize       int     `json:"board_size"`
	WinThreshold    int     `json:"win_threshold"`
	FourProbability float64 `json:"four_probability"`
	InitialTiles    int     `json:"initial_tiles"`
}
