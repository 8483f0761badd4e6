package engine

import "strings"

// Direction is one of the four slide directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection normalizes user input ("UP", " left ", "w") into a Direction.
// Single letters follow the w/a/s/d keyboard layout. Unknown input is
// returned as-is so that Move treats it as a no-op.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up
	case "down", "s":
		return Down
	case "left", "a":
		return Left
	case "right", "d":
		return Right
	}
	return Direction(s)
}

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Status is the lifecycle state of a game
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusOver   Status = "over"
)

const (
	DefaultBoardSize       = 4
	DefaultWinThreshold    = 2048
	DefaultFourProbability = 0.1
	DefaultInitialTiles    = 2

	// Validation constants
	MinBoardSize    = 2
	MaxBoardSize    = 16
	MinWinThreshold = 4
	MaxBulkMoves    = 50
)

// Tile is a single non-empty cell
type Tile struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// MoveResult is the outcome of sliding a board in one direction
type MoveResult struct {
	Board      Board `json:"board"`
	ScoreDelta int   `json:"score_delta"`
	Moved      bool  `json:"moved"`
}

// GameConfig represents the rules of a game, loaded from JSON
type GameConfig struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	BoardSize       int     `json:"board_size"`
	WinThreshold    int     `json:"win_threshold"`
	FourProbability float64 `json:"four_probability"`
	InitialTiles    int     `json:"initial_tiles"`
	Messages        struct {
		Welcome  string `json:"welcome"`
		Victory  string `json:"victory"`
		GameOver string `json:"game_over"`
		CantMove string `json:"cant_move"`
		Restart  string `json:"restart"`
		Score    string `json:"score"`
	} `json:"messages"`
}

// GameState represents the complete state of one game.
// Values are snapshots: transitions return a new GameState and never
// modify the Board of the state they were given.
type GameState struct {
	Board      Board  `json:"board"`
	Score      int    `json:"score"`
	GameOver   bool   `json:"game_over"`
	GameWon    bool   `json:"game_won"`
	Moves      int    `json:"moves"`
	ConfigName string `json:"config_name"`
}

// Status derives the lifecycle state from the terminal flags
func (gs GameState) Status() Status {
	switch {
	case gs.GameWon:
		return StatusWon
	case gs.GameOver:
		return StatusOver
	}
	return StatusActive
}

// Active reports whether the game still accepts moves
func (gs GameState) Active() bool {
	return gs.Status() == StatusActive
}

// Clone returns a deep copy of the state
func (gs GameState) Clone() GameState {
	gs.Board = gs.Board.Clone()
	return gs
}
