package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() GameState
	SetState(state GameState) error
	Restart() GameState
	IsGameOver() bool
	IsWon() bool
	GetScore() int
	GetBoard() Board

	// Movement operations
	Move(direction Direction) bool
	Apply(direction Direction) Outcome
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialize access (the service layer holds a lock
// around every call).
type GameEngine struct {
	state   GameState
	config  *GameConfig
	spawner *Spawner
	rng     RandomSource
}

// NewEngine creates a new game engine with the provided configuration and
// random source, and starts the first game
func NewEngine(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}

	engine := &GameEngine{
		config:  config,
		rng:     rng,
		spawner: NewSpawner(rng, config.FourProbability),
	}
	engine.state = Start(config, engine.spawner)

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the default rules
func NewEngineWithDefaults(rng RandomSource) *GameEngine {
	config := DefaultConfig()
	engine := &GameEngine{
		config:  config,
		rng:     rng,
		spawner: NewSpawner(rng, config.FourProbability),
	}
	engine.state = Start(config, engine.spawner)
	return engine
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() GameState {
	return e.state.Clone()
}

// SetState replaces the game state. The board must match the configured size.
func (e *GameEngine) SetState(state GameState) error {
	if !state.Board.IsSquare() || state.Board.Size() != e.config.BoardSize {
		return fmt.Errorf("state board must be %dx%d", e.config.BoardSize, e.config.BoardSize)
	}
	if state.Score < 0 {
		return fmt.Errorf("state score cannot be negative")
	}
	e.state = state.Clone()
	return nil
}

// Restart replaces the whole state with a freshly started game
func (e *GameEngine) Restart() GameState {
	e.state = Start(e.config, e.spawner)
	return e.GetState()
}

// IsGameOver returns whether no moves are left
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsWon returns whether the win threshold was reached
func (e *GameEngine) IsWon() bool {
	return e.state.GameWon
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetBoard returns a copy of the current board
func (e *GameEngine) GetBoard() Board {
	return e.state.Board.Clone()
}

// Move applies a move and reports whether the board changed
func (e *GameEngine) Move(direction Direction) bool {
	return e.Apply(direction).Moved
}

// Apply applies a move and commits the resulting state
func (e *GameEngine) Apply(direction Direction) Outcome {
	next, outcome := ApplyMove(e.state, direction, e.config, e.spawner)
	e.state = next
	return outcome
}

// CanMove checks if sliding in the given direction would change the board
func (e *GameEngine) CanMove(direction Direction) bool {
	if !e.state.Active() {
		return false
	}
	return Move(e.state.Board, direction).Moved
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and restarts the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.spawner = NewSpawner(e.rng, config.FourProbability)
	e.state = Start(config, e.spawner)
	return nil
}

// BulkMove applies moves in order, stopping once the game has ended.
// It returns one outcome per move that was attempted.
func (e *GameEngine) BulkMove(moves []Direction) []Outcome {
	outcomes := make([]Outcome, 0, len(moves))

	for _, direction := range moves {
		if !e.state.Active() {
			break
		}
		outcomes = append(outcomes, e.Apply(direction))
	}

	return outcomes
}
