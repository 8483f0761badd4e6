package engine

// Outcome describes what a single ApplyMove did
type Outcome struct {
	Direction  Direction `json:"direction"`
	Moved      bool      `json:"moved"`
	ScoreDelta int       `json:"score_delta"`
	Spawned    *Tile     `json:"spawned,omitempty"`
	Won        bool      `json:"won,omitempty"`
	Over       bool      `json:"over,omitempty"`
}

// Start builds the initial state for a game: an empty board of the
// configured size seeded with the configured number of tiles.
func Start(config *GameConfig, spawner *Spawner) GameState {
	board := NewBoard(config.BoardSize)
	for i := 0; i < config.InitialTiles; i++ {
		board = spawner.Spawn(board)
	}

	return GameState{
		Board:      board,
		Score:      0,
		GameOver:   false,
		GameWon:    false,
		Moves:      0,
		ConfigName: config.Name,
	}
}

// ApplyMove advances state by one move and returns the next state.
//
// A state that is not Active, or a move that changes nothing, returns the
// input state untouched. Otherwise the moved board gets one spawned tile,
// the score grows by the merge total, and the post-spawn board is checked
// for a win first and only then for the absence of moves.
func ApplyMove(state GameState, direction Direction, config *GameConfig, spawner *Spawner) (GameState, Outcome) {
	outcome := Outcome{Direction: direction}
	if !state.Active() {
		return state, outcome
	}

	result := Move(state.Board, direction)
	if !result.Moved {
		return state, outcome
	}

	board, spawned := spawner.SpawnTile(result.Board)

	next := state
	next.Board = board
	next.Score = state.Score + result.ScoreDelta
	next.Moves = state.Moves + 1

	outcome.Moved = true
	outcome.ScoreDelta = result.ScoreDelta
	outcome.Spawned = spawned

	if HasWon(board, config.WinThreshold) {
		next.GameWon = true
		outcome.Won = true
	} else if !CanMove(board) {
		next.GameOver = true
		outcome.Over = true
	}

	return next, outcome
}
