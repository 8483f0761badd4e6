package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RandomSource is the randomness the spawner draws from.
// *math/rand.Rand satisfies it; tests can script the values.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed draws a seed from crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Spawner places new tiles on a board
type Spawner struct {
	rng             RandomSource
	fourProbability float64
}

// NewSpawner creates a spawner that produces a 4 with probability
// fourProbability and a 2 otherwise
func NewSpawner(rng RandomSource, fourProbability float64) *Spawner {
	return &Spawner{rng: rng, fourProbability: fourProbability}
}

// Spawn returns a copy of board with one new tile in a random empty cell.
// A board without empty cells is returned unchanged.
func (s *Spawner) Spawn(board Board) Board {
	next, _ := s.SpawnTile(board)
	return next
}

// SpawnTile is Spawn that also reports the placed tile (nil when the board
// was full)
func (s *Spawner) SpawnTile(board Board) (Board, *Tile) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return board, nil
	}

	cell := empty[s.rng.Intn(len(empty))]
	value := 2
	if s.rng.Float64() < s.fourProbability {
		value = 4
	}

	tile := Tile{Row: cell.Row, Col: cell.Col, Value: value}
	return board.With(cell.Row, cell.Col, value), &tile
}
