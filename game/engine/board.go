package engine

// Board is a square grid of tile values. 0 means empty; any other value is
// a power of two. Board values are treated as immutable: every operation in
// this package that produces a board returns a fresh grid.
type Board [][]int

// NewBoard creates a size x size board with every cell empty
func NewBoard(size int) Board {
	if size < 0 {
		size = 0
	}
	board := make(Board, size)
	for i := range board {
		board[i] = make([]int, size)
	}
	return board
}

// Size returns the number of rows
func (b Board) Size() int {
	return len(b)
}

// IsSquare reports whether every row has as many cells as there are rows
func (b Board) IsSquare() bool {
	for _, row := range b {
		if len(row) != len(b) {
			return false
		}
	}
	return true
}

// Get returns the value at (row, col), or 0 when out of bounds
func (b Board) Get(row, col int) int {
	if row < 0 || row >= len(b) || col < 0 || col >= len(b[row]) {
		return 0
	}
	return b[row][col]
}

// With returns a copy of the board with (row, col) set to value
func (b Board) With(row, col, value int) Board {
	next := b.Clone()
	next[row][col] = value
	return next
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	next := make(Board, len(b))
	for i, row := range b {
		next[i] = append([]int(nil), row...)
	}
	return next
}

// Equal compares two boards cell by cell
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(other[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns the positions of all empty cells in row-major order
func (b Board) EmptyCells() []Tile {
	var cells []Tile
	for r, row := range b {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Tile{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Rotate returns the board rotated 90 degrees clockwise.
// Cell (row, col) moves to (col, n-1-row).
func Rotate(b Board) Board {
	n := len(b)
	out := NewBoard(n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			out[col][n-1-row] = b[row][col]
		}
	}
	return out
}

// RotateTimes applies Rotate times mod 4 times. Zero rotations still
// return a copy.
func RotateTimes(b Board, times int) Board {
	times = ((times % 4) + 4) % 4
	out := b.Clone()
	for i := 0; i < times; i++ {
		out = Rotate(out)
	}
	return out
}
