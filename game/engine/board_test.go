package engine

import (
	"strings"
	"testing"
)

func TestNewBoard(t *testing.T) {
	for _, size := range []int{1, 3, 4, 5, 8} {
		board := NewBoard(size)
		if board.Size() != size {
			t.Errorf("Expected %d rows, got %d", size, board.Size())
		}
		if !board.IsSquare() {
			t.Errorf("Expected %dx%d board to be square", size, size)
		}
		if CountTiles(board) != 0 {
			t.Errorf("Expected empty board, got %d tiles", CountTiles(board))
		}
		if len(board.EmptyCells()) != size*size {
			t.Errorf("Expected %d empty cells, got %d", size*size, len(board.EmptyCells()))
		}
	}
}

func TestNewBoard_Degenerate(t *testing.T) {
	if NewBoard(0).Size() != 0 {
		t.Error("Expected size 0 board to have no rows")
	}
	if NewBoard(-3).Size() != 0 {
		t.Error("Expected negative size to produce an empty board")
	}
}

func TestBoardClone(t *testing.T) {
	board := Board{{2, 0}, {0, 4}}
	clone := board.Clone()

	if !clone.Equal(board) {
		t.Fatal("Expected clone to equal original")
	}

	clone[0][0] = 8
	if board[0][0] != 2 {
		t.Error("Modifying the clone changed the original")
	}
}

func TestBoardWith(t *testing.T) {
	board := NewBoard(3)
	next := board.With(1, 2, 4)

	if next[1][2] != 4 {
		t.Errorf("Expected 4 at (1,2), got %d", next[1][2])
	}
	if board[1][2] != 0 {
		t.Error("With must not modify the receiver")
	}
}

func TestBoardEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Board
		want bool
	}{
		{"identical", Board{{2, 4}, {8, 0}}, Board{{2, 4}, {8, 0}}, true},
		{"one cell differs", Board{{2, 4}, {8, 0}}, Board{{2, 4}, {8, 2}}, false},
		{"different size", Board{{2}}, Board{{2, 0}, {0, 0}}, false},
		{"both empty", Board{}, NewBoard(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	board := Board{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	expected := Board{
		{7, 4, 1},
		{8, 5, 2},
		{9, 6, 3},
	}

	rotated := Rotate(board)
	if !rotated.Equal(expected) {
		t.Errorf("Expected\n%v\ngot\n%v", expected, rotated)
	}
	if board[0][0] != 1 {
		t.Error("Rotate must not modify its input")
	}
}

func TestRotate_Closure(t *testing.T) {
	boards := []Board{
		NewBoard(0),
		{{2}},
		{{2, 4}, {8, 16}},
		{{2, 0, 4}, {0, 8, 0}, {16, 0, 32}},
		alternatingBoard(),
		{
			{2, 4, 8, 16, 32},
			{0, 2, 0, 4, 0},
			{64, 0, 0, 0, 128},
			{0, 0, 256, 0, 0},
			{512, 1024, 0, 2048, 4},
		},
	}

	for _, board := range boards {
		out := board
		for i := 0; i < 4; i++ {
			out = Rotate(out)
		}
		if !out.Equal(board) {
			t.Errorf("Four rotations changed the board:\n%v\ngot\n%v", board, out)
		}
		if !RotateTimes(board, 4).Equal(board) {
			t.Error("RotateTimes(4) should be the identity")
		}
		if !RotateTimes(board, 1).Equal(RotateTimes(board, -3)) {
			t.Error("RotateTimes should reduce negative counts modulo 4")
		}
	}
}

func TestEmptyCells(t *testing.T) {
	board := Board{
		{2, 0, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	cells := board.EmptyCells()
	if len(cells) != 14 {
		t.Fatalf("Expected 14 empty cells, got %d", len(cells))
	}
	for _, cell := range cells {
		if (cell.Row == 0 && cell.Col == 0) || (cell.Row == 1 && cell.Col == 1) {
			t.Errorf("Occupied cell (%d,%d) reported as empty", cell.Row, cell.Col)
		}
	}
}

func TestFormatBoard(t *testing.T) {
	board := Board{{2, 0}, {128, 4}}
	out := FormatBoard(board)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "  2   ." {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if lines[1] != "128   4" {
		t.Errorf("Unexpected second line %q", lines[1])
	}
}

func TestMaxTileAndCount(t *testing.T) {
	board := Board{{2, 0, 8}, {0, 64, 0}, {4, 0, 0}}
	if MaxTile(board) != 64 {
		t.Errorf("Expected max tile 64, got %d", MaxTile(board))
	}
	if CountTiles(board) != 4 {
		t.Errorf("Expected 4 tiles, got %d", CountTiles(board))
	}
}
