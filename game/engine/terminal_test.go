package engine

import "testing"

func TestCanMove(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{"empty cell", Board{{2, 4}, {8, 0}}, true},
		{"horizontal pair", Board{{2, 2}, {4, 8}}, true},
		{"vertical pair", Board{{2, 4}, {2, 8}}, true},
		{"pair in last row", Board{{2, 4, 8}, {16, 32, 64}, {128, 256, 256}}, true},
		{"pair in last column", Board{{2, 4, 8}, {16, 32, 64}, {128, 256, 64}}, true},
		{"stuck", alternatingBoard(), false},
		{"stuck 2x2", Board{{2, 4}, {4, 2}}, false},
		{"size zero", NewBoard(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMove(tt.board); got != tt.want {
				t.Errorf("CanMove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMove_AgreesWithMove(t *testing.T) {
	boards := []Board{
		alternatingBoard(),
		{{2, 4}, {4, 2}},
		{{2, 4}, {2, 8}},
		{{2, 0}, {4, 8}},
	}

	for _, board := range boards {
		anyMoved := false
		for _, dir := range Directions {
			if Move(board, dir).Moved {
				anyMoved = true
			}
		}
		if anyMoved != CanMove(board) {
			t.Errorf("CanMove=%v but some direction moved=%v for\n%v", CanMove(board), anyMoved, board)
		}
	}
}

func TestHasWon(t *testing.T) {
	threshold := 2048

	tests := []struct {
		name string
		tile int
		want bool
	}{
		{"below threshold", threshold - 1, false},
		{"largest power below", threshold / 2, false},
		{"at threshold", threshold, true},
		{"double threshold", threshold * 2, true},
		{"quadruple threshold", threshold * 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(4).With(2, 3, tt.tile)
			if got := HasWon(board, threshold); got != tt.want {
				t.Errorf("HasWon with tile %d = %v, want %v", tt.tile, got, tt.want)
			}
		})
	}
}

func TestHasWon_CustomThreshold(t *testing.T) {
	board := Board{{2, 4}, {8, 16}}

	if !HasWon(board, 16) {
		t.Error("Expected win at threshold 16")
	}
	if HasWon(board, 32) {
		t.Error("Expected no win at threshold 32")
	}
}
