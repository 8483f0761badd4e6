package engine

// CanMove reports whether any direction would change the board.
// An empty cell is enough on its own; otherwise some cell must have an
// equal right or down neighbour.
func CanMove(board Board) bool {
	if len(board.EmptyCells()) > 0 {
		return true
	}

	for r, row := range board {
		for c, v := range row {
			if v == 0 {
				continue
			}
			if c+1 < len(row) && row[c+1] == v {
				return true
			}
			if r+1 < len(board) && c < len(board[r+1]) && board[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// HasWon reports whether any tile has reached the win threshold
func HasWon(board Board, threshold int) bool {
	for _, row := range board {
		for _, v := range row {
			if v >= threshold {
				return true
			}
		}
	}
	return false
}
