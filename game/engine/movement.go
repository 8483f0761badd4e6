package engine

// rotationsFor returns how many clockwise rotations line the direction up
// with "left", and false for an unknown direction.
func rotationsFor(direction Direction) (int, bool) {
	switch direction {
	case Left:
		return 0, true
	case Down:
		return 1, true
	case Right:
		return 2, true
	case Up:
		return 3, true
	}
	return 0, false
}

// Move slides every tile of the board in the given direction.
//
// All four directions share one primitive: the board is rotated so the
// requested direction points left, each row is slid left, and the result is
// rotated back. The input board is never modified. An unknown direction or
// a non-square board yields the input board with Moved false.
func Move(board Board, direction Direction) MoveResult {
	rotations, ok := rotationsFor(direction)
	if !ok || !board.IsSquare() {
		return MoveResult{Board: board, ScoreDelta: 0, Moved: false}
	}

	rotated := RotateTimes(board, rotations)

	score := 0
	for i, row := range rotated {
		newRow, rowScore := slideRowLeft(row)
		rotated[i] = newRow
		score += rowScore
	}

	final := RotateTimes(rotated, (4-rotations)%4)

	return MoveResult{
		Board:      final,
		ScoreDelta: score,
		Moved:      !final.Equal(board),
	}
}

// slideRowLeft compacts a row to the left and merges adjacent equal pairs
// once. A tile produced by a merge does not merge again in the same pass,
// so [2,2,2,0] becomes [4,2,0,0].
func slideRowLeft(row []int) ([]int, int) {
	tiles := make([]int, 0, len(row))
	for _, v := range row {
		if v != 0 {
			tiles = append(tiles, v)
		}
	}

	out := make([]int, 0, len(row))
	score := 0
	for i := 0; i < len(tiles); i++ {
		if i+1 < len(tiles) && tiles[i] == tiles[i+1] {
			merged := tiles[i] * 2
			out = append(out, merged)
			score += merged
			i++
			continue
		}
		out = append(out, tiles[i])
	}

	for len(out) < len(row) {
		out = append(out, 0)
	}
	return out, score
}
