package engine

import (
	"fmt"
	"strings"
)

// MaxTile returns the largest tile on the board
func MaxTile(board Board) int {
	highest := 0
	for _, row := range board {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// CountTiles counts the non-empty cells
func CountTiles(board Board) int {
	count := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// FormatBoard renders the board as fixed-width text, one row per line,
// with "." for empty cells
func FormatBoard(board Board) string {
	width := len(fmt.Sprint(MaxTile(board)))
	if width < 1 {
		width = 1
	}

	var sb strings.Builder
	for _, row := range board {
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if v != 0 {
				cell = fmt.Sprint(v)
			}
			sb.WriteString(strings.Repeat(" ", width-len(cell)))
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String implements fmt.Stringer
func (b Board) String() string {
	return FormatBoard(b)
}
