// Package gomoku holds the connect-five rules. The functions are pure and never mutate the board.
package gomoku

import "github.com/rocketscienceinc/gomoku-backend/internal/entity"

// maxReach is how far a run is followed in each direction from the placed cell.
const maxReach = entity.WinLength - 1

// axes pairs opposite directions: horizontal, vertical, diagonal, anti-diagonal.
var axes = [4][2][2]int{
	{{0, 1}, {0, -1}},
	{{1, 0}, {-1, 0}},
	{{1, 1}, {-1, -1}},
	{{1, -1}, {-1, 1}},
}

// CheckWin reports whether the mark just placed at (row, col) by player completes
// a run of WinLength or more. Every winning run passes through the last placed cell,
// so only its four axes are inspected.
func CheckWin(board *entity.Board, row, col int, player entity.Mark) bool {
	if player == entity.EmptyCell {
		return false
	}

	for _, axis := range axes {
		count := 1
		for _, direction := range axis {
			count += countInDirection(board, row, col, direction[0], direction[1], player)
		}

		if count >= entity.WinLength {
			return true
		}
	}

	return false
}

// CheckDraw is only meaningful after a placement that did not win.
func CheckDraw(board *entity.Board) bool {
	return board.IsFull()
}

func countInDirection(board *entity.Board, row, col, deltaRow, deltaCol int, player entity.Mark) int {
	count := 0

	for range maxReach {
		row += deltaRow
		col += deltaCol

		if !entity.InBounds(row, col) || board.At(row, col) != player {
			break
		}

		count++
	}

	return count
}
