package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	BoardSize = 8
	WinLength = 5
)

// Cell addresses a square on the board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the 8x8 grid. It holds no notion of turns or history.
type Board struct {
	cells [BoardSize][BoardSize]Mark
}

func NewBoard() *Board {
	return &Board{}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Board) Get(row, col int) (Mark, error) {
	if !InBounds(row, col) {
		return EmptyCell, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	return that.cells[row][col], nil
}

// At is Get without the bounds error, out of range reads as an empty cell.
func (that *Board) At(row, col int) Mark {
	if !InBounds(row, col) {
		return EmptyCell
	}

	return that.cells[row][col]
}

func (that *Board) Place(row, col int, mark Mark) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.cells[row][col] != EmptyCell {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	that.cells[row][col] = mark

	return nil
}

func (that *Board) Clear(row, col int) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	that.cells[row][col] = EmptyCell

	return nil
}

func (that *Board) IsFull() bool {
	for row := range that.cells {
		for _, mark := range that.cells[row] {
			if mark == EmptyCell {
				return false
			}
		}
	}

	return true
}

func (that *Board) ResetAll() {
	that.cells = [BoardSize][BoardSize]Mark{}
}

// EmptyCells lists free squares in row-major order.
func (that *Board) EmptyCells() []Cell {
	empty := make([]Cell, 0, BoardSize*BoardSize)
	for row := range that.cells {
		for col, mark := range that.cells[row] {
			if mark == EmptyCell {
				empty = append(empty, Cell{Row: row, Col: col})
			}
		}
	}

	return empty
}

// Count returns the number of marks on the board.
func (that *Board) Count() int {
	count := 0
	for row := range that.cells {
		for _, mark := range that.cells[row] {
			if mark != EmptyCell {
				count++
			}
		}
	}

	return count
}

// Rows copies the grid into a slice form suitable for JSON.
func (that *Board) Rows() [][]Mark {
	rows := make([][]Mark, BoardSize)
	for row := range that.cells {
		rows[row] = make([]Mark, BoardSize)
		copy(rows[row], that.cells[row][:])
	}

	return rows
}
