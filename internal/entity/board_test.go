package entity

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Get returns the placed mark", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: marks are placed on distinct cells
		require.NoError(t, board.Place(0, 0, PlayerX))
		require.NoError(t, board.Place(7, 7, PlayerO))
		require.NoError(t, board.Place(3, 4, PlayerX))

		// Then: each cell reads back its mark
		for _, tc := range []struct {
			row, col int
			want     Mark
		}{{0, 0, PlayerX}, {7, 7, PlayerO}, {3, 4, PlayerX}, {4, 3, EmptyCell}} {
			got, err := board.Get(tc.row, tc.col)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		}
	})

	t.Run("Second place on the same cell returns ErrCellOccupied", func(t *testing.T) {
		// Given: a board with X at (2,2)
		board := NewBoard()
		require.NoError(t, board.Place(2, 2, PlayerX))

		// When: O tries the same cell
		err := board.Place(2, 2, PlayerO)

		// Then: the placement fails and X stays
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, board.At(2, 2))
	})

	t.Run("Out of range coordinates return ErrOutOfBounds", func(t *testing.T) {
		board := NewBoard()

		for _, cell := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {20, 20}} {
			assert.ErrorIs(t, board.Place(cell[0], cell[1], PlayerX), apperror.ErrOutOfBounds)

			_, err := board.Get(cell[0], cell[1])
			assert.ErrorIs(t, err, apperror.ErrOutOfBounds)

			assert.ErrorIs(t, board.Clear(cell[0], cell[1]), apperror.ErrOutOfBounds)
		}

		assert.Zero(t, board.Count())
	})
}

func TestBoard_Clear(t *testing.T) {
	// Given: a board with one mark
	board := NewBoard()
	require.NoError(t, board.Place(5, 1, PlayerO))

	// When: the cell is cleared
	require.NoError(t, board.Clear(5, 1))

	// Then: it is empty and can be placed again
	assert.Equal(t, EmptyCell, board.At(5, 1))
	assert.NoError(t, board.Place(5, 1, PlayerX))
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		assert.False(t, NewBoard().IsFull())
	})

	t.Run("Board with one free cell is not full", func(t *testing.T) {
		board := fillBoard(t)
		require.NoError(t, board.Clear(4, 4))

		assert.False(t, board.IsFull())
		assert.Equal(t, []Cell{{Row: 4, Col: 4}}, board.EmptyCells())
	})

	t.Run("Board with every cell marked is full", func(t *testing.T) {
		board := fillBoard(t)

		assert.True(t, board.IsFull())
		assert.Empty(t, board.EmptyCells())
		assert.Equal(t, BoardSize*BoardSize, board.Count())
	})
}

func TestBoard_ResetAll(t *testing.T) {
	// Given: a full board
	board := fillBoard(t)

	// When: it is reset
	board.ResetAll()

	// Then: every cell is empty
	assert.Zero(t, board.Count())
	assert.Len(t, board.EmptyCells(), BoardSize*BoardSize)
}

func TestBoard_Rows(t *testing.T) {
	// Given: a board with a mark
	board := NewBoard()
	require.NoError(t, board.Place(1, 6, PlayerX))

	// When: rows are copied out and modified
	rows := board.Rows()
	rows[1][6] = PlayerO

	// Then: the board itself is untouched
	assert.Len(t, rows, BoardSize)
	assert.Equal(t, PlayerX, board.At(1, 6))
}

func fillBoard(t *testing.T) *Board {
	t.Helper()

	board := NewBoard()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			mark := PlayerX
			if (row+col)%2 == 1 {
				mark = PlayerO
			}
			require.NoError(t, board.Place(row, col, mark))
		}
	}

	return board
}
