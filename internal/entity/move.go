package entity

import "github.com/rocketscienceinc/gomoku-backend/internal/apperror"

type Move struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Player Mark `json:"player"`
}

// MoveHistory is a LIFO stack of applied moves.
type MoveHistory struct {
	moves []Move
}

func NewMoveHistory() *MoveHistory {
	return &MoveHistory{
		moves: make([]Move, 0, BoardSize*BoardSize),
	}
}

func (that *MoveHistory) Record(move Move) {
	that.moves = append(that.moves, move)
}

func (that *MoveHistory) UndoLast() (Move, error) {
	if len(that.moves) == 0 {
		return Move{}, apperror.ErrEmptyHistory
	}

	last := that.moves[len(that.moves)-1]
	that.moves = that.moves[:len(that.moves)-1]

	return last, nil
}

func (that *MoveHistory) Last() (Move, bool) {
	if len(that.moves) == 0 {
		return Move{}, false
	}

	return that.moves[len(that.moves)-1], true
}

func (that *MoveHistory) Clear() {
	that.moves = that.moves[:0]
}

func (that *MoveHistory) Len() int {
	return len(that.moves)
}

func (that *MoveHistory) Moves() []Move {
	moves := make([]Move, len(that.moves))
	copy(moves, that.moves)

	return moves
}
