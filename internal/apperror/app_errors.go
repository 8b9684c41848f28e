package apperror

import "errors"

var (
	ErrOutOfBounds       = errors.New("cell is out of bounds")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrEmptyHistory      = errors.New("nothing to undo")
	ErrRoundNotActive    = errors.New("round is not active")
	ErrNotBotTurn        = errors.New("it's not the bot's turn")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownMode       = errors.New("unknown game mode")
)
