package service

import (
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	ChooseMove(board *entity.Board) (entity.Cell, error)
}

// botService picks uniformly among empty cells. Difficulty is deliberately not an input.
type botService struct {
	intn func(n int) int
}

func NewBotService() BotService {
	return &botService{
		intn: rand.Intn, //nolint: gosec // it's ok
	}
}

// NewSeededBotService makes move selection reproducible.
func NewSeededBotService(seed int64) BotService {
	random := rand.New(rand.NewSource(seed)) //nolint: gosec // it's ok

	return &botService{
		intn: random.Intn,
	}
}

func (that *botService) ChooseMove(board *entity.Board) (entity.Cell, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.Cell{}, ErrNoAvailableMoves
	}

	return availableCells[that.intn(len(availableCells))], nil
}
