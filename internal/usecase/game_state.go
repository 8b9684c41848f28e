package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/timer"
)

const DefaultRoundDuration = 360 * time.Second

type botService interface {
	ChooseMove(board *entity.Board) (entity.Cell, error)
}

type GameOptions struct {
	RoundDuration time.Duration
	Mode          entity.GameMode
	Difficulty    entity.Difficulty
}

// MoveResult lists the moves applied by one command, the human move first and
// then the bot reply if there was one. Result is set when the round ended.
type MoveResult struct {
	Moves  []entity.Move
	Result *entity.RoundResult
}

// GameState owns the board, history, timer and score of the single running game.
// It is not safe for concurrent use; GameManager serializes access to it.
type GameState struct {
	logger *slog.Logger
	bot    botService

	roundDuration time.Duration

	board   *entity.Board
	history *entity.MoveHistory
	timer   *timer.Timer

	turn       entity.Mark
	mode       entity.GameMode
	difficulty entity.Difficulty
	score      entity.Score
	status     entity.RoundStatus
	result     *entity.RoundResult
}

// NewGameState creates the game and starts the first round.
func NewGameState(logger *slog.Logger, clk clock.Clock, bot botService, opts GameOptions) *GameState {
	if opts.RoundDuration <= 0 {
		opts.RoundDuration = DefaultRoundDuration
	}

	if opts.Mode == "" {
		opts.Mode = entity.ModePvP
	}

	if opts.Difficulty == "" {
		opts.Difficulty = entity.EasyDifficulty
	}

	state := &GameState{
		logger:        logger.With("component", "game_state"),
		bot:           bot,
		roundDuration: opts.RoundDuration,
		board:         entity.NewBoard(),
		history:       entity.NewMoveHistory(),
		timer:         timer.New(clk),
		mode:          opts.Mode,
		difficulty:    opts.Difficulty,
	}

	state.resetRound("startup")

	return state
}

// ApplyMove places the current player's mark. In PvAI mode the bot answers
// before ApplyMove returns whenever it becomes O's turn.
func (that *GameState) ApplyMove(row, col int) (MoveResult, error) {
	result, err := that.place(row, col)
	if err != nil {
		return MoveResult{}, err
	}

	if result.Result == nil && that.isBotTurn() {
		botResult, err := that.AIMove()
		if err != nil {
			return result, fmt.Errorf("bot failed to make turn: %w", err)
		}

		result.Moves = append(result.Moves, botResult.Moves...)
		result.Result = botResult.Result
	}

	return result, nil
}

// AIMove lets the bot play for O. With no empty cell left it does nothing.
func (that *GameState) AIMove() (MoveResult, error) {
	if err := that.confirmActiveRound(); err != nil {
		return MoveResult{}, err
	}

	if !that.isBotTurn() {
		return MoveResult{}, apperror.ErrNotBotTurn
	}

	if that.board.IsFull() {
		return MoveResult{}, nil
	}

	cell, err := that.bot.ChooseMove(that.board)
	if err != nil {
		return MoveResult{}, fmt.Errorf("failed to choose move: %w", err)
	}

	return that.ApplyMove(cell.Row, cell.Col)
}

// Undo reverts exactly one move, the bot's included, and gives the turn back to its author.
// The score is never touched.
func (that *GameState) Undo() (entity.Move, error) {
	if err := that.confirmActiveRound(); err != nil {
		return entity.Move{}, err
	}

	move, err := that.history.UndoLast()
	if err != nil {
		return entity.Move{}, err
	}

	if err = that.board.Clear(move.Row, move.Col); err != nil {
		return entity.Move{}, fmt.Errorf("failed to clear cell: %w", err)
	}

	that.turn = move.Player

	that.logger.Debug("move undone", "row", move.Row, "col", move.Col, "player", move.Player)

	return move, nil
}

// SwitchMode toggles PvP/PvAI and starts a new round. The score is kept.
func (that *GameState) SwitchMode() entity.GameMode {
	that.mode = that.mode.Toggle()
	that.resetRound("mode switch")

	return that.mode
}

// SetDifficulty only records the level; the bot ignores it.
func (that *GameState) SetDifficulty(level entity.Difficulty) error {
	if _, err := entity.ParseDifficulty(string(level)); err != nil {
		return err
	}

	that.difficulty = level

	return nil
}

func (that *GameState) ResetRound() {
	that.resetRound("restart")
}

// Tick advances the round timer. Expiry ends the round as a timeout draw.
func (that *GameState) Tick(now time.Time) (timer.TickResult, *entity.RoundResult) {
	tick := that.timer.Tick(now)
	if tick.State != timer.Expired || that.status != entity.StatusAwaitingMove {
		return tick, nil
	}

	return tick, that.endRound(entity.RoundResult{Reason: entity.ReasonTimeout})
}

func (that *GameState) Board() *entity.Board {
	return that.board
}

func (that *GameState) History() *entity.MoveHistory {
	return that.history
}

func (that *GameState) CurrentPlayer() entity.Mark {
	return that.turn
}

func (that *GameState) Mode() entity.GameMode {
	return that.mode
}

func (that *GameState) Difficulty() entity.Difficulty {
	return that.difficulty
}

func (that *GameState) Score() entity.Score {
	return that.score
}

func (that *GameState) Status() entity.RoundStatus {
	return that.status
}

// Result is the outcome of the round, nil while it is still being played.
func (that *GameState) Result() *entity.RoundResult {
	if that.result == nil {
		return nil
	}

	result := *that.result

	return &result
}

func (that *GameState) Remaining(now time.Time) time.Duration {
	return that.timer.Remaining(now)
}

func (that *GameState) IsTimerRunning() bool {
	return that.timer.IsRunning()
}

func (that *GameState) Snapshot(now time.Time) *entity.Snapshot {
	return &entity.Snapshot{
		Board:      that.board.Rows(),
		Turn:       that.turn,
		Mode:       that.mode,
		Difficulty: that.difficulty,
		Score:      that.score,
		Remaining:  int(that.timer.Remaining(now) / time.Second),
		Status:     that.status,
		Result:     that.Result(),
		Moves:      that.history.Len(),
	}
}

func (that *GameState) place(row, col int) (MoveResult, error) {
	if err := that.confirmActiveRound(); err != nil {
		return MoveResult{}, err
	}

	player := that.turn
	if err := that.board.Place(row, col, player); err != nil {
		return MoveResult{}, err
	}

	move := entity.Move{Row: row, Col: col, Player: player}
	that.history.Record(move)

	result := MoveResult{Moves: []entity.Move{move}}

	switch {
	case gomoku.CheckWin(that.board, row, col, player):
		that.score.Increment(player)
		result.Result = that.endRound(entity.RoundResult{Reason: entity.ReasonWin, Winner: player})
	case gomoku.CheckDraw(that.board):
		result.Result = that.endRound(entity.RoundResult{Reason: entity.ReasonDraw})
	default:
		that.turn = player.Opponent()
	}

	return result, nil
}

func (that *GameState) confirmActiveRound() error {
	if that.status != entity.StatusAwaitingMove || !that.timer.IsRunning() {
		return apperror.ErrRoundNotActive
	}

	return nil
}

func (that *GameState) isBotTurn() bool {
	return that.mode == entity.ModePvAI && that.turn == entity.PlayerO
}

func (that *GameState) endRound(result entity.RoundResult) *entity.RoundResult {
	that.status = entity.StatusRoundOver
	that.result = &result
	that.timer.Stop()

	that.logger.Info("round over", "reason", result.Reason, "winner", result.Winner, "moves", that.history.Len(),
		"score_x", that.score.X, "score_o", that.score.O)

	return that.Result()
}

func (that *GameState) resetRound(reason string) {
	that.board.ResetAll()
	that.history.Clear()
	that.turn = entity.PlayerX
	that.status = entity.StatusAwaitingMove
	that.result = nil
	that.timer.Start(that.roundDuration)

	that.logger.Info("round started", "reason", reason, "mode", that.mode, "difficulty", that.difficulty)
}
