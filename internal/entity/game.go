package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

type GameMode string

const (
	ModePvP  GameMode = "pvp"
	ModePvAI GameMode = "pvai"
)

func (that GameMode) Toggle() GameMode {
	if that == ModePvP {
		return ModePvAI
	}
	return ModePvP
}

func ParseGameMode(value string) (GameMode, error) {
	switch mode := GameMode(value); mode {
	case ModePvP, ModePvAI:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownMode, value)
	}
}

// Difficulty is shown to players but does not change how the bot picks moves.
type Difficulty string

const (
	EasyDifficulty   Difficulty = "easy"
	MediumDifficulty Difficulty = "medium"
	HardDifficulty   Difficulty = "hard"
)

func ParseDifficulty(value string) (Difficulty, error) {
	switch level := Difficulty(value); level {
	case EasyDifficulty, MediumDifficulty, HardDifficulty:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, value)
	}
}

type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that *Score) Increment(mark Mark) {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

func (that Score) Of(mark Mark) int {
	if mark == PlayerX {
		return that.X
	}
	return that.O
}

type RoundStatus string

const (
	StatusAwaitingMove RoundStatus = "awaiting_move"
	StatusRoundOver    RoundStatus = "round_over"
)

type EndReason string

const (
	ReasonWin     EndReason = "win"
	ReasonDraw    EndReason = "draw"
	ReasonTimeout EndReason = "timeout"
)

// RoundResult describes how a round ended. Winner is set only for ReasonWin.
type RoundResult struct {
	Reason EndReason `json:"reason"`
	Winner Mark      `json:"winner,omitempty"`
}

func (that RoundResult) String() string {
	switch that.Reason {
	case ReasonWin:
		return fmt.Sprintf("player %s wins", that.Winner)
	case ReasonDraw:
		return "draw"
	case ReasonTimeout:
		return "time is up, draw"
	default:
		return string(that.Reason)
	}
}

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	Board      [][]Mark     `json:"board"`
	Turn       Mark         `json:"turn"`
	Mode       GameMode     `json:"mode"`
	Difficulty Difficulty   `json:"difficulty"`
	Score      Score        `json:"score"`
	Remaining  int          `json:"remaining_seconds"`
	Status     RoundStatus  `json:"status"`
	Result     *RoundResult `json:"result,omitempty"`
	Moves      int          `json:"moves"`
}

func (that *Snapshot) IsRoundOver() bool {
	return that.Status == StatusRoundOver
}
