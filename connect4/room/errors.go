package room

import (
	"errors"

	"connect4server/internal/game"
)

// 入力値のエラー
var (
	ErrInvalidColumn   = game.ErrColumnOutOfRange
	ErrInvalidNickname = errors.New("nickname must be 1 to 20 characters")
	ErrInvalidTurnTime = errors.New("turn time must be 10, 20 or 30 seconds")
	ErrInvalidMessage  = errors.New("chat message must be 1 to 200 characters")
)

// 状態のエラー
var (
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("player is already in this room")
	ErrNeedTwoPlayers   = errors.New("two players are required")
	ErrAlreadyStarted   = errors.New("game is already spinning or playing")
	ErrNotSpinning      = errors.New("wheel is not spinning")
	ErrStaleSpin        = errors.New("wheel was spun again after a reset")
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrColumnFull       = game.ErrColumnFull
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameNotFinished  = errors.New("game is not finished")
	ErrAlreadyRequested = errors.New("rematch already requested")
	ErrNotPractice      = errors.New("undo is only available in practice mode")
	ErrNothingToUndo    = errors.New("not enough moves to undo")
	ErrNotAITurn        = errors.New("not the AI's turn")
	ErrStaleMove        = errors.New("board changed while the AI was thinking")
	ErrRoomClosed       = errors.New("room is closed")
)

// 見つからないエラー
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found in room")
)

// ErrBoardCorrupted means the room state can no longer be trusted and the
// room has to be closed.
var ErrBoardCorrupted = errors.New("board state is corrupted")

func IsFatal(err error) bool {
	return errors.Is(err, ErrBoardCorrupted)
}
