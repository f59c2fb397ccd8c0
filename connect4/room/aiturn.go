package room

import "connect4server/internal/game"

// AIPlan is what the AI needs to think without holding the room lock.
type AIPlan struct {
	Board game.Board
	Color game.Cell
	Seq   uint64
}

func (r *Room) isAITurnLocked() bool {
	return !r.closed &&
		r.status == StatusPlaying &&
		r.currentPlayer < len(r.players) &&
		r.players[r.currentPlayer].IsAI
}

func (r *Room) IsAITurn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isAITurnLocked()
}

// BeginAIRun claims the room's single AI runner slot. It fails when a runner
// is already active or when it is not the AI's turn.
func (r *Room) BeginAIRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.aiRunning || !r.isAITurnLocked() {
		return false
	}
	r.aiRunning = true
	return true
}

// ContinueAIRun reports whether the runner should play again. When it is no
// longer the AI's turn the slot is released in the same critical section.
func (r *Room) ContinueAIRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isAITurnLocked() {
		return true
	}
	r.aiRunning = false
	return false
}

func (r *Room) EndAIRun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aiRunning = false
}

func (r *Room) PlanAIMove() (AIPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isAITurnLocked() {
		return AIPlan{}, ErrNotAITurn
	}
	return AIPlan{
		Board: r.board,
		Color: r.players[r.currentPlayer].Color,
		Seq:   r.moveSeq,
	}, nil
}

// ApplyAIMove plays col for the AI if the board has not changed since the plan.
func (r *Room) ApplyAIMove(col int, seq uint64) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return MoveResult{}, ErrNotPlaying
	}
	if !r.isAITurnLocked() {
		return MoveResult{}, ErrNotAITurn
	}
	if seq != r.moveSeq {
		return MoveResult{}, ErrStaleMove
	}
	if col < 0 || col >= game.Columns {
		return MoveResult{}, ErrInvalidColumn
	}
	return r.applyMoveLocked(col)
}
