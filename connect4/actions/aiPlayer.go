package actions

import (
	"time"

	"connect4server/connect4/room"
	"connect4server/internal/ai"

	"go.uber.org/zap"
)

// maybeRunAI starts the room's AI runner if it is the AI's turn and no runner is active.
func (d *Dispatcher) maybeRunAI(r *room.Room) {
	if !r.BeginAIRun() {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.runAI(r)
	}()
}

// runAI plays for the AI until it is no longer its turn. The search runs
// without the room lock; a move planned on an outdated board is discarded.
func (d *Dispatcher) runAI(r *room.Room) {
	timer := time.NewTimer(d.opts.AIDelay)
	defer timer.Stop()

	for {
		select {
		case <-r.Done():
			r.EndAIRun()
			return
		case <-timer.C:
		}

		if plan, err := r.PlanAIMove(); err == nil {
			col, err := ai.BestMoveDepth(plan.Board, plan.Color, d.opts.AIDepth)
			if err != nil {
				d.logger.Error("AI found no move", zap.String("roomID", r.ID()), zap.Error(err))
				r.EndAIRun()
				return
			}

			res, err := r.ApplyAIMove(col, plan.Seq)
			switch {
			case err == nil:
				d.afterMove(r, res)
			case room.IsFatal(err):
				d.logger.Error("Room state corrupted", zap.String("roomID", r.ID()), zap.Error(err))
				r.EndAIRun()
				d.closeRoom(r, "corrupted")
				d.broadcastRoomList()
				return
			default:
				d.logger.Debug("AI move discarded", zap.String("roomID", r.ID()), zap.Error(err))
			}
		}

		if !r.ContinueAIRun() {
			return
		}
		timer.Reset(d.opts.AIDelay)
	}
}
