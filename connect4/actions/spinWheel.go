package actions

import (
	"time"

	"connect4server/connect4/broadcast"
	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

func (d *Dispatcher) handleAddAI(client *models.Client, msg models.Message) {
	r, err := d.memberRoom(client, msg)
	if err != nil {
		d.fail(client, r, "addAI", err)
		return
	}
	if _, err := r.AddAIPlayer(); err != nil {
		d.fail(client, r, "addAI", err)
		return
	}

	d.logger.Info("AI player added", zap.String("roomID", r.ID()))
	broadcast.BroadcastGameState(d.hub, r.Snapshot())
	d.broadcastRoomList()
}

func (d *Dispatcher) handleSpinWheel(client *models.Client, msg models.Message) {
	r, err := d.memberRoom(client, msg)
	if err != nil {
		d.fail(client, r, "spinWheel", err)
		return
	}
	if err := d.spin(r); err != nil {
		d.fail(client, r, "spinWheel", err)
	}
}

// spin draws the first player and starts the game once the wheel animation is over.
func (d *Dispatcher) spin(r *room.Room) error {
	res, err := r.SpinWheel()
	if err != nil {
		return err
	}

	d.logger.Info("Wheel spinning", zap.String("roomID", r.ID()), zap.Int("firstPlayer", res.FirstPlayer))
	d.hub.BroadcastToRoom(r.ID(), "wheelSpinning", res)
	d.broadcastRoomList()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		timer := time.NewTimer(d.opts.SpinDuration)
		defer timer.Stop()
		select {
		case <-r.Done():
			return
		case <-timer.C:
		}
		d.startGame(r, res.Gen)
	}()
	return nil
}

func (d *Dispatcher) startGame(r *room.Room, gen uint64) {
	state, err := r.StartAfterSpin(gen)
	if err != nil {
		// ルーレット中に退室や再スピンで状態が変わった
		d.logger.Debug("Game start skipped", zap.String("roomID", r.ID()), zap.Error(err))
		return
	}

	broadcast.BroadcastGameState(d.hub, state)
	d.broadcastRoomList()
	d.maybeRunAI(r)
}
