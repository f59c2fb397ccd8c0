package actions

import (
	"connect4server/connect4/broadcast"
	"connect4server/models"
)

func (d *Dispatcher) handleUndoMove(client *models.Client, msg models.Message) {
	r, err := d.memberRoom(client, msg)
	if err != nil {
		d.fail(client, r, "undoMove", err)
		return
	}
	state, err := r.UndoMove(client.ID)
	if err != nil {
		d.fail(client, r, "undoMove", err)
		return
	}
	broadcast.BroadcastGameState(d.hub, state)
}
