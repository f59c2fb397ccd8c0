package actions

import (
	"connect4server/connect4/broadcast"
	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

type makeMovePayload struct {
	RoomID string `json:"roomId"`
	Column *int   `json:"column"`
}

func (d *Dispatcher) handleMakeMove(client *models.Client, msg models.Message) {
	var p makeMovePayload
	if err := decodePayload(msg, &p); err != nil {
		d.fail(client, nil, "makeMove", err)
		return
	}
	r, err := d.roomFor(client, p.RoomID)
	if err != nil {
		d.fail(client, nil, "makeMove", err)
		return
	}
	if p.Column == nil {
		d.fail(client, r, "makeMove", room.ErrInvalidColumn)
		return
	}

	res, err := r.MakeMove(client.ID, *p.Column)
	if err != nil {
		d.fail(client, r, "makeMove", err)
		return
	}
	d.afterMove(r, res)
	if !res.Finished() {
		d.maybeRunAI(r)
	}
}

// afterMove broadcasts a placed stone and, when the game ended, the result.
func (d *Dispatcher) afterMove(r *room.Room, res room.MoveResult) {
	broadcast.BroadcastMoveMade(d.hub, res)
	if !res.Finished() {
		return
	}

	reason := models.ReasonConnectFour
	if res.Draw {
		reason = models.ReasonDraw
	}
	d.logger.Info("Game over",
		zap.String("roomID", r.ID()),
		zap.String("reason", reason),
		zap.Int("moves", res.State.MoveCount),
	)
	broadcast.BroadcastGameOver(d.hub, res.State)
	d.publishResult(res.State, reason)
	d.broadcastRoomList()
}
