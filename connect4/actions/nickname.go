package actions

import (
	"context"

	"connect4server/connect4/broadcast"
	"connect4server/connect4/database"
	"connect4server/models"
)

type nicknamePayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

func (d *Dispatcher) handleUpdateNickname(ctx context.Context, client *models.Client, msg models.Message) {
	var p nicknamePayload
	if err := decodePayload(msg, &p); err != nil {
		d.fail(client, nil, "updateNickname", err)
		return
	}
	r, err := d.roomFor(client, p.RoomID)
	if err != nil {
		d.fail(client, nil, "updateNickname", err)
		return
	}
	state, err := r.UpdateNickname(client.ID, p.Nickname)
	if err != nil {
		d.fail(client, r, "updateNickname", err)
		return
	}

	for _, pl := range state.Players {
		if pl.ID == client.ID {
			client.Nickname = pl.Nickname
		}
	}
	database.UpdateSession(ctx, client, r.ID(), d.sessions, d.logger)

	broadcast.BroadcastGameState(d.hub, state)
	if !state.PracticeMode {
		d.broadcastRoomList()
	}
}
