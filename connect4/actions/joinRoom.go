package actions

import (
	"context"

	"connect4server/connect4/broadcast"
	"connect4server/connect4/database"
	"connect4server/models"

	"go.uber.org/zap"
)

type joinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

func (d *Dispatcher) handleJoinRoom(ctx context.Context, client *models.Client, msg models.Message) {
	var p joinRoomPayload
	if err := decodePayload(msg, &p); err != nil {
		d.fail(client, nil, "joinRoom", err)
		return
	}
	r, err := d.rooms.Get(p.RoomID)
	if err != nil {
		d.fail(client, nil, "joinRoom", err)
		return
	}
	if p.Nickname == "" {
		p.Nickname = client.Nickname
	}

	// 入室できてから元のルームを抜ける。失敗しても元の対局には影響しない
	player, err := r.AddPlayer(client.ID, p.Nickname)
	if err != nil {
		d.fail(client, r, "joinRoom", err)
		return
	}
	if current := d.hub.RoomOf(client); current != "" && current != r.ID() {
		d.leaveCurrentRoom(client, "Opponent left the room")
	}

	d.hub.Join(client, r.ID())
	client.Nickname = player.Nickname
	database.UpdateSession(ctx, client, r.ID(), d.sessions, d.logger)

	d.logger.Info("Player joined", zap.String("roomID", r.ID()), zap.String("clientID", client.ID))
	broadcast.BroadcastGameState(d.hub, r.Snapshot())
	d.broadcastRoomList()
}
