package actions

import (
	"context"

	"connect4server/connect4/database"
	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

type createRoomPayload struct {
	Nickname     string `json:"nickname"`
	TurnTime     *int   `json:"turnTime"`
	PracticeMode bool   `json:"practiceMode"`
}

func (d *Dispatcher) handleCreateRoom(ctx context.Context, client *models.Client, msg models.Message) {
	var p createRoomPayload
	if err := decodePayload(msg, &p); err != nil {
		d.fail(client, nil, "createRoom", err)
		return
	}

	turnTime := room.DefaultTurnTime
	if p.TurnTime != nil {
		turnTime = *p.TurnTime
	}
	if p.Nickname == "" {
		p.Nickname = client.Nickname
	}

	opts := append([]room.Option{room.WithNotifier(d)}, d.opts.RoomOptions...)
	r, err := d.rooms.Create(turnTime, p.PracticeMode, opts...)
	if err != nil {
		d.fail(client, nil, "createRoom", err)
		return
	}
	player, err := r.AddPlayer(client.ID, p.Nickname)
	if err != nil {
		d.rooms.Delete(r.ID())
		d.fail(client, nil, "createRoom", err)
		return
	}

	// 別のルームにいた場合は先に抜ける
	d.leaveCurrentRoom(client, "Opponent left the room")
	d.hub.Join(client, r.ID())
	client.Nickname = player.Nickname
	database.UpdateSession(ctx, client, r.ID(), d.sessions, d.logger)

	d.logger.Info("Room created",
		zap.String("roomID", r.ID()),
		zap.String("clientID", client.ID),
		zap.Int("turnTime", r.Info().TurnTime),
		zap.Bool("practice", r.Practice()),
	)
	d.hub.Send(client, "roomCreated", map[string]interface{}{
		"roomId": r.ID(),
		"state":  r.Snapshot(),
	})
	if !r.Practice() {
		d.broadcastRoomList()
	}
}
